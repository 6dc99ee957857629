package fatigue

import (
	"errors"
	"fmt"
)

// ErrValidation marks recoverable input errors: callers can test with
// errors.Is and map them to a 400 instead of a 500.
var ErrValidation = errors.New("validation")

func newValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
