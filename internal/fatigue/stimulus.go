package fatigue

import "math"

// Stimulus is one performed exercise's contribution to fatigue.
type Stimulus struct {
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	// Weight is the working weight, OneRepMax the estimated 1RM for
	// this exercise; their ratio drives the intensity term.
	Weight    float64 `json:"weight"`
	OneRepMax float64 `json:"oneRepMax"`

	Primary   []Muscle `json:"primary"`
	Secondary []Muscle `json:"secondary"`

	// Difficulty is the per-exercise multiplier; 0 means "unknown, use
	// the configured default".
	Difficulty float64 `json:"difficulty"`
}

func (s Stimulus) Validate() error {
	if s.Sets < 0 || s.Reps < 0 {
		return newValidationError("exercise %q: negative sets/reps", s.Exercise)
	}
	if s.Weight < 0 || s.OneRepMax < 0 {
		return newValidationError("exercise %q: negative weight", s.Exercise)
	}
	if len(s.Primary) == 0 {
		return newValidationError("exercise %q: no primary muscles", s.Exercise)
	}
	for _, m := range append(append([]Muscle{}, s.Primary...), s.Secondary...) {
		if !m.IsValid() {
			return newValidationError("exercise %q: unknown muscle %q", s.Exercise, m)
		}
	}
	return nil
}

// intensity is the weight to estimated-1RM ratio, capped at 1.5 so a
// bad 1RM estimate cannot blow up a whole session.
func (s Stimulus) intensity() float64 {
	if s.OneRepMax <= 0 {
		return 0
	}
	ratio := s.Weight / s.OneRepMax
	if ratio > 1.5 {
		ratio = 1.5
	}
	return ratio
}

// contribution derives the fatigue added by this stimulus before any
// muscle weighting: monotonic in intensity and in total volume
// (sets x reps), saturating so no single exercise can exceed 1.0.
func (s Stimulus) contribution(cfg Config) float64 {
	difficulty := s.Difficulty
	if difficulty <= 0 {
		difficulty = cfg.DefaultDifficulty
	}

	load := s.intensity() * float64(s.Sets*s.Reps)
	if load <= 0 {
		return 0
	}

	// saturates around ~30 effective reps at full intensity
	return clamp01(cfg.DifficultyScale * difficulty * (1 - math.Exp(-load/30)))
}
