package fatigue

import "math"

// State holds the fatigue values of both compartments: peripheral per
// muscle, central once for the whole system. All values live in [0, 1].
type State struct {
	Peripheral map[Muscle]float64 `json:"peripheral"`
	Central    float64            `json:"central"`
}

// NewState returns a zero-fatigue state covering the full taxonomy.
func NewState() State {
	peripheral := make(map[Muscle]float64, len(AllMuscles))
	for _, m := range AllMuscles {
		peripheral[m] = 0
	}
	return State{Peripheral: peripheral}
}

// Clone returns a deep copy, so callers can hand states around without
// aliasing the model's owned state.
func (s State) Clone() State {
	peripheral := make(map[Muscle]float64, len(s.Peripheral))
	for m, v := range s.Peripheral {
		peripheral[m] = v
	}
	return State{Peripheral: peripheral, Central: s.Central}
}

// Normalize fills in taxonomy muscles missing from the peripheral map
// and clamps everything back into [0, 1]. Used when a state comes from
// the outside (stored snapshot, API override).
func (s *State) Normalize() {
	if s.Peripheral == nil {
		s.Peripheral = make(map[Muscle]float64, len(AllMuscles))
	}
	for _, m := range AllMuscles {
		s.Peripheral[m] = clamp01(s.Peripheral[m])
	}
	s.Central = clamp01(s.Central)
}

// Validate rejects states referencing muscles outside the taxonomy.
func (s State) Validate() error {
	for m := range s.Peripheral {
		if !m.IsValid() {
			return newValidationError("unknown muscle %q in state", m)
		}
	}
	return nil
}

func (s *State) decay(hours float64, cfg Config) {
	perFactor := math.Exp(-cfg.PeripheralDecayRate * hours)
	for m, v := range s.Peripheral {
		s.Peripheral[m] = clamp01(v * perFactor)
	}
	s.Central = clamp01(s.Central * math.Exp(-cfg.CentralDecayRate*hours))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
