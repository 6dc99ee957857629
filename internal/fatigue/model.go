// Package fatigue implements the two-compartment muscular fatigue model
// used for workout planning.
//
// Fatigue is tracked in two compartments: peripheral (per muscle group,
// within the trained muscle) and central (system-wide). Both decay
// exponentially between stimuli, at their own rates. A performed
// exercise adds a contribution to the peripheral compartment of the
// muscles it targets (attenuated for secondary movers) and a share of
// it to the central compartment.
package fatigue

import "math"

// Model is the stateful simulator. One instance per user session or
// tool-call context; the owned state is loaded from and persisted to
// the user's stored fatigue snapshot by the tracker service.
//
// Not safe for concurrent use.
type Model struct {
	cfg   Config
	state State
}

// NewModel builds a model from the given config and an optional initial
// state. A nil initial state starts at zero fatigue.
func NewModel(cfg Config, initial *State) (*Model, error) {
	state := NewState()
	if initial != nil {
		if err := initial.Validate(); err != nil {
			return nil, err
		}
		state = initial.Clone()
		state.Normalize()
	}
	return &Model{cfg: cfg, state: state}, nil
}

// State returns a copy of the current state.
func (m *Model) State() State {
	return m.state.Clone()
}

func (m *Model) Config() Config {
	return m.cfg
}

// ApplyWorkout first decays the current state by elapsedHours, then adds
// every stimulus contribution: to the peripheral compartment of each
// targeted muscle and, aggregated across all exercises, to the central
// compartment. Values are clamped to [0, 1] after every single update,
// never before. Mutates the owned state.
func (m *Model) ApplyWorkout(stimuli []Stimulus, elapsedHours float64) (State, error) {
	if elapsedHours < 0 {
		return State{}, newValidationError("negative elapsed hours: %f", elapsedHours)
	}
	for _, s := range stimuli {
		if err := s.Validate(); err != nil {
			return State{}, err
		}
	}

	m.state.decay(elapsedHours, m.cfg)
	applyStimuli(&m.state, stimuli, m.cfg)

	return m.state.Clone(), nil
}

// SimulateRest applies only the decay step for the given duration.
// Resting h1 then h2 hours lands on the same state as resting h1+h2
// directly (exponential composition law).
func (m *Model) SimulateRest(hours float64) (State, error) {
	if hours < 0 {
		return State{}, newValidationError("negative rest hours: %f", hours)
	}
	m.state.decay(hours, m.cfg)
	return m.state.Clone(), nil
}

// ProjectRecovery computes, without touching the owned state, the fatigue
// immediately after applying stimuli to either the current state, the
// supplied override, or a fresh zero state, and then solves the decay
// equation per muscle for the hours needed to fall back to targetFatigue.
// Muscles already at or below target map to 0.
func (m *Model) ProjectRecovery(
	stimuli []Stimulus,
	targetFatigue float64,
	useCurrentState bool,
	override *State,
) (map[Muscle]float64, error) {
	if targetFatigue <= 0 || targetFatigue > 1 {
		return nil, newValidationError("target fatigue %f outside (0, 1]", targetFatigue)
	}
	for _, s := range stimuli {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	var projected State
	switch {
	case override != nil:
		if err := override.Validate(); err != nil {
			return nil, err
		}
		projected = override.Clone()
		projected.Normalize()
	case useCurrentState:
		projected = m.state.Clone()
	default:
		projected = NewState()
	}

	applyStimuli(&projected, stimuli, m.cfg)

	// F(t) = F0 * exp(-k*t) => t = ln(F0/target) / k
	hours := make(map[Muscle]float64, len(projected.Peripheral))
	for muscle, f := range projected.Peripheral {
		if f <= targetFatigue {
			hours[muscle] = 0
			continue
		}
		hours[muscle] = math.Log(f/targetFatigue) / m.cfg.PeripheralDecayRate
	}

	return hours, nil
}

// CentralRecoveryHours solves the same decay equation for the central
// compartment of the current state.
func (m *Model) CentralRecoveryHours(targetFatigue float64) (float64, error) {
	if targetFatigue <= 0 || targetFatigue > 1 {
		return 0, newValidationError("target fatigue %f outside (0, 1]", targetFatigue)
	}
	if m.state.Central <= targetFatigue {
		return 0, nil
	}
	return math.Log(m.state.Central/targetFatigue) / m.cfg.CentralDecayRate, nil
}

// applyStimuli assumes stimuli are already validated.
func applyStimuli(state *State, stimuli []Stimulus, cfg Config) {
	for _, s := range stimuli {
		c := s.contribution(cfg)
		if c == 0 {
			continue
		}

		// systemic fatigue makes local accumulation more expensive
		amplification := 1 + cfg.CentralToPeripheral*state.Central

		for _, muscle := range s.Primary {
			state.Peripheral[muscle] = clamp01(
				state.Peripheral[muscle] + c*cfg.muscleWeight(muscle)*amplification,
			)
		}
		for _, muscle := range s.Secondary {
			state.Peripheral[muscle] = clamp01(
				state.Peripheral[muscle] + c*cfg.SecondaryAttenuation*cfg.muscleWeight(muscle)*amplification,
			)
		}

		state.Central = clamp01(state.Central + c*cfg.PeripheralToCentral)
	}
}
