package fatigue

// Config holds the tunable parameters of the two-compartment model.
// Loaded once at model construction and never mutated afterwards.
type Config struct {
	// PeripheralDecayRate is the hourly exponential decay rate of
	// per-muscle (peripheral) fatigue.
	PeripheralDecayRate float64 `toml:"peripheral_decay_rate"`
	// CentralDecayRate is the hourly exponential decay rate of the
	// system-wide (central) fatigue compartment.
	CentralDecayRate float64 `toml:"central_decay_rate"`

	// PeripheralToCentral is the share of every stimulus contribution
	// that feeds the central compartment.
	PeripheralToCentral float64 `toml:"peripheral_to_central"`
	// CentralToPeripheral amplifies peripheral accumulation when the
	// central compartment is already elevated: training tired muscles
	// while systemically fatigued costs more.
	CentralToPeripheral float64 `toml:"central_to_peripheral"`

	// SecondaryAttenuation scales the contribution for muscles listed
	// as secondary movers, relative to primary ones.
	SecondaryAttenuation float64 `toml:"secondary_attenuation"`

	// DifficultyScale scales all difficulty multipliers, and
	// DefaultDifficulty is used for exercises not in the catalog.
	DifficultyScale   float64 `toml:"difficulty_scale"`
	DefaultDifficulty float64 `toml:"default_difficulty"`

	// MuscleWeights holds optional per-muscle weighting; muscles not
	// present weigh 1.0. Smaller groups (biceps, calves) typically get
	// a weight below 1 since they take less total damage per session.
	MuscleWeights map[Muscle]float64 `toml:"muscle_weights"`
}

// DefaultConfig returns the parameter set used in production.
// Peripheral half-life ~18h, central half-life ~33h.
func DefaultConfig() Config {
	return Config{
		PeripheralDecayRate:  0.038,
		CentralDecayRate:     0.021,
		PeripheralToCentral:  0.6,
		CentralToPeripheral:  0.25,
		SecondaryAttenuation: 0.5,
		DifficultyScale:      1.0,
		DefaultDifficulty:    1.0,
		MuscleWeights: map[Muscle]float64{
			MuscleBiceps:   0.8,
			MuscleTriceps:  0.8,
			MuscleForearms: 0.6,
			MuscleCalves:   0.7,
			MuscleCore:     0.75,
		},
	}
}

func (c Config) muscleWeight(m Muscle) float64 {
	if w, ok := c.MuscleWeights[m]; ok {
		return w
	}
	return 1.0
}
