package fatigue

// Muscle is a muscle group key from the fixed taxonomy.
// The same keys are used in the workout log, the fatigue snapshots
// and the planner, so they have to stay stable.
type Muscle string

const (
	MuscleChest      Muscle = "chest"
	MuscleBack       Muscle = "back"
	MuscleShoulders  Muscle = "shoulders"
	MuscleBiceps     Muscle = "biceps"
	MuscleTriceps    Muscle = "triceps"
	MuscleForearms   Muscle = "forearms"
	MuscleQuads      Muscle = "quads"
	MuscleHamstrings Muscle = "hamstrings"
	MuscleGlutes     Muscle = "glutes"
	MuscleCalves     Muscle = "calves"
	MuscleCore       Muscle = "core"
	MuscleLowerBack  Muscle = "lower_back"
	MuscleTraps      Muscle = "traps"
)

// AllMuscles lists the full taxonomy, in a stable order.
var AllMuscles = []Muscle{
	MuscleChest,
	MuscleBack,
	MuscleShoulders,
	MuscleBiceps,
	MuscleTriceps,
	MuscleForearms,
	MuscleQuads,
	MuscleHamstrings,
	MuscleGlutes,
	MuscleCalves,
	MuscleCore,
	MuscleLowerBack,
	MuscleTraps,
}

var muscleSet = func() map[Muscle]bool {
	m := make(map[Muscle]bool, len(AllMuscles))
	for _, muscle := range AllMuscles {
		m[muscle] = true
	}
	return m
}()

func (m Muscle) String() string {
	return string(m)
}

func (m Muscle) IsValid() bool {
	return muscleSet[m]
}
