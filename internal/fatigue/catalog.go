package fatigue

import "strings"

// CatalogEntry maps a canonical exercise id to its muscle targeting and
// difficulty multiplier. Compound barbell lifts sit above 1.0, isolation
// work below.
type CatalogEntry struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Primary    []Muscle `json:"primary"`
	Secondary  []Muscle `json:"secondary"`
	Difficulty float64  `json:"difficulty"`
}

// Catalog holds the built-in exercise database. Lookups are by id
// (snake_case, e.g. "bench_press"); unknown ids are not an error, the
// model falls back to the configured default difficulty.
var Catalog = []CatalogEntry{
	// chest
	{ID: "bench_press", Name: "Bench Press", Primary: []Muscle{MuscleChest}, Secondary: []Muscle{MuscleTriceps, MuscleShoulders}, Difficulty: 1.2},
	{ID: "incline_bench_press", Name: "Incline Bench Press", Primary: []Muscle{MuscleChest}, Secondary: []Muscle{MuscleShoulders, MuscleTriceps}, Difficulty: 1.15},
	{ID: "chest_press", Name: "Chest Press Machine", Primary: []Muscle{MuscleChest}, Secondary: []Muscle{MuscleTriceps}, Difficulty: 1.0},
	{ID: "chest_fly", Name: "Chest Fly", Primary: []Muscle{MuscleChest}, Secondary: nil, Difficulty: 0.8},
	{ID: "push_up", Name: "Push Up", Primary: []Muscle{MuscleChest}, Secondary: []Muscle{MuscleTriceps, MuscleCore}, Difficulty: 0.7},

	// back
	{ID: "deadlift", Name: "Deadlift", Primary: []Muscle{MuscleBack, MuscleHamstrings}, Secondary: []Muscle{MuscleGlutes, MuscleLowerBack, MuscleForearms, MuscleTraps}, Difficulty: 1.5},
	{ID: "barbell_row", Name: "Barbell Row", Primary: []Muscle{MuscleBack}, Secondary: []Muscle{MuscleBiceps, MuscleLowerBack}, Difficulty: 1.2},
	{ID: "pull_up", Name: "Pull Up", Primary: []Muscle{MuscleBack}, Secondary: []Muscle{MuscleBiceps, MuscleForearms}, Difficulty: 1.1},
	{ID: "lat_pulldown", Name: "Lat Pulldown", Primary: []Muscle{MuscleBack}, Secondary: []Muscle{MuscleBiceps}, Difficulty: 0.9},
	{ID: "seated_row", Name: "Seated Cable Row", Primary: []Muscle{MuscleBack}, Secondary: []Muscle{MuscleBiceps}, Difficulty: 0.9},

	// shoulders
	{ID: "overhead_press", Name: "Overhead Press", Primary: []Muscle{MuscleShoulders}, Secondary: []Muscle{MuscleTriceps, MuscleCore}, Difficulty: 1.2},
	{ID: "lateral_raise", Name: "Lateral Raise", Primary: []Muscle{MuscleShoulders}, Secondary: nil, Difficulty: 0.7},
	{ID: "face_pull", Name: "Face Pull", Primary: []Muscle{MuscleShoulders}, Secondary: []Muscle{MuscleTraps}, Difficulty: 0.6},
	{ID: "shrug", Name: "Shrug", Primary: []Muscle{MuscleTraps}, Secondary: []Muscle{MuscleForearms}, Difficulty: 0.7},

	// arms
	{ID: "biceps_curl", Name: "Biceps Curl", Primary: []Muscle{MuscleBiceps}, Secondary: []Muscle{MuscleForearms}, Difficulty: 0.7},
	{ID: "hammer_curl", Name: "Hammer Curl", Primary: []Muscle{MuscleBiceps, MuscleForearms}, Secondary: nil, Difficulty: 0.7},
	{ID: "triceps_pushdown", Name: "Triceps Pushdown", Primary: []Muscle{MuscleTriceps}, Secondary: nil, Difficulty: 0.65},
	{ID: "skull_crusher", Name: "Skull Crusher", Primary: []Muscle{MuscleTriceps}, Secondary: nil, Difficulty: 0.75},
	{ID: "dip", Name: "Dip", Primary: []Muscle{MuscleTriceps, MuscleChest}, Secondary: []Muscle{MuscleShoulders}, Difficulty: 1.0},

	// legs
	{ID: "squat", Name: "Back Squat", Primary: []Muscle{MuscleQuads, MuscleGlutes}, Secondary: []Muscle{MuscleHamstrings, MuscleLowerBack, MuscleCore}, Difficulty: 1.4},
	{ID: "front_squat", Name: "Front Squat", Primary: []Muscle{MuscleQuads}, Secondary: []Muscle{MuscleGlutes, MuscleCore}, Difficulty: 1.35},
	{ID: "leg_press", Name: "Leg Press", Primary: []Muscle{MuscleQuads, MuscleGlutes}, Secondary: []Muscle{MuscleHamstrings}, Difficulty: 1.1},
	{ID: "romanian_deadlift", Name: "Romanian Deadlift", Primary: []Muscle{MuscleHamstrings}, Secondary: []Muscle{MuscleGlutes, MuscleLowerBack}, Difficulty: 1.2},
	{ID: "leg_curl", Name: "Leg Curl", Primary: []Muscle{MuscleHamstrings}, Secondary: nil, Difficulty: 0.75},
	{ID: "leg_extension", Name: "Leg Extension", Primary: []Muscle{MuscleQuads}, Secondary: nil, Difficulty: 0.7},
	{ID: "lunge", Name: "Lunge", Primary: []Muscle{MuscleQuads, MuscleGlutes}, Secondary: []Muscle{MuscleHamstrings, MuscleCore}, Difficulty: 1.0},
	{ID: "hip_thrust", Name: "Hip Thrust", Primary: []Muscle{MuscleGlutes}, Secondary: []Muscle{MuscleHamstrings}, Difficulty: 0.95},
	{ID: "calf_raise", Name: "Calf Raise", Primary: []Muscle{MuscleCalves}, Secondary: nil, Difficulty: 0.6},

	// core
	{ID: "plank", Name: "Plank", Primary: []Muscle{MuscleCore}, Secondary: []Muscle{MuscleLowerBack}, Difficulty: 0.5},
	{ID: "hanging_leg_raise", Name: "Hanging Leg Raise", Primary: []Muscle{MuscleCore}, Secondary: []Muscle{MuscleForearms}, Difficulty: 0.7},
	{ID: "back_extension", Name: "Back Extension", Primary: []Muscle{MuscleLowerBack}, Secondary: []Muscle{MuscleGlutes, MuscleHamstrings}, Difficulty: 0.7},
}

var catalogByID = func() map[string]CatalogEntry {
	m := make(map[string]CatalogEntry, len(Catalog))
	for _, e := range Catalog {
		m[e.ID] = e
	}
	return m
}()

// LookupExercise returns the catalog entry for the given id, normalizing
// case and separators ("Bench Press" matches "bench_press").
func LookupExercise(id string) (CatalogEntry, bool) {
	normalized := strings.ToLower(strings.TrimSpace(id))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	e, ok := catalogByID[normalized]
	return e, ok
}
