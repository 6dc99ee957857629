package workouts

import (
	"math"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
)

// EstimateOneRepMax returns the Epley estimate of the one rep max
// for a set of the given weight and reps.
func EstimateOneRepMax(kilos float64, reps int) float64 {
	if reps <= 1 {
		return kilos
	}
	return kilos * (1 + float64(reps)/30)
}

// ToStimuli folds logged sets into per-exercise training stimuli.
// Sets of the same exercise are grouped together: the stimulus carries
// the set count, the average rep count and the heaviest weight used.
// The exercise catalog supplies primary and secondary muscles plus the
// difficulty factor; for exercises not in the catalog the logged muscle
// group is used as the primary muscle.
func ToStimuli(sets []Exercise) []fatigue.Stimulus {
	type group struct {
		exerciseID  string
		muscleGroup string
		setCount    int
		repsTotal   int
		maxKilos    float64
		maxKilosReps int
	}

	var order []string
	groups := make(map[string]*group)
	for _, s := range sets {
		g, ok := groups[s.ExerciseID]
		if !ok {
			g = &group{exerciseID: s.ExerciseID, muscleGroup: s.MuscleGroup}
			groups[s.ExerciseID] = g
			order = append(order, s.ExerciseID)
		}
		g.setCount++
		g.repsTotal += s.Reps
		if s.Kilos > g.maxKilos {
			g.maxKilos = s.Kilos
			g.maxKilosReps = s.Reps
		}
	}

	stimuli := make([]fatigue.Stimulus, 0, len(order))
	for _, exerciseID := range order {
		g := groups[exerciseID]
		stimulus := fatigue.Stimulus{
			Exercise:  g.exerciseID,
			Sets:      g.setCount,
			Reps:      int(math.Round(float64(g.repsTotal) / float64(g.setCount))),
			Weight:    g.maxKilos,
			OneRepMax: EstimateOneRepMax(g.maxKilos, g.maxKilosReps),
		}

		if entry, ok := fatigue.LookupExercise(g.exerciseID); ok {
			stimulus.Primary = entry.Primary
			stimulus.Secondary = entry.Secondary
			stimulus.Difficulty = entry.Difficulty
		} else {
			stimulus.Primary = []fatigue.Muscle{fatigue.Muscle(g.muscleGroup)}
		}

		stimuli = append(stimuli, stimulus)
	}

	return stimuli
}
