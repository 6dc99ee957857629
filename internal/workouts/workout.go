package workouts

import "time"

// Exercise is a single logged set of a given exercise.
type Exercise struct {
	ID          int               `json:"id"`
	UserID      string            `json:"userId"`
	ExerciseID  string            `json:"exerciseId"`
	MuscleGroup string            `json:"muscleGroup"`
	Kilos       float64           `json:"kilos"`
	Reps        int               `json:"reps"`
	CreatedAt   time.Time         `json:"createdAt"`
	Metadata    map[string]string `json:"metadata"`
}
