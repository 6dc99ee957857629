package mcp

import (
	"context"
	"fmt"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/fatigue/tracker"
	"github.com/evolvefit/fatiguecore/internal/planner"
	"github.com/evolvefit/fatiguecore/internal/workouts"
)

// fatigueTracker drives the per-user fatigue model (for dependency injection and testing).
type fatigueTracker interface {
	GetState(ctx context.Context, userID string) (*snapshots.Snapshot, error)
	ApplyWorkout(ctx context.Context, userID string, stimuli []fatigue.Stimulus) (*snapshots.Snapshot, error)
	SimulateRest(ctx context.Context, userID string, hours float64) (*snapshots.Snapshot, error)
	ProjectRecovery(
		ctx context.Context,
		userID string,
		stimuli []fatigue.Stimulus,
		targetFatigue float64,
		useCurrentState bool,
		override *fatigue.State,
	) (*tracker.RecoveryProjection, error)
}

// weekPlanner schedules candidate sessions over days (for dependency injection and testing).
type weekPlanner interface {
	PlanWeek(initial fatigue.State, candidates []planner.Session, days int) (*planner.WeekPlan, error)
}

// contextService provides fatigue context data for the MCP tools.
// Used by Handler for testability.
type contextService interface {
	GetState(ctx context.Context, userID string) (*snapshots.Snapshot, error)
	ApplyWorkout(ctx context.Context, userID string, stimuli []fatigue.Stimulus) (*snapshots.Snapshot, error)
	SimulateRest(ctx context.Context, userID string, hours float64) (*snapshots.Snapshot, error)
	ProjectRecovery(ctx context.Context, userID string, stimuli []fatigue.Stimulus, targetFatigue float64, useCurrentState bool) (*tracker.RecoveryProjection, error)
	PlanWeek(ctx context.Context, userID string, sessions []planner.Session, days int) (*planner.WeekPlan, error)
	ExerciseCatalog(muscle string) []fatigue.CatalogEntry
}

// ContextService wires the fatigue tracker and the planner into the MCP tools.
type ContextService struct {
	tracker fatigueTracker
	planner weekPlanner
}

func NewContextService(fatigueTracker fatigueTracker, weekPlanner weekPlanner) *ContextService {
	return &ContextService{
		tracker: fatigueTracker,
		planner: weekPlanner,
	}
}

func (s *ContextService) GetState(ctx context.Context, userID string) (*snapshots.Snapshot, error) {
	return s.tracker.GetState(ctx, userID)
}

func (s *ContextService) ApplyWorkout(ctx context.Context, userID string, stimuli []fatigue.Stimulus) (*snapshots.Snapshot, error) {
	return s.tracker.ApplyWorkout(ctx, userID, stimuli)
}

func (s *ContextService) SimulateRest(ctx context.Context, userID string, hours float64) (*snapshots.Snapshot, error) {
	return s.tracker.SimulateRest(ctx, userID, hours)
}

func (s *ContextService) ProjectRecovery(
	ctx context.Context,
	userID string,
	stimuli []fatigue.Stimulus,
	targetFatigue float64,
	useCurrentState bool,
) (*tracker.RecoveryProjection, error) {
	return s.tracker.ProjectRecovery(ctx, userID, stimuli, targetFatigue, useCurrentState, nil)
}

// PlanWeek plans from the user's present fatigue state.
func (s *ContextService) PlanWeek(
	ctx context.Context,
	userID string,
	sessions []planner.Session,
	days int,
) (*planner.WeekPlan, error) {
	snapshot, err := s.tracker.GetState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get state for %s: %w", userID, err)
	}
	return s.planner.PlanWeek(snapshot.State, sessions, days)
}

// ExerciseCatalog returns the catalog, optionally filtered to entries
// whose primary muscles include the given one.
func (s *ContextService) ExerciseCatalog(muscle string) []fatigue.CatalogEntry {
	entries := fatigue.Catalog
	if muscle == "" {
		return entries
	}
	var filtered []fatigue.CatalogEntry
	for _, entry := range entries {
		for _, m := range entry.Primary {
			if string(m) == muscle {
				filtered = append(filtered, entry)
				break
			}
		}
	}
	return filtered
}

// ExerciseInput is one performed or hypothetical exercise given to a tool.
type ExerciseInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"Exercise id from the catalog (e.g. bench_press, squat)"`
	Sets       int     `json:"sets" jsonschema:"Number of sets performed"`
	Reps       int     `json:"reps" jsonschema:"Reps per set"`
	Kilos      float64 `json:"kilos" jsonschema:"Working weight in kilos"`
	OneRepMax  float64 `json:"one_rep_max,omitempty" jsonschema:"Estimated one rep max in kilos; Epley estimate from kilos and reps when omitted"`
}

// toStimulus resolves the exercise against the catalog and fills the
// missing one rep max with the Epley estimate.
func (in ExerciseInput) toStimulus() fatigue.Stimulus {
	stimulus := fatigue.Stimulus{
		Exercise:  in.ExerciseID,
		Sets:      in.Sets,
		Reps:      in.Reps,
		Weight:    in.Kilos,
		OneRepMax: in.OneRepMax,
	}
	if stimulus.OneRepMax <= 0 {
		stimulus.OneRepMax = workouts.EstimateOneRepMax(in.Kilos, in.Reps)
	}
	if entry, ok := fatigue.LookupExercise(in.ExerciseID); ok {
		stimulus.Primary = entry.Primary
		stimulus.Secondary = entry.Secondary
		stimulus.Difficulty = entry.Difficulty
	}
	return stimulus
}

func toStimuli(inputs []ExerciseInput) []fatigue.Stimulus {
	stimuli := make([]fatigue.Stimulus, 0, len(inputs))
	for _, in := range inputs {
		stimuli = append(stimuli, in.toStimulus())
	}
	return stimuli
}
