package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/telemetry/metrics"
	"github.com/evolvefit/fatiguecore/internal/telemetry/tracing"
	"github.com/evolvefit/fatiguecore/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=tracker_test

type snapshotsRepo interface {
	Get(ctx context.Context, userID string) (*snapshots.Snapshot, error)
	Upsert(ctx context.Context, snapshot snapshots.Snapshot) error
}

type workoutsRepo interface {
	ListAll(ctx context.Context, params workouts.ExerciseParams) ([]workouts.Exercise, error)
}

// Service drives the per-user fatigue model: it loads the persisted
// snapshot, advances it through the model and stores the result back.
type Service struct {
	cfg       fatigue.Config
	snapshots snapshotsRepo
	workouts  workoutsRepo
	metrics   *metrics.Manager

	now func() time.Time
}

func NewService(
	cfg fatigue.Config,
	snapshotsRepo snapshotsRepo,
	workoutsRepo workoutsRepo,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		cfg:       cfg,
		snapshots: snapshotsRepo,
		workouts:  workoutsRepo,
		metrics:   metricsManager,
		now:       time.Now,
	}
}

// loadSnapshot returns the stored snapshot for the user, or a fresh
// zero-state snapshot if none was stored yet.
func (s *Service) loadSnapshot(ctx context.Context, userID string) (*snapshots.Snapshot, error) {
	snapshot, err := s.snapshots.Get(ctx, userID)
	if errors.Is(err, snapshots.ErrSnapshotNotFound) {
		return &snapshots.Snapshot{
			UserID:    userID,
			State:     fatigue.NewState(),
			UpdatedAt: s.now(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", userID, err)
	}
	return snapshot, nil
}

func (s *Service) elapsedHours(snapshot *snapshots.Snapshot, at time.Time) float64 {
	elapsed := at.Sub(snapshot.UpdatedAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// GetState returns the user's fatigue state decayed to the present
// moment. The stored snapshot is not touched.
func (s *Service) GetState(ctx context.Context, userID string) (_ *snapshots.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.getState")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	snapshot, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	model, err := fatigue.NewModel(s.cfg, &snapshot.State)
	if err != nil {
		return nil, err
	}

	now := s.now()
	state, err := model.SimulateRest(s.elapsedHours(snapshot, now))
	if err != nil {
		return nil, err
	}

	return &snapshots.Snapshot{
		UserID:    userID,
		State:     state,
		UpdatedAt: now,
	}, nil
}

// ApplyWorkout decays the stored state for the time elapsed since the
// last update, applies the workout stimuli and persists the result.
func (s *Service) ApplyWorkout(
	ctx context.Context,
	userID string,
	stimuli []fatigue.Stimulus,
) (_ *snapshots.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.applyWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Int("stimuli", len(stimuli)))

	snapshot, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	model, err := fatigue.NewModel(s.cfg, &snapshot.State)
	if err != nil {
		return nil, err
	}

	now := s.now()
	state, err := model.ApplyWorkout(stimuli, s.elapsedHours(snapshot, now))
	if err != nil {
		return nil, err
	}

	updated := snapshots.Snapshot{
		UserID:    userID,
		State:     state,
		UpdatedAt: now,
	}
	if err := s.snapshots.Upsert(ctx, updated); err != nil {
		return nil, fmt.Errorf("store snapshot for %s: %w", userID, err)
	}

	s.metrics.CounterFatigueUpdates.Inc()
	return &updated, nil
}

// SyncLoggedWorkout folds the user's logged sets from the given window
// into stimuli and applies them as one workout.
func (s *Service) SyncLoggedWorkout(
	ctx context.Context,
	userID string,
	from, to time.Time,
) (_ *snapshots.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.syncLoggedWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	sets, err := s.workouts.ListAll(ctx, workouts.ExerciseParams{
		UserID:             userID,
		From:               &from,
		To:                 &to,
		ExcludeTestingData: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list logged sets for %s: %w", userID, err)
	}

	return s.ApplyWorkout(ctx, userID, workouts.ToStimuli(sets))
}

// SimulateRest advances the user's state by the given hours of rest
// and persists the result.
func (s *Service) SimulateRest(
	ctx context.Context,
	userID string,
	hours float64,
) (_ *snapshots.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.simulateRest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Float64("hours", hours))

	snapshot, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	model, err := fatigue.NewModel(s.cfg, &snapshot.State)
	if err != nil {
		return nil, err
	}

	state, err := model.SimulateRest(hours)
	if err != nil {
		return nil, err
	}

	updated := snapshots.Snapshot{
		UserID:    userID,
		State:     state,
		UpdatedAt: snapshot.UpdatedAt.Add(time.Duration(hours * float64(time.Hour))),
	}
	if err := s.snapshots.Upsert(ctx, updated); err != nil {
		return nil, fmt.Errorf("store snapshot for %s: %w", userID, err)
	}

	s.metrics.CounterFatigueUpdates.Inc()
	return &updated, nil
}

// RecoveryProjection is the answer to "when can I train again":
// per-muscle hours until fatigue drops to the target, plus the hours
// for the central compartment.
type RecoveryProjection struct {
	TargetFatigue float64                    `json:"targetFatigue"`
	PerMuscle     map[fatigue.Muscle]float64 `json:"perMuscle"`
	CentralHours  float64                    `json:"centralHours"`
}

// ProjectRecovery answers recovery questions without mutating the
// stored snapshot. The hypothetical stimuli are applied on top of
// either the current state, an override state, or a zero state.
func (s *Service) ProjectRecovery(
	ctx context.Context,
	userID string,
	stimuli []fatigue.Stimulus,
	targetFatigue float64,
	useCurrentState bool,
	override *fatigue.State,
) (_ *RecoveryProjection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.projectRecovery")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Float64("target", targetFatigue))

	snapshot, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	model, err := fatigue.NewModel(s.cfg, &snapshot.State)
	if err != nil {
		return nil, err
	}

	perMuscle, err := model.ProjectRecovery(stimuli, targetFatigue, useCurrentState, override)
	if err != nil {
		return nil, err
	}

	centralHours, err := model.CentralRecoveryHours(targetFatigue)
	if err != nil {
		return nil, err
	}

	s.metrics.CounterRecoveryProjection.Inc()
	return &RecoveryProjection{
		TargetFatigue: targetFatigue,
		PerMuscle:     perMuscle,
		CentralHours:  centralHours,
	}, nil
}
