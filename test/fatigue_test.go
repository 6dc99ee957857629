package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/fatigue/tracker"
	"github.com/evolvefit/fatiguecore/internal/planner"
	"github.com/evolvefit/fatiguecore/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllSnapshots(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM fatigue_snapshot")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) fatiguePost(
	ctx context.Context,
	token, path string,
	body interface{},
) *snapshots.Snapshot {
	bodyJson, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s%s", serverEndpoint, path),
		bytes.NewReader(bodyJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-EVOLVE-TOKEN", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var snapshot snapshots.Snapshot
	require.NoError(s.T(), json.Unmarshal(respBytes, &snapshot))
	return &snapshot
}

func (s *IntegrationTestSuite) getFatigueState(ctx context.Context, token, userID string) *snapshots.Snapshot {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/fatigue/%s/state", serverEndpoint, userID),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-EVOLVE-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var snapshot snapshots.Snapshot
	require.NoError(s.T(), json.Unmarshal(respBytes, &snapshot))
	return &snapshot
}

func (s *IntegrationTestSuite) TestFatigue_WorkoutAndRecoveryFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	s.deleteAllSnapshots(ctx)

	const userID = "fatigue-user-1"

	// a fresh user has a zero fatigue state
	initial := s.getFatigueState(ctx, token, userID)
	assert.Zero(t, initial.State.Central)
	for muscle, fatigueLevel := range initial.State.Peripheral {
		assert.Zero(t, fatigueLevel, "muscle: %s", muscle)
	}

	benchStimulus := fatigue.Stimulus{
		Exercise:   "bench_press",
		Sets:       4,
		Reps:       8,
		Weight:     80,
		OneRepMax:  100,
		Primary:    []fatigue.Muscle{fatigue.MuscleChest},
		Secondary:  []fatigue.Muscle{fatigue.MuscleTriceps},
		Difficulty: 1.2,
	}

	afterWorkout := s.fatiguePost(
		ctx, token,
		fmt.Sprintf("/fatigue/%s/workout", userID),
		tracker.ApplyWorkoutRequest{Stimuli: []fatigue.Stimulus{benchStimulus}},
	)
	assert.Greater(t, afterWorkout.State.Peripheral[fatigue.MuscleChest], 0.0)
	assert.Greater(t, afterWorkout.State.Peripheral[fatigue.MuscleTriceps], 0.0)
	assert.Greater(t, afterWorkout.State.Central, 0.0)
	// secondary muscles take an attenuated hit
	assert.Greater(
		t,
		afterWorkout.State.Peripheral[fatigue.MuscleChest],
		afterWorkout.State.Peripheral[fatigue.MuscleTriceps],
	)

	// resting decays fatigue
	afterRest := s.fatiguePost(
		ctx, token,
		fmt.Sprintf("/fatigue/%s/rest", userID),
		tracker.SimulateRestRequest{Hours: 24},
	)
	assert.Less(
		t,
		afterRest.State.Peripheral[fatigue.MuscleChest],
		afterWorkout.State.Peripheral[fatigue.MuscleChest],
	)
	assert.Less(t, afterRest.State.Central, afterWorkout.State.Central)

	// recovery projection does not change the stored state
	projReqJson, err := json.Marshal(tracker.ProjectRecoveryRequest{
		TargetFatigue:   0.1,
		UseCurrentState: true,
	})
	require.NoError(t, err)
	projReq, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/fatigue/%s/recovery", serverEndpoint, userID),
		bytes.NewReader(projReqJson),
	)
	require.NoError(t, err)
	projReq.Header.Set("User-Agent", "test-agent")
	projReq.Header.Set("X-EVOLVE-TOKEN", token)
	projReq.Header.Set("Content-Type", "application/json")

	projResp, err := s.httpClient.Do(projReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, projResp.StatusCode)
	projBytes, err := io.ReadAll(projResp.Body)
	require.NoError(t, err)
	require.NoError(t, projResp.Body.Close())

	var projection tracker.RecoveryProjection
	require.NoError(t, json.Unmarshal(projBytes, &projection))
	assert.Equal(t, 0.1, projection.TargetFatigue)
	assert.Greater(t, projection.PerMuscle[fatigue.MuscleChest], 0.0)

	stateAfterProjection := s.getFatigueState(ctx, token, userID)
	assert.InDelta(
		t,
		afterRest.State.Peripheral[fatigue.MuscleChest],
		stateAfterProjection.State.Peripheral[fatigue.MuscleChest],
		0.01,
	)
}

func (s *IntegrationTestSuite) TestFatigue_SyncFromLoggedWorkout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	s.deleteAllExercises(ctx)
	s.deleteAllSnapshots(ctx)

	const userID = "fatigue-user-2"
	now := time.Now()

	for _, kilos := range []float64{60, 65, 70} {
		s.newExerciseRequest(ctx, token, workouts.Exercise{
			UserID:      userID,
			ExerciseID:  "squat",
			MuscleGroup: "quads",
			Kilos:       kilos,
			Reps:        8,
			CreatedAt:   now,
		})
	}

	synced := s.fatiguePost(
		ctx, token,
		fmt.Sprintf("/fatigue/%s/sync", userID),
		tracker.SyncWorkoutRequest{
			From: now.Add(-time.Hour),
		},
	)
	assert.Greater(t, synced.State.Peripheral[fatigue.MuscleQuads], 0.0)
	assert.Greater(t, synced.State.Central, 0.0)
}

func (s *IntegrationTestSuite) TestPlanner_Week() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	s.deleteAllSnapshots(ctx)

	const userID = "planner-user-1"

	planReqJson, err := json.Marshal(planner.PlanWeekRequest{
		Days: 7,
		Sessions: []planner.Session{
			{
				Name: "push day",
				Stimuli: []fatigue.Stimulus{
					{
						Exercise:   "bench_press",
						Sets:       4,
						Reps:       8,
						Weight:     80,
						OneRepMax:  100,
						Primary:    []fatigue.Muscle{fatigue.MuscleChest},
						Secondary:  []fatigue.Muscle{fatigue.MuscleTriceps},
						Difficulty: 1.2,
					},
				},
			},
			{
				Name: "leg day",
				Stimuli: []fatigue.Stimulus{
					{
						Exercise:   "squat",
						Sets:       4,
						Reps:       8,
						Weight:     100,
						OneRepMax:  130,
						Primary:    []fatigue.Muscle{fatigue.MuscleQuads},
						Secondary:  []fatigue.Muscle{fatigue.MuscleGlutes},
						Difficulty: 1.4,
					},
				},
			},
		},
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/planner/%s/week", serverEndpoint, userID),
		bytes.NewReader(planReqJson),
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-EVOLVE-TOKEN", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var plan planner.WeekPlan
	require.NoError(t, json.Unmarshal(respBytes, &plan))
	require.Len(t, plan.Days, 7)

	scheduled := 0
	for _, day := range plan.Days {
		if day.Session != nil {
			scheduled++
		}
	}
	assert.Greater(t, scheduled, 0)
}
