package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evolvefit/fatiguecore/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllExercises(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM exercise")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newExerciseRequest(
	ctx context.Context,
	token string,
	exercise workouts.Exercise,
) workouts.AddExerciseResponse {
	exerciseJson, err := json.Marshal(exercise)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/workouts", serverEndpoint),
		bytes.NewReader(exerciseJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-EVOLVE-TOKEN", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var addedExercise workouts.AddExerciseResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &addedExercise))

	return addedExercise
}

func (s *IntegrationTestSuite) getExerciseRequest(ctx context.Context, token string, id int) workouts.Exercise {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/workouts/exercise/%d", serverEndpoint, id),
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

	var exercise workouts.Exercise
	require.NoError(s.T(), json.Unmarshal(respBytes, &exercise))

	return exercise
}

func (s *IntegrationTestSuite) TestWorkouts_CRUD() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	s.deleteAllExercises(ctx)

	now := time.Now()
	added := s.newExerciseRequest(ctx, token, workouts.Exercise{
		UserID:      "user-1",
		ExerciseID:  "bench_press",
		MuscleGroup: "chest",
		Kilos:       80,
		Reps:        8,
		CreatedAt:   now,
		Metadata:    map[string]string{"testing": "true"},
	})
	require.NotZero(t, added.ID)
	assert.Equal(t, 1, added.CountToday)

	added2 := s.newExerciseRequest(ctx, token, workouts.Exercise{
		UserID:      "user-1",
		ExerciseID:  "bench_press",
		MuscleGroup: "chest",
		Kilos:       85,
		Reps:        5,
		CreatedAt:   now,
		Metadata:    map[string]string{"testing": "true"},
	})
	assert.Equal(t, 2, added2.CountToday)

	gotten := s.getExerciseRequest(ctx, token, added.ID)
	assert.Equal(t, "bench_press", gotten.ExerciseID)
	assert.Equal(t, "chest", gotten.MuscleGroup)
	assert.Equal(t, float64(80), gotten.Kilos)
	assert.Equal(t, 8, gotten.Reps)
	assert.Equal(t, "user-1", gotten.UserID)

	// update
	gotten.Kilos = 82.5
	updateJson, err := json.Marshal(gotten)
	require.NoError(t, err)
	updateReq, err := http.NewRequestWithContext(
		ctx,
		"PUT", fmt.Sprintf("%s/workouts", serverEndpoint),
		bytes.NewReader(updateJson),
	)
	require.NoError(t, err)
	updateReq.Header.Set("User-Agent", "test-agent")
	updateReq.Header.Set("X-EVOLVE-TOKEN", token)
	updateReq.Header.Set("Content-Type", "application/json")

	updateResp, err := s.httpClient.Do(updateReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)
	require.NoError(t, updateResp.Body.Close())

	updated := s.getExerciseRequest(ctx, token, added.ID)
	assert.Equal(t, 82.5, updated.Kilos)

	// list
	listReq, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/workouts/list/page/1/size/10?user_id=user-1", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	listReq.Header.Set("User-Agent", "test-agent")
	listReq.Header.Set("X-EVOLVE-TOKEN", token)

	listResp, err := s.httpClient.Do(listReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listBytes, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)
	require.NoError(t, listResp.Body.Close())

	var list workouts.ListResponse
	require.NoError(t, json.Unmarshal(listBytes, &list))
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Exercises, 2)

	// delete
	deleteReq, err := http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/workouts/%d", serverEndpoint, added2.ID),
		nil,
	)
	require.NoError(t, err)
	deleteReq.Header.Set("User-Agent", "test-agent")
	deleteReq.Header.Set("X-EVOLVE-TOKEN", token)

	deleteResp, err := s.httpClient.Do(deleteReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, deleteResp.StatusCode)
	deleteBytes, err := io.ReadAll(deleteResp.Body)
	require.NoError(t, err)
	require.NoError(t, deleteResp.Body.Close())

	var deleted workouts.DeleteExerciseResponse
	require.NoError(t, json.Unmarshal(deleteBytes, &deleted))
	assert.Equal(t, added2.ID, deleted.DeletedID)
}

func (s *IntegrationTestSuite) TestWorkouts_Unauthorized() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/workouts/list/page/1/size/10", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestExerciseCatalog_Public() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// no auth token, the catalog is public
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/exercises/catalog", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var catalog []map[string]interface{}
	require.NoError(t, json.Unmarshal(respBytes, &catalog))
	assert.NotEmpty(t, catalog)
}
