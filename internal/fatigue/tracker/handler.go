package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/telemetry/tracing"
	"github.com/evolvefit/fatiguecore/pkg"
)

type trackerService interface {
	GetState(ctx context.Context, userID string) (*snapshots.Snapshot, error)
	ApplyWorkout(ctx context.Context, userID string, stimuli []fatigue.Stimulus) (*snapshots.Snapshot, error)
	SyncLoggedWorkout(ctx context.Context, userID string, from, to time.Time) (*snapshots.Snapshot, error)
	SimulateRest(ctx context.Context, userID string, hours float64) (*snapshots.Snapshot, error)
	ProjectRecovery(
		ctx context.Context,
		userID string,
		stimuli []fatigue.Stimulus,
		targetFatigue float64,
		useCurrentState bool,
		override *fatigue.State,
	) (*RecoveryProjection, error)
}

type ApplyWorkoutRequest struct {
	Stimuli []fatigue.Stimulus `json:"stimuli"`
}

type SyncWorkoutRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type SimulateRestRequest struct {
	Hours float64 `json:"hours"`
}

type ProjectRecoveryRequest struct {
	Stimuli         []fatigue.Stimulus `json:"stimuli"`
	TargetFatigue   float64            `json:"targetFatigue"`
	UseCurrentState bool               `json:"useCurrentState"`
	OverrideState   *fatigue.State     `json:"overrideState,omitempty"`
}

type Handler struct {
	service trackerService
}

func NewHandler(service trackerService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) userID(r *http.Request) string {
	return mux.Vars(r)["userID"]
}

func (handler *Handler) writeError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, fatigue.ErrValidation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("%s: %s", action, err)
	http.Error(w, "failed to "+action, http.StatusInternalServerError)
}

func (handler *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fatigue.state")
	defer span.End()

	userID := handler.userID(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.service.GetState(ctx, userID)
	if err != nil {
		handler.writeError(w, err, "get fatigue state")
		return
	}

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to marshal fatigue state: %s", err)
		http.Error(w, "failed to marshal fatigue state", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapshotJson, http.StatusOK)
}

func (handler *Handler) HandleApplyWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fatigue.applyWorkout")
	defer span.End()

	userID := handler.userID(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	var req ApplyWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("apply workout, unmarshal json params: %s", err)
		http.Error(w, "apply workout failed", http.StatusBadRequest)
		return
	}
	if len(req.Stimuli) == 0 {
		http.Error(w, "error, no stimuli given", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.service.ApplyWorkout(ctx, userID, req.Stimuli)
	if err != nil {
		handler.writeError(w, err, "apply workout")
		return
	}

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to marshal fatigue state: %s", err)
		http.Error(w, "failed to marshal fatigue state", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapshotJson, http.StatusOK)
}

func (handler *Handler) HandleSyncWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fatigue.syncWorkout")
	defer span.End()

	userID := handler.userID(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	var req SyncWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("sync workout, unmarshal json params: %s", err)
		http.Error(w, "sync workout failed", http.StatusBadRequest)
		return
	}
	if req.To.IsZero() {
		req.To = time.Now()
	}
	if !req.From.Before(req.To) {
		http.Error(w, "error, invalid time window", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.service.SyncLoggedWorkout(ctx, userID, req.From, req.To)
	if err != nil {
		handler.writeError(w, err, "sync workout")
		return
	}

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to marshal fatigue state: %s", err)
		http.Error(w, "failed to marshal fatigue state", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapshotJson, http.StatusOK)
}

func (handler *Handler) HandleSimulateRest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fatigue.simulateRest")
	defer span.End()

	userID := handler.userID(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	var req SimulateRestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("simulate rest, unmarshal json params: %s", err)
		http.Error(w, "simulate rest failed", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.service.SimulateRest(ctx, userID, req.Hours)
	if err != nil {
		handler.writeError(w, err, "simulate rest")
		return
	}

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to marshal fatigue state: %s", err)
		http.Error(w, "failed to marshal fatigue state", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapshotJson, http.StatusOK)
}

func (handler *Handler) HandleProjectRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fatigue.projectRecovery")
	defer span.End()

	userID := handler.userID(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	var req ProjectRecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("project recovery, unmarshal json params: %s", err)
		http.Error(w, "project recovery failed", http.StatusBadRequest)
		return
	}

	projection, err := handler.service.ProjectRecovery(
		ctx, userID,
		req.Stimuli, req.TargetFatigue,
		req.UseCurrentState, req.OverrideState,
	)
	if err != nil {
		handler.writeError(w, err, "project recovery")
		return
	}

	projectionJson, err := json.Marshal(projection)
	if err != nil {
		log.Errorf("failed to marshal recovery projection: %s", err)
		http.Error(w, "failed to marshal recovery projection", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, projectionJson, http.StatusOK)
}
