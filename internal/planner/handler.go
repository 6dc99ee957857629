package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/telemetry/tracing"
	"github.com/evolvefit/fatiguecore/pkg"
)

type stateProvider interface {
	GetState(ctx context.Context, userID string) (*snapshots.Snapshot, error)
}

type PlanWeekRequest struct {
	Days     int       `json:"days"`
	Sessions []Session `json:"sessions"`
}

type Handler struct {
	planner *Planner
	states  stateProvider

	defaultDays int
}

func NewHandler(planner *Planner, states stateProvider, defaultDays int) *Handler {
	return &Handler{
		planner:     planner,
		states:      states,
		defaultDays: defaultDays,
	}
}

func (handler *Handler) HandlePlanWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.planWeek")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	var req PlanWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("plan week, unmarshal json params: %s", err)
		http.Error(w, "plan week failed", http.StatusBadRequest)
		return
	}
	if req.Days <= 0 {
		req.Days = handler.defaultDays
	}

	snapshot, err := handler.states.GetState(ctx, userID)
	if err != nil {
		log.Errorf("plan week, get state for %s: %s", userID, err)
		http.Error(w, "failed to get fatigue state", http.StatusInternalServerError)
		return
	}

	plan, err := handler.planner.PlanWeek(snapshot.State, req.Sessions, req.Days)
	if err != nil {
		if errors.Is(err, fatigue.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("plan week for %s: %s", userID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("failed to marshal week plan: %s", err)
		http.Error(w, "failed to marshal week plan", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, planJson, http.StatusOK)
}
