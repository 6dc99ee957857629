package mcp

import (
	"context"
	"encoding/json"

	"github.com/evolvefit/fatiguecore/internal/planner"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService

	defaultTargetFatigue float64
	defaultPlanDays      int
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService, defaultTargetFatigue float64, defaultPlanDays int) *Handler {
	return &Handler{
		service:              service,
		defaultTargetFatigue: defaultTargetFatigue,
		defaultPlanDays:      defaultPlanDays,
	}
}

func errResult(msg string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg + ": " + err.Error()}},
		IsError: true,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult("Error encoding response", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

// UserInput is the input for tools that only need the user.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"User whose fatigue state is tracked"`
}

// GetFatigueStateTool returns the MCP tool handler for get_fatigue_state.
func (h *Handler) GetFatigueStateTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		snapshot, err := h.service.GetState(ctx, in.UserID)
		if err != nil {
			return errResult("Error fetching fatigue state", err), nil, nil
		}
		return jsonResult(snapshot)
	}
}

// ApplyWorkoutInput is the input for apply_workout.
type ApplyWorkoutInput struct {
	UserID    string          `json:"user_id" jsonschema:"User whose fatigue state is tracked"`
	Exercises []ExerciseInput `json:"exercises" jsonschema:"Exercises performed in this workout"`
}

// ApplyWorkoutTool returns the MCP tool handler for apply_workout.
func (h *Handler) ApplyWorkoutTool() func(context.Context, *mcp.CallToolRequest, ApplyWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ApplyWorkoutInput) (*mcp.CallToolResult, any, error) {
		snapshot, err := h.service.ApplyWorkout(ctx, in.UserID, toStimuli(in.Exercises))
		if err != nil {
			return errResult("Error applying workout", err), nil, nil
		}
		return jsonResult(snapshot)
	}
}

// SimulateRestInput is the input for simulate_rest.
type SimulateRestInput struct {
	UserID string  `json:"user_id" jsonschema:"User whose fatigue state is tracked"`
	Hours  float64 `json:"hours" jsonschema:"Hours of rest to apply"`
}

// SimulateRestTool returns the MCP tool handler for simulate_rest.
func (h *Handler) SimulateRestTool() func(context.Context, *mcp.CallToolRequest, SimulateRestInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SimulateRestInput) (*mcp.CallToolResult, any, error) {
		snapshot, err := h.service.SimulateRest(ctx, in.UserID, in.Hours)
		if err != nil {
			return errResult("Error simulating rest", err), nil, nil
		}
		return jsonResult(snapshot)
	}
}

// ProjectRecoveryInput is the input for project_recovery.
type ProjectRecoveryInput struct {
	UserID          string          `json:"user_id" jsonschema:"User whose fatigue state is tracked"`
	Exercises       []ExerciseInput `json:"exercises,omitempty" jsonschema:"Hypothetical workout to project; empty projects from the state alone"`
	TargetFatigue   float64         `json:"target_fatigue,omitempty" jsonschema:"Fatigue level in (0, 1] to recover down to; service default when omitted"`
	UseCurrentState bool            `json:"use_current_state,omitempty" jsonschema:"Apply the hypothetical workout on top of the current state instead of a fresh one"`
}

// ProjectRecoveryTool returns the MCP tool handler for project_recovery.
func (h *Handler) ProjectRecoveryTool() func(context.Context, *mcp.CallToolRequest, ProjectRecoveryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ProjectRecoveryInput) (*mcp.CallToolResult, any, error) {
		target := in.TargetFatigue
		if target <= 0 {
			target = h.defaultTargetFatigue
		}
		projection, err := h.service.ProjectRecovery(ctx, in.UserID, toStimuli(in.Exercises), target, in.UseCurrentState)
		if err != nil {
			return errResult("Error projecting recovery", err), nil, nil
		}
		return jsonResult(projection)
	}
}

// SessionInput is one candidate session for plan_workout_week.
type SessionInput struct {
	Name      string          `json:"name" jsonschema:"Session name (e.g. push, pull, legs)"`
	Exercises []ExerciseInput `json:"exercises" jsonschema:"Exercises making up the session"`
}

// PlanWeekInput is the input for plan_workout_week.
type PlanWeekInput struct {
	UserID   string         `json:"user_id" jsonschema:"User whose fatigue state is tracked"`
	Days     int            `json:"days,omitempty" jsonschema:"Number of days to plan; service default when omitted"`
	Sessions []SessionInput `json:"sessions" jsonschema:"Candidate sessions to schedule"`
}

// PlanWeekTool returns the MCP tool handler for plan_workout_week.
func (h *Handler) PlanWeekTool() func(context.Context, *mcp.CallToolRequest, PlanWeekInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PlanWeekInput) (*mcp.CallToolResult, any, error) {
		days := in.Days
		if days <= 0 {
			days = h.defaultPlanDays
		}
		sessions := make([]planner.Session, 0, len(in.Sessions))
		for _, s := range in.Sessions {
			sessions = append(sessions, planner.Session{
				Name:    s.Name,
				Stimuli: toStimuli(s.Exercises),
			})
		}
		plan, err := h.service.PlanWeek(ctx, in.UserID, sessions, days)
		if err != nil {
			return errResult("Error planning week", err), nil, nil
		}
		return jsonResult(plan)
	}
}

// CatalogInput is the input for get_exercise_catalog.
type CatalogInput struct {
	Muscle string `json:"muscle,omitempty" jsonschema:"Filter by primary muscle (e.g. chest, quads)"`
}

// GetExerciseCatalogTool returns the MCP tool handler for get_exercise_catalog.
func (h *Handler) GetExerciseCatalogTool() func(context.Context, *mcp.CallToolRequest, CatalogInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in CatalogInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.ExerciseCatalog(in.Muscle))
	}
}
