package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with fatigue tools: state, workout
// application, rest simulation, recovery projection, week planning and
// the exercise catalog.
// Used by the main backend when mounting MCP at /mcp (internal/server)
// and by the standalone stdio server (cmd/fatigue_mcp).
func NewServer(
	fatigueTracker fatigueTracker,
	weekPlanner weekPlanner,
	defaultTargetFatigue float64,
	defaultPlanDays int,
) *mcp.Server {
	svc := NewContextService(fatigueTracker, weekPlanner)
	h := NewHandler(svc, defaultTargetFatigue, defaultPlanDays)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fatigue-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fatigue_state",
		Description: "Returns the user's current two-compartment fatigue state: per-muscle peripheral fatigue plus central fatigue, decayed to the present moment. Arg: user_id. Use before suggesting training.",
	}, h.GetFatigueStateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "apply_workout",
		Description: "Records a performed workout against the user's fatigue state and returns the updated state. Args: user_id, exercises (exercise_id, sets, reps, kilos, optional one_rep_max). Use after a training session was completed.",
	}, h.ApplyWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "simulate_rest",
		Description: "Advances the user's fatigue state by the given hours of rest and returns the result. Args: user_id, hours. Use to answer questions like how recovered will I be tomorrow.",
	}, h.SimulateRestTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "project_recovery",
		Description: "Computes per-muscle hours until fatigue falls to the target after a hypothetical workout, without changing the stored state. Args: user_id; optional: exercises, target_fatigue (0-1], use_current_state. Use for what-if recovery questions.",
	}, h.ProjectRecoveryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "plan_workout_week",
		Description: "Schedules candidate sessions over the coming days so no session lands on overly fatigued muscles and weekly set volumes stay recoverable. Args: user_id, sessions (name + exercises); optional: days. Use when building a training week.",
	}, h.PlanWeekTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_catalog",
		Description: "Returns the exercise catalog (id, name, primary and secondary muscles, difficulty factor). Optional filter: muscle. Use when you need valid exercise ids or muscle mappings.",
	}, h.GetExerciseCatalogTool())

	return s
}
