package planner

import (
	"fmt"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const hoursPerDay = 24

// Session is a candidate training session: a named bundle of stimuli
// the planner may schedule on a day.
type Session struct {
	Name    string             `json:"name"`
	Stimuli []fatigue.Stimulus `json:"stimuli"`
}

// primaryMuscles returns the distinct primary muscles hit by the session.
func (s Session) primaryMuscles() []fatigue.Muscle {
	seen := make(map[fatigue.Muscle]bool)
	var muscles []fatigue.Muscle
	for _, stimulus := range s.Stimuli {
		for _, m := range stimulus.Primary {
			if !seen[m] {
				seen[m] = true
				muscles = append(muscles, m)
			}
		}
	}
	return muscles
}

type DayPlan struct {
	Day     int      `json:"day"`
	Session *Session `json:"session,omitempty"`
	Rest    bool     `json:"rest"`
	// Skipped lists candidate sessions that were considered for this
	// day but rejected, with the reason.
	Skipped []SkippedSession `json:"skipped,omitempty"`
}

type SkippedSession struct {
	Session string `json:"session"`
	Reason  string `json:"reason"`
}

type WeekPlan struct {
	Days []DayPlan `json:"days"`
	// FinalState is the projected fatigue state after the whole plan.
	FinalState fatigue.State `json:"finalState"`
}

// Planner schedules candidate sessions over a span of days so that no
// session lands on muscles still above the fatigue threshold, and no
// muscle exceeds its weekly recoverable set volume.
type Planner struct {
	cfg              fatigue.Config
	fatigueThreshold float64
	metrics          *metrics.Manager
}

func New(cfg fatigue.Config, fatigueThreshold float64, metricsManager *metrics.Manager) *Planner {
	return &Planner{
		cfg:              cfg,
		fatigueThreshold: fatigueThreshold,
		metrics:          metricsManager,
	}
}

func validateSessions(sessions []Session) error {
	var err error
	for _, session := range sessions {
		if session.Name == "" {
			err = multierr.Append(err, fmt.Errorf("session without a name"))
		}
		if len(session.Stimuli) == 0 {
			err = multierr.Append(err, fmt.Errorf("session %q: no stimuli", session.Name))
		}
		for _, stimulus := range session.Stimuli {
			if sErr := stimulus.Validate(); sErr != nil {
				err = multierr.Append(err, fmt.Errorf("session %q: %w", session.Name, sErr))
			}
		}
	}
	return err
}

// PlanWeek walks day by day from the given starting state. Each day the
// first feasible candidate session is scheduled and applied to a
// simulated fatigue model; infeasible days become rest days. Candidate
// sessions rotate so the plan does not hammer the same session twice
// before the others had their turn.
func (p *Planner) PlanWeek(
	initial fatigue.State,
	candidates []Session,
	days int,
) (*WeekPlan, error) {
	if days < 1 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate sessions given")
	}
	if err := validateSessions(candidates); err != nil {
		return nil, err
	}

	model, err := fatigue.NewModel(p.cfg, &initial)
	if err != nil {
		return nil, err
	}

	weeklySets := make(map[fatigue.Muscle]int)
	plan := &WeekPlan{}
	nextCandidate := 0

	for day := 1; day <= days; day++ {
		dayPlan := DayPlan{Day: day}
		state := model.State()

		scheduled := false
		for i := 0; i < len(candidates) && !scheduled; i++ {
			candidate := candidates[(nextCandidate+i)%len(candidates)]

			if reason := p.sessionBlocked(candidate, state, weeklySets); reason != "" {
				dayPlan.Skipped = append(dayPlan.Skipped, SkippedSession{
					Session: candidate.Name,
					Reason:  reason,
				})
				continue
			}

			if _, err := model.ApplyWorkout(candidate.Stimuli, 0); err != nil {
				return nil, fmt.Errorf("apply session %q: %w", candidate.Name, err)
			}
			for _, stimulus := range candidate.Stimuli {
				for _, m := range stimulus.Primary {
					weeklySets[m] += stimulus.Sets
				}
			}

			sessionCopy := candidate
			dayPlan.Session = &sessionCopy
			nextCandidate = (nextCandidate + i + 1) % len(candidates)
			scheduled = true
		}

		if !scheduled {
			dayPlan.Rest = true
			log.Debugf("planner: day %d is a rest day", day)
		}

		plan.Days = append(plan.Days, dayPlan)

		// overnight recovery before the next day
		if _, err := model.SimulateRest(hoursPerDay); err != nil {
			return nil, err
		}
	}

	plan.FinalState = model.State()
	p.metrics.CounterPlansGenerated.Inc()
	return plan, nil
}

// sessionBlocked returns a human readable reason why the session cannot
// run on the current state, or "" if it can.
func (p *Planner) sessionBlocked(
	session Session,
	state fatigue.State,
	weeklySets map[fatigue.Muscle]int,
) string {
	if state.Central > p.fatigueThreshold {
		return fmt.Sprintf("central fatigue %.2f above threshold %.2f", state.Central, p.fatigueThreshold)
	}

	for _, m := range session.primaryMuscles() {
		if f := state.Peripheral[m]; f > p.fatigueThreshold {
			return fmt.Sprintf("muscle %s at fatigue %.2f, above threshold %.2f", m, f, p.fatigueThreshold)
		}
	}

	sessionSets := make(map[fatigue.Muscle]int)
	for _, stimulus := range session.Stimuli {
		for _, m := range stimulus.Primary {
			sessionSets[m] += stimulus.Sets
		}
	}
	for m, sets := range sessionSets {
		if weeklySets[m]+sets > LandmarksFor(m).MRV {
			return fmt.Sprintf("muscle %s would exceed weekly recoverable volume of %d sets", m, LandmarksFor(m).MRV)
		}
	}

	return ""
}
