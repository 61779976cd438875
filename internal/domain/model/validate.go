package model

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the documented input domain of daily metrics. It does not
// look at the tier; unknown tiers are legal on the daily path.
func (m DailyActivityMetrics) Validate() error {
	switch {
	case m.CommitsToday < 0:
		return Invalid("commits_today", "must be >= 0, got %d", m.CommitsToday)
	case m.CodingMinutes < 0:
		return Invalid("coding_minutes", "must be >= 0, got %d", m.CodingMinutes)
	case m.ActiveProjects < 0:
		return Invalid("active_projects", "must be >= 0, got %d", m.ActiveProjects)
	}
	return inRange("copilot_score", m.CopilotScore, 0, 1)
}

// Validate checks a single member. Tier recognition is left to the rating
// updater, which reports it as a ConfigurationError.
func (m TeamMember) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return Invalid("id", "must not be empty")
	}
	if math.IsNaN(m.Rating) || math.IsInf(m.Rating, 0) {
		return Invalid(m.field("rating"), "must be finite")
	}
	if err := inRange(m.field("avg_task_score"), m.AvgTaskScore, 0, 100); err != nil {
		return err
	}
	return inRange(m.field("weight"), m.Weight, 0, 1)
}

func (m TeamMember) field(name string) string {
	return fmt.Sprintf("employees[%s].%s", m.ID, name)
}

// Validate checks the team as a whole: non-empty, valid members, unique ids.
// When weightTolerance > 0 the weights must also sum to 1 within it.
func (t TaskCompletion) Validate(weightTolerance float64) error {
	if len(t.Members) == 0 {
		return Invalid("employees", "must not be empty")
	}
	seen := make(map[string]struct{}, len(t.Members))
	var sum float64
	for _, m := range t.Members {
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := seen[m.ID]; dup {
			return Invalid("employees", "duplicate id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		sum += m.Weight
	}
	if weightTolerance > 0 && math.Abs(sum-1) > weightTolerance {
		return Invalid("employees", "weights must sum to 1, got %.4f", sum)
	}
	return nil
}

func inRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return Invalid(field, "must be in [%g,%g], got %g", lo, hi, v)
	}
	return nil
}
