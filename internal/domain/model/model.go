// Package model contains domain models passed between layers.
package model

// DailyActivityMetrics carries one employee-day of raw activity signals.
// Tier is kept as the caller sent it; the daily path tolerates unknown tiers.
type DailyActivityMetrics struct {
	CommitsToday   int     // commits in the day
	CodingMinutes  int     // recorded coding minutes
	CopilotScore   float64 // AI-assistance utilization in [0,1]
	Tier           string  // "junior", "mid", "senior" or anything else
	ActiveProjects int     // concurrently active projects
}

// TeamMember is one contributor to a completed task.
type TeamMember struct {
	ID           string
	Rating       float64
	Tier         string
	AvgTaskScore float64 // measured performance in [0,100]
	Weight       float64 // contribution share in [0,1]
}

// TaskCompletion is a completed task with its calibrated difficulty and the
// ordered team that delivered it.
type TaskCompletion struct {
	TaskRating int
	Members    []TeamMember
}

// RatingUpdate is the per-member outcome of a task completion. Every field
// is rounded to two decimals and NewRating == OldRating + RatingChange.
type RatingUpdate struct {
	EmployeeID   string
	OldRating    float64
	RatingChange float64
	NewRating    float64
}
