package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL         string        // Base URL of the service
	NumDaily        int           // Number of daily score cases
	NumTasks        int           // Number of rating update cases
	MaxTeamSize     int           // Largest generated team
	UnknownTierRate float64       // Share of cases carrying an unrecognized tier, in [0,1]
	Seed            uint64        // Generator seed; 0 picks one from the clock
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	OutputFile      string        // Optional JSON dump of generated cases
	Verbose         bool          // Log every mismatch and progress
}

// DailyRequest is the wire shape of POST /score/daily.
type DailyRequest struct {
	CommitsToday   int     `json:"commits_today"`
	CodingMinutes  int     `json:"coding_minutes"`
	CopilotScore   float64 `json:"copilot_score"`
	Tier           string  `json:"tier"`
	ActiveProjects int     `json:"active_projects"`
}

// Employee is one member of a POST /rating/update request.
type Employee struct {
	ID           string  `json:"id"`
	Rating       float64 `json:"rating"`
	Tier         string  `json:"tier"`
	AvgTaskScore float64 `json:"avg_task_score"`
	Weight       float64 `json:"weight"`
}

// RatingRequest is the wire shape of POST /rating/update.
type RatingRequest struct {
	TaskRating int        `json:"task_rating"`
	Employees  []Employee `json:"employees"`
}

// RatingUpdate is one element of the POST /rating/update response.
type RatingUpdate struct {
	EmployeeID   string  `json:"employee_id"`
	OldRating    float64 `json:"old_rating"`
	RatingChange float64 `json:"rating_change"`
	NewRating    float64 `json:"new_rating"`
}

// DailyCase is a generated daily request with its locally computed answer.
type DailyCase struct {
	Request  DailyRequest `json:"request"`
	Expected float64      `json:"expected"`
	Fallback bool         `json:"fallback"`
}

// TaskCase is a generated rating request with its locally computed answer.
// RejectTier is set when the server must refuse the request.
type TaskCase struct {
	ID         string         `json:"id"`
	Request    RatingRequest  `json:"request"`
	Expected   []RatingUpdate `json:"expected,omitempty"`
	RejectTier string         `json:"reject_tier,omitempty"`
}

// Stats holds probe statistics.
type Stats struct {
	DailyGenerated  int
	DailyMatched    int
	DailyMismatched int
	DailyFailed     int
	FallbackFlagged int
	TasksGenerated  int
	TasksMatched    int
	TasksRejected   int
	TasksMismatched int
	TasksFailed     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// Mismatches is the number of responses that disagreed with the local model.
func (s *Stats) Mismatches() int {
	return s.DailyMismatched + s.TasksMismatched
}
