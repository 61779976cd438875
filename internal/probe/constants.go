package probe

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressInterval        = time.Second
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	maxResponseBytes     = 1 << 20
)

// Generated value ranges. They deliberately overshoot the saturation caps
// so the probe also covers the flat region of each signal.
const (
	maxCommits        = 15
	maxMinutes        = 600
	maxProjects       = 7
	minRating         = 800
	ratingSpan        = 1200
	weightPrecision   = 10000
	ratingPrecision   = 100
	scorePrecision    = 10
	copilotPrecision  = 100
	defaultMaxTeam    = 5
)

const headerTierFallback = "X-Tier-Fallback"

// unknownTiers are sent to exercise the fallback and rejection paths.
var unknownTiers = []string{"staff", "principal", "intern"} //nolint:gochecknoglobals // fixed test vocabulary
