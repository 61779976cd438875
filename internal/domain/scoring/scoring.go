// Package scoring computes the bounded daily productivity score from raw
// activity signals.
package scoring

import (
	"math"

	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/internal/domain/numeric"
	"github.com/okian/devscore/internal/domain/types"
)

// Default scoring configuration constants.
const (
	DefaultCommitCap      = 10
	DefaultMinutesCap     = 480
	DefaultCommitWeight   = 0.35
	DefaultTimeWeight     = 0.35
	DefaultCopilotWeight  = 0.30
	DefaultTierMultiplier = 1.0
	maxScoreValue         = 100
)

// DefaultTierMultipliers returns the standard per-tier multipliers.
func DefaultTierMultipliers() types.Table {
	return types.Table{
		types.Junior: 1.15,
		types.Mid:    1.00,
		types.Senior: 0.90,
	}
}

// Weights is the convex combination applied to the three normalized signals.
type Weights struct {
	Commit  float64
	Time    float64
	Copilot float64
}

// Sum returns the total weight; a well-formed set sums to 1.
func (w Weights) Sum() float64 { return w.Commit + w.Time + w.Copilot }

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithCommitCap sets the commit count at which the commit signal saturates.
func WithCommitCap(commits int) Option {
	return func(c *Calculator) {
		if commits > 0 {
			c.commitCap = commits
		}
	}
}

// WithMinutesCap sets the coding minutes at which the time signal saturates.
func WithMinutesCap(minutes int) Option {
	return func(c *Calculator) {
		if minutes > 0 {
			c.minutesCap = minutes
		}
	}
}

// WithWeights sets the signal weights. Sets that do not sum to 1 are ignored.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		if w.Commit >= 0 && w.Time >= 0 && w.Copilot >= 0 && math.Abs(w.Sum()-1) < 1e-9 {
			c.weights = w
		}
	}
}

// WithTierMultipliers replaces the tier multipliers. Incomplete tables are
// ignored so that every recognized tier always has a multiplier.
func WithTierMultipliers(tb types.Table, fallback float64) Option {
	return func(c *Calculator) {
		if _, ok := tb.Complete(); ok {
			c.multipliers = tb.Clone()
		}
		if fallback > 0 {
			c.fallback = fallback
		}
	}
}

// WithLoadFactorModel replaces the project load model.
func WithLoadFactorModel(m LoadFactorModel) Option {
	return func(c *Calculator) {
		if m.Max > m.Optimal && m.Floor > 0 && m.Floor <= 1 && m.Decay >= 0 {
			c.load = m
		}
	}
}

// Result is the daily score together with the intermediate values that
// produced it.
type Result struct {
	Score          float64 // final score in [0,100], two decimals
	CommitScore    float64
	TimeScore      float64
	Raw            float64
	TierMultiplier float64
	LoadFactor     float64
	// TierFallback is true when the tier was unrecognized and the neutral
	// multiplier was used.
	TierFallback bool
}

// Calculator computes daily scores. It is immutable after construction and
// safe for concurrent use.
type Calculator struct {
	commitCap   int
	minutesCap  int
	weights     Weights
	multipliers types.Table
	fallback    float64
	load        LoadFactorModel
}

// NewCalculator creates a calculator with the standard calibration, adjusted
// by opts.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		commitCap:  DefaultCommitCap,
		minutesCap: DefaultMinutesCap,
		weights: Weights{
			Commit:  DefaultCommitWeight,
			Time:    DefaultTimeWeight,
			Copilot: DefaultCopilotWeight,
		},
		multipliers: DefaultTierMultipliers(),
		fallback:    DefaultTierMultiplier,
		load:        DefaultLoadFactorModel(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Score computes the daily score for m. Input is assumed to be in domain;
// see model.DailyActivityMetrics.Validate.
func (c *Calculator) Score(m model.DailyActivityMetrics) Result {
	commitScore := math.Min(math.Log1p(float64(m.CommitsToday))/math.Log1p(float64(c.commitCap)), 1.0)
	timeScore := math.Min(float64(m.CodingMinutes)/float64(c.minutesCap), 1.0)

	raw := c.weights.Commit*commitScore +
		c.weights.Time*timeScore +
		c.weights.Copilot*m.CopilotScore

	multiplier, fallback := c.TierMultiplier(m.Tier)
	load := c.load.Factor(m.ActiveProjects)

	final := numeric.Clamp(raw*multiplier*load*maxScoreValue, 0, maxScoreValue)

	return Result{
		Score:          numeric.Round2(final),
		CommitScore:    commitScore,
		TimeScore:      timeScore,
		Raw:            raw,
		TierMultiplier: multiplier,
		LoadFactor:     load,
		TierFallback:   fallback,
	}
}

// TierMultiplier returns the multiplier for a wire tier value and whether
// the neutral fallback was used.
func (c *Calculator) TierMultiplier(tier string) (float64, bool) {
	if t, ok := types.ParseTier(tier); ok {
		return c.multipliers[t], false
	}
	return c.fallback, true
}

// Calibration is a read-only view of the calculator's constants.
type Calibration struct {
	CommitCap          int
	MinutesCap         int
	Weights            Weights
	TierMultipliers    types.Table
	FallbackMultiplier float64
	Load               LoadFactorModel
}

// Calibration returns a copy of the active constants.
func (c *Calculator) Calibration() Calibration {
	return Calibration{
		CommitCap:          c.commitCap,
		MinutesCap:         c.minutesCap,
		Weights:            c.weights,
		TierMultipliers:    c.multipliers.Clone(),
		FallbackMultiplier: c.fallback,
		Load:               c.load,
	}
}
