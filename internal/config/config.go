// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New(ctx); Load layers file and env on top.
// - Calibration tables are keyed by tier name and must cover every tier.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"

	"github.com/okian/devscore/internal/domain/rating"
	"github.com/okian/devscore/internal/domain/scoring"
	"github.com/okian/devscore/internal/domain/types"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CommitCap and CodingMinutesCap are the saturation points of the
	// commit and coding-time signals.
	CommitCap        int `koanf:"commit_cap"`
	CodingMinutesCap int `koanf:"coding_minutes_cap"`

	// Signal weights of the daily score; they must sum to 1.
	CommitWeight  float64 `koanf:"commit_weight"`
	TimeWeight    float64 `koanf:"time_weight"`
	CopilotWeight float64 `koanf:"copilot_weight"`

	// TierMultipliers maps tier names to daily score multipliers.
	TierMultipliers map[string]float64 `koanf:"tier_multipliers"`

	// DefaultTierMultiplier is used for unrecognized tiers on the daily path.
	DefaultTierMultiplier float64 `koanf:"default_tier_multiplier"`

	// Project load model.
	OptimalProjects int     `koanf:"optimal_projects"`
	MaxProjects     int     `koanf:"max_projects"`
	ProjectDecay    float64 `koanf:"project_decay"`
	LoadFactorFloor float64 `koanf:"load_factor_floor"`

	// KFactors maps tier names to rating K-factors. There is no fallback.
	KFactors map[string]float64 `koanf:"k_factors"`

	// ExpectedScoreScale is the logistic scale of the expected score.
	ExpectedScoreScale float64 `koanf:"expected_score_scale"`

	// WeightSumTolerance bounds |Σ weight - 1| on rating updates; 0 disables
	// the check.
	WeightSumTolerance float64 `koanf:"weight_sum_tolerance"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		CommitCap:             scoring.DefaultCommitCap,
		CodingMinutesCap:      scoring.DefaultMinutesCap,
		CommitWeight:          scoring.DefaultCommitWeight,
		TimeWeight:            scoring.DefaultTimeWeight,
		CopilotWeight:         scoring.DefaultCopilotWeight,
		TierMultipliers:       toStrings(scoring.DefaultTierMultipliers()),
		DefaultTierMultiplier: scoring.DefaultTierMultiplier,
		OptimalProjects:       scoring.DefaultOptimalProjects,
		MaxProjects:           scoring.DefaultMaxProjects,
		ProjectDecay:          scoring.DefaultProjectDecay,
		LoadFactorFloor:       scoring.DefaultLoadFloor,
		KFactors:              toStrings(rating.DefaultKFactors()),
		ExpectedScoreScale:    rating.DefaultScale,
		WeightSumTolerance:    0.001,
	}
}

// ScoringOptions converts the configuration into calculator options.
// Call Validate first; the calculator silently ignores invalid values.
func (c *Config) ScoringOptions() []scoring.Option {
	multipliers, _ := types.FromStrings(c.TierMultipliers)
	return []scoring.Option{
		scoring.WithCommitCap(c.CommitCap),
		scoring.WithMinutesCap(c.CodingMinutesCap),
		scoring.WithWeights(scoring.Weights{
			Commit:  c.CommitWeight,
			Time:    c.TimeWeight,
			Copilot: c.CopilotWeight,
		}),
		scoring.WithTierMultipliers(multipliers, c.DefaultTierMultiplier),
		scoring.WithLoadFactorModel(scoring.LoadFactorModel{
			Optimal: c.OptimalProjects,
			Max:     c.MaxProjects,
			Decay:   c.ProjectDecay,
			Floor:   c.LoadFactorFloor,
		}),
	}
}

// RatingOptions converts the configuration into updater options.
func (c *Config) RatingOptions() []rating.Option {
	kFactors, _ := types.FromStrings(c.KFactors)
	return []rating.Option{
		rating.WithKFactors(kFactors),
		rating.WithScale(c.ExpectedScoreScale),
	}
}

func toStrings(tb types.Table) map[string]float64 {
	out := make(map[string]float64, len(tb))
	for t, v := range tb {
		out[t.String()] = v
	}
	return out
}
