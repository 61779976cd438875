package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/devscore/internal/domain/types"
)

const weightSumEpsilon = 1e-9

// Validate checks that the configuration describes a usable calibration.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return invalid("addr must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.CommitCap <= 0 || c.CodingMinutesCap <= 0 {
		return invalid("commit_cap and coding_minutes_cap must be positive")
	}
	if c.CommitWeight < 0 || c.TimeWeight < 0 || c.CopilotWeight < 0 {
		return invalid("signal weights must be non-negative")
	}
	if sum := c.CommitWeight + c.TimeWeight + c.CopilotWeight; math.Abs(sum-1) > weightSumEpsilon {
		return invalid("signal weights must sum to 1, got %g", sum)
	}
	if err := validateTable("tier_multipliers", c.TierMultipliers); err != nil {
		return err
	}
	if c.DefaultTierMultiplier <= 0 {
		return invalid("default_tier_multiplier must be positive")
	}
	if c.OptimalProjects < 0 || c.MaxProjects <= c.OptimalProjects {
		return invalid("max_projects must exceed optimal_projects >= 0")
	}
	if c.ProjectDecay < 0 || c.LoadFactorFloor <= 0 || c.LoadFactorFloor > 1 {
		return invalid("project_decay must be >= 0 and load_factor_floor in (0,1]")
	}
	if err := validateTable("k_factors", c.KFactors); err != nil {
		return err
	}
	if c.ExpectedScoreScale <= 0 {
		return invalid("expected_score_scale must be positive")
	}
	if c.WeightSumTolerance < 0 {
		return invalid("weight_sum_tolerance must be >= 0")
	}
	return nil
}

func validateTable(name string, m map[string]float64) error {
	tb, unknown := types.FromStrings(m)
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return invalid("%s has unrecognized tiers: %s", name, strings.Join(unknown, ", "))
	}
	if missing, ok := tb.Complete(); !ok {
		return invalid("%s is missing tier %q", name, missing)
	}
	for t, v := range tb {
		if v <= 0 {
			return invalid("%s[%s] must be positive", name, t)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
