package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/devscore/internal/config"
	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/internal/domain/rating"
	"github.com/okian/devscore/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.CommitCap, convey.ShouldEqual, 10)
			convey.So(cfg.CodingMinutesCap, convey.ShouldEqual, 480)
			convey.So(cfg.TierMultipliers, convey.ShouldResemble, map[string]float64{"junior": 1.15, "mid": 1.0, "senior": 0.9})
			convey.So(cfg.KFactors, convey.ShouldResemble, map[string]float64{"junior": 40, "mid": 25, "senior": 15})
			convey.So(cfg.ExpectedScoreScale, convey.ShouldEqual, 400.0)
			convey.So(cfg.WeightSumTolerance, convey.ShouldEqual, 0.001)
		})

		convey.Convey("And the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And the derived calculators use the standard calibration", func() {
			calc := scoring.NewCalculator(cfg.ScoringOptions()...)
			res := calc.Score(model.DailyActivityMetrics{CommitsToday: 5, CodingMinutes: 240, CopilotScore: 0.8, Tier: "mid", ActiveProjects: 2})
			convey.So(res.Score, convey.ShouldEqual, 67.65)

			upd := rating.NewUpdater(cfg.RatingOptions()...)
			convey.So(upd.Calibration(), convey.ShouldResemble, rating.NewUpdater().Calibration())
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		ctx := context.Background()

		cases := []struct {
			name   string
			mutate func(*config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }, "addr must not be empty"},
			{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }, "log_format"},
			{"zero commit cap", func(c *config.Config) { c.CommitCap = 0 }, "commit_cap"},
			{"weights off by 0.1", func(c *config.Config) { c.CopilotWeight = 0.4 }, "sum to 1"},
			{"negative weight", func(c *config.Config) { c.CommitWeight = -0.05; c.TimeWeight = 0.75 }, "non-negative"},
			{"missing tier multiplier", func(c *config.Config) { delete(c.TierMultipliers, "mid") }, `tier_multipliers is missing tier "mid"`},
			{"unknown k-factor tier", func(c *config.Config) { c.KFactors["staff"] = 10 }, "k_factors has unrecognized tiers: staff"},
			{"zero k-factor", func(c *config.Config) { c.KFactors["senior"] = 0 }, "k_factors[senior] must be positive"},
			{"max below optimal", func(c *config.Config) { c.MaxProjects = 2 }, "max_projects"},
			{"floor above one", func(c *config.Config) { c.LoadFactorFloor = 1.5 }, "load_factor_floor"},
			{"zero scale", func(c *config.Config) { c.ExpectedScoreScale = 0 }, "expected_score_scale"},
			{"negative tolerance", func(c *config.Config) { c.WeightSumTolerance = -1 }, "weight_sum_tolerance"},
		}

		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				cfg := config.New(ctx)
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}

		convey.Convey("When the weight-sum check is disabled", func() {
			cfg := config.New(ctx)
			cfg.WeightSumTolerance = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
