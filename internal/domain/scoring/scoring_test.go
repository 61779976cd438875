package scoring_test

import (
	"sync"
	"testing"

	"github.com/okian/devscore/internal/domain/model"
	scoring "github.com/okian/devscore/internal/domain/scoring"
	"github.com/okian/devscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculator_Score(t *testing.T) {
	Convey("Given a calculator with the standard calibration", t, func() {
		calc := scoring.NewCalculator()

		Convey("When scoring a mid engineer with a healthy day", func() {
			res := calc.Score(model.DailyActivityMetrics{
				CommitsToday:   5,
				CodingMinutes:  240,
				CopilotScore:   0.8,
				Tier:           "mid",
				ActiveProjects: 2,
			})

			Convey("Then the score matches the documented scenario", func() {
				// ln(6)/ln(11)*0.35 + 0.5*0.35 + 0.8*0.30 = 0.67653
				So(res.Score, ShouldEqual, 67.65)
				So(res.CommitScore, ShouldAlmostEqual, 0.747222, 1e-6)
				So(res.TimeScore, ShouldEqual, 0.5)
				So(res.TierMultiplier, ShouldEqual, 1.0)
				So(res.LoadFactor, ShouldEqual, 1.0)
				So(res.TierFallback, ShouldBeFalse)
			})
		})

		Convey("When scoring an idle senior on six projects", func() {
			res := calc.Score(model.DailyActivityMetrics{
				Tier:           "senior",
				ActiveProjects: 6,
			})

			Convey("Then the score is zero", func() {
				So(res.Score, ShouldEqual, 0.0)
				So(res.LoadFactor, ShouldEqual, 0.6)
				So(res.TierMultiplier, ShouldEqual, 0.9)
			})
		})

		Convey("When a junior maxes out every signal", func() {
			res := calc.Score(model.DailyActivityMetrics{
				CommitsToday:   40,
				CodingMinutes:  600,
				CopilotScore:   1,
				Tier:           "junior",
				ActiveProjects: 1,
			})

			Convey("Then the score is clamped to 100", func() {
				So(res.Raw, ShouldAlmostEqual, 1.0, 1e-12)
				So(res.Score, ShouldEqual, 100.0)
			})
		})

		Convey("When the tier is unrecognized", func() {
			in := model.DailyActivityMetrics{CommitsToday: 5, CodingMinutes: 240, CopilotScore: 0.8, Tier: "staff", ActiveProjects: 2}
			res := calc.Score(in)
			in.Tier = "mid"
			mid := calc.Score(in)

			Convey("Then the neutral multiplier is used and flagged", func() {
				So(res.TierFallback, ShouldBeTrue)
				So(res.TierMultiplier, ShouldEqual, 1.0)
				So(res.Score, ShouldEqual, mid.Score)
			})
		})

		Convey("When the load factor applies", func() {
			in := model.DailyActivityMetrics{CommitsToday: 3, CodingMinutes: 300, CopilotScore: 0.5, Tier: "mid", ActiveProjects: 2}
			base := calc.Score(in)
			in.ActiveProjects = 3
			loaded := calc.Score(in)

			Convey("Then the score drops by the load factor", func() {
				So(loaded.Score, ShouldAlmostEqual, base.Raw*0.85*100, 0.01)
				So(loaded.Score, ShouldBeLessThan, base.Score)
			})
		})
	})
}

func TestCalculator_Properties(t *testing.T) {
	Convey("Given a calculator and a grid of inputs", t, func() {
		calc := scoring.NewCalculator()
		tiers := []string{"junior", "mid", "senior", "staff"}

		Convey("Then every score lies in [0,100]", func() {
			for _, tier := range tiers {
				for commits := 0; commits <= 30; commits += 3 {
					for minutes := 0; minutes <= 900; minutes += 90 {
						for _, copilot := range []float64{0, 0.25, 0.5, 1} {
							for projects := 0; projects <= 7; projects++ {
								s := calc.Score(model.DailyActivityMetrics{
									CommitsToday: commits, CodingMinutes: minutes, CopilotScore: copilot,
									Tier: tier, ActiveProjects: projects,
								}).Score
								So(s, ShouldBeBetweenOrEqual, 0, 100)
							}
						}
					}
				}
			}
		})

		Convey("Then the score is non-decreasing in commits and flat past the cap", func() {
			in := model.DailyActivityMetrics{CodingMinutes: 120, CopilotScore: 0.4, Tier: "senior", ActiveProjects: 3}
			prev := -1.0
			for commits := 0; commits <= scoring.DefaultCommitCap; commits++ {
				in.CommitsToday = commits
				cur := calc.Score(in).Score
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
			for _, commits := range []int{11, 25, 500} {
				in.CommitsToday = commits
				So(calc.Score(in).Score, ShouldEqual, prev)
			}
		})

		Convey("Then the score is non-decreasing in minutes and flat past the cap", func() {
			in := model.DailyActivityMetrics{CommitsToday: 2, CopilotScore: 0.4, Tier: "mid", ActiveProjects: 1}
			prev := -1.0
			for minutes := 0; minutes <= scoring.DefaultMinutesCap; minutes += 15 {
				in.CodingMinutes = minutes
				cur := calc.Score(in).Score
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
			for _, minutes := range []int{481, 720, 1440} {
				in.CodingMinutes = minutes
				So(calc.Score(in).Score, ShouldEqual, prev)
			}
		})

		Convey("Then concurrent scoring matches sequential scoring", func() {
			in := model.DailyActivityMetrics{CommitsToday: 7, CodingMinutes: 333, CopilotScore: 0.66, Tier: "junior", ActiveProjects: 4}
			want := calc.Score(in)

			var wg sync.WaitGroup
			results := make([]scoring.Result, 64)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = calc.Score(in)
				}(i)
			}
			wg.Wait()
			for _, r := range results {
				So(r, ShouldResemble, want)
			}
		})
	})
}

func TestCalculator_Options(t *testing.T) {
	Convey("Given calculator options", t, func() {
		Convey("When overriding caps", func() {
			calc := scoring.NewCalculator(scoring.WithCommitCap(4), scoring.WithMinutesCap(240))
			res := calc.Score(model.DailyActivityMetrics{CommitsToday: 4, CodingMinutes: 240, Tier: "mid"})

			Convey("Then the signals saturate earlier", func() {
				So(res.CommitScore, ShouldEqual, 1.0)
				So(res.TimeScore, ShouldEqual, 1.0)
				So(res.Score, ShouldEqual, 70.0)
			})
		})

		Convey("When weights do not sum to 1", func() {
			calc := scoring.NewCalculator(scoring.WithWeights(scoring.Weights{Commit: 0.5, Time: 0.5, Copilot: 0.5}))

			Convey("Then the defaults are kept", func() {
				So(calc.Calibration().Weights, ShouldResemble, scoring.Weights{Commit: 0.35, Time: 0.35, Copilot: 0.30})
			})
		})

		Convey("When weights are valid", func() {
			calc := scoring.NewCalculator(scoring.WithWeights(scoring.Weights{Commit: 0.5, Time: 0.5, Copilot: 0}))
			res := calc.Score(model.DailyActivityMetrics{CommitsToday: 10, CodingMinutes: 0, CopilotScore: 1, Tier: "mid"})

			Convey("Then they drive the raw score", func() {
				So(res.Score, ShouldEqual, 50.0)
			})
		})

		Convey("When the tier table is incomplete", func() {
			calc := scoring.NewCalculator(scoring.WithTierMultipliers(types.Table{types.Junior: 2}, 0))

			Convey("Then the defaults are kept", func() {
				So(calc.Calibration().TierMultipliers, ShouldResemble, scoring.DefaultTierMultipliers())
			})
		})

		Convey("When a complete tier table and fallback are given", func() {
			calc := scoring.NewCalculator(scoring.WithTierMultipliers(types.Table{
				types.Junior: 1.2, types.Mid: 1.0, types.Senior: 0.8,
			}, 0.95))

			Convey("Then they are used", func() {
				m, fb := calc.TierMultiplier("senior")
				So(m, ShouldEqual, 0.8)
				So(fb, ShouldBeFalse)
				m, fb = calc.TierMultiplier("principal")
				So(m, ShouldEqual, 0.95)
				So(fb, ShouldBeTrue)
			})
		})

		Convey("When mutating a returned calibration", func() {
			calc := scoring.NewCalculator()
			cal := calc.Calibration()
			cal.TierMultipliers[types.Junior] = 5

			Convey("Then the calculator is unaffected", func() {
				m, _ := calc.TierMultiplier("junior")
				So(m, ShouldEqual, 1.15)
			})
		})
	})
}
