package probe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/devscore/internal/domain/rating"
	"github.com/okian/devscore/internal/domain/scoring"
	"github.com/okian/devscore/internal/domain/types"
)

// calibration mirrors the GET /calibration response.
type calibration struct {
	DailyScore struct {
		CommitCap             int                `json:"commit_cap"`
		CodingMinutesCap      int                `json:"coding_minutes_cap"`
		CommitWeight          float64            `json:"commit_weight"`
		TimeWeight            float64            `json:"time_weight"`
		CopilotWeight         float64            `json:"copilot_weight"`
		TierMultipliers       map[string]float64 `json:"tier_multipliers"`
		DefaultTierMultiplier float64            `json:"default_tier_multiplier"`
		OptimalProjects       int                `json:"optimal_projects"`
		MaxProjects           int                `json:"max_projects"`
		ProjectDecay          float64            `json:"project_decay"`
		LoadFactorFloor       float64            `json:"load_factor_floor"`
	} `json:"daily_score"`
	RatingUpdate struct {
		KFactors           map[string]float64 `json:"k_factors"`
		ExpectedScoreScale float64            `json:"expected_score_scale"`
	} `json:"rating_update"`
	WeightSumTolerance float64 `json:"weight_sum_tolerance"`
}

// Model is the local reference the probe checks the server against. It is
// built from the server's own calibration so both sides share constants.
type Model struct {
	Calculator         *scoring.Calculator
	Updater            *rating.Updater
	WeightSumTolerance float64
}

// DefaultModel uses the built-in calibration.
func DefaultModel() *Model {
	return &Model{
		Calculator:         scoring.NewCalculator(),
		Updater:            rating.NewUpdater(),
		WeightSumTolerance: 0.001,
	}
}

func (c calibration) model() (*Model, error) {
	multipliers, unknown := types.FromStrings(c.DailyScore.TierMultipliers)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown tiers %v", ErrCalibration, unknown)
	}
	if t, ok := multipliers.Complete(); !ok {
		return nil, fmt.Errorf("%w: tier_multipliers missing %s", ErrCalibration, t)
	}
	kFactors, unknown := types.FromStrings(c.RatingUpdate.KFactors)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown tiers %v", ErrCalibration, unknown)
	}
	if t, ok := kFactors.Complete(); !ok {
		return nil, fmt.Errorf("%w: k_factors missing %s", ErrCalibration, t)
	}

	d := c.DailyScore
	return &Model{
		Calculator: scoring.NewCalculator(
			scoring.WithCommitCap(d.CommitCap),
			scoring.WithMinutesCap(d.CodingMinutesCap),
			scoring.WithWeights(scoring.Weights{Commit: d.CommitWeight, Time: d.TimeWeight, Copilot: d.CopilotWeight}),
			scoring.WithTierMultipliers(multipliers, d.DefaultTierMultiplier),
			scoring.WithLoadFactorModel(scoring.LoadFactorModel{
				Optimal: d.OptimalProjects,
				Max:     d.MaxProjects,
				Decay:   d.ProjectDecay,
				Floor:   d.LoadFactorFloor,
			}),
		),
		Updater: rating.NewUpdater(
			rating.WithKFactors(kFactors),
			rating.WithScale(c.RatingUpdate.ExpectedScoreScale),
		),
		WeightSumTolerance: c.WeightSumTolerance,
	}, nil
}

// fetchModel reads GET /calibration and builds the matching local model.
func fetchModel(ctx context.Context, client *HTTPClient, baseURL string) (*Model, error) {
	status, body, err := client.Get(ctx, baseURL+"/calibration")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCalibration, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrCalibration, status)
	}
	var c calibration
	if err := unmarshalJSON(body, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCalibration, err)
	}
	return c.model()
}
