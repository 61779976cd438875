package api

import (
	"net/http"

	"github.com/okian/devscore/internal/domain/types"
)

type calibrationResponse struct {
	DailyScore         dailyCalibration  `json:"daily_score"`
	RatingUpdate       ratingCalibration `json:"rating_update"`
	WeightSumTolerance float64           `json:"weight_sum_tolerance"`
	UnknownTierPolicy  map[string]string `json:"unknown_tier_policy"`
}

type dailyCalibration struct {
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
}

type ratingCalibration struct {
	KFactors           map[string]float64 `json:"k_factors"`
	ExpectedScoreScale float64            `json:"expected_score_scale"`
}

// CalibrationHandler serves the active scoring constants.
type CalibrationHandler struct {
	deps Dependencies
}

// NewCalibrationHandler creates a new calibration handler.
func NewCalibrationHandler(deps Dependencies) *CalibrationHandler {
	return &CalibrationHandler{deps: deps}
}

// HandleCalibration handles GET /calibration requests.
func (h *CalibrationHandler) HandleCalibration(w http.ResponseWriter, r *http.Request) {
	const op = "api.calibration"
	if !allowMethod(w, r, op, http.MethodGet) {
		return
	}
	c := h.deps.Calibration()
	writeJSON(w, http.StatusOK, calibrationResponse{
		DailyScore: dailyCalibration{
			CommitCap:             c.Daily.CommitCap,
			CodingMinutesCap:      c.Daily.MinutesCap,
			CommitWeight:          c.Daily.Weights.Commit,
			TimeWeight:            c.Daily.Weights.Time,
			CopilotWeight:         c.Daily.Weights.Copilot,
			TierMultipliers:       tableJSON(c.Daily.TierMultipliers),
			DefaultTierMultiplier: c.Daily.FallbackMultiplier,
			OptimalProjects:       c.Daily.Load.Optimal,
			MaxProjects:           c.Daily.Load.Max,
			ProjectDecay:          c.Daily.Load.Decay,
			LoadFactorFloor:       c.Daily.Load.Floor,
		},
		RatingUpdate: ratingCalibration{
			KFactors:           tableJSON(c.Rating.KFactors),
			ExpectedScoreScale: c.Rating.Scale,
		},
		WeightSumTolerance: c.WeightSumTolerance,
		UnknownTierPolicy:  c.UnknownTierPolicy,
	})
}

func tableJSON(tb types.Table) map[string]float64 {
	out := make(map[string]float64, len(tb))
	for t, v := range tb {
		out[t.String()] = v
	}
	return out
}
