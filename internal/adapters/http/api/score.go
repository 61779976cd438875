package api

import (
	"net/http"

	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/pkg/logger"
)

// dailyScoreRequest mirrors the OpenAPI schema for POST /score/daily. Pointers
// let the handler tell a missing field from a zero value.
type dailyScoreRequest struct {
	CommitsToday   *int     `json:"commits_today"`
	CodingMinutes  *int     `json:"coding_minutes"`
	CopilotScore   *float64 `json:"copilot_score"`
	Tier           *string  `json:"tier"`
	ActiveProjects *int     `json:"active_projects"`
}

func (q dailyScoreRequest) toModel() (model.DailyActivityMetrics, error) {
	switch {
	case q.CommitsToday == nil:
		return model.DailyActivityMetrics{}, missing("commits_today")
	case q.CodingMinutes == nil:
		return model.DailyActivityMetrics{}, missing("coding_minutes")
	case q.CopilotScore == nil:
		return model.DailyActivityMetrics{}, missing("copilot_score")
	case q.Tier == nil:
		return model.DailyActivityMetrics{}, missing("tier")
	case q.ActiveProjects == nil:
		return model.DailyActivityMetrics{}, missing("active_projects")
	}
	return model.DailyActivityMetrics{
		CommitsToday:   *q.CommitsToday,
		CodingMinutes:  *q.CodingMinutes,
		CopilotScore:   *q.CopilotScore,
		Tier:           *q.Tier,
		ActiveProjects: *q.ActiveProjects,
	}, nil
}

type dailyScoreResponse struct {
	DailyScore float64 `json:"daily_score"`
}

// ScoreHandler handles daily score requests.
type ScoreHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewScoreHandler creates a new daily score handler.
func NewScoreHandler(deps Dependencies, log logger.Logger) *ScoreHandler {
	return &ScoreHandler{deps: deps, log: log}
}

// HandleDailyScore handles POST /score/daily requests.
func (h *ScoreHandler) HandleDailyScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_daily"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req dailyScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	m, err := req.toModel()
	if err != nil {
		writeServiceError(w, "score_daily", Wrap(op, err))
		return
	}

	res, err := h.deps.DailyScore(r.Context(), m)
	if err != nil {
		h.log.Debug(r.Context(), "daily score rejected",
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(err))
		writeServiceError(w, "score_daily", Wrap(op, err))
		return
	}
	if res.TierFallback {
		w.Header().Set(TierFallbackHeader, tierFallbackValue)
	}
	writeJSON(w, http.StatusOK, dailyScoreResponse{DailyScore: res.Score})
}
