// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/devscore/internal/app"
	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/internal/domain/scoring"
	"github.com/okian/devscore/pkg/logger"
	"github.com/okian/devscore/pkg/metrics"
)

// maxBodyBytes caps request bodies; a rating request for a large team is
// still well under this.
const maxBodyBytes = 1 << 20

// TierFallbackHeader flags a daily score computed with the neutral tier
// multiplier because the tier was not recognized.
const (
	TierFallbackHeader = "X-Tier-Fallback"
	tierFallbackValue  = "neutral"
)

// Error codes carried in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidation       = "validation_error"
	codeConfiguration    = "configuration_error"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DailyScore(ctx context.Context, m model.DailyActivityMetrics) (scoring.Result, error)
	UpdateRatings(ctx context.Context, task model.TaskCompletion) ([]model.RatingUpdate, error)
	Calibration() service.Calibration
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	scoreHandler       *ScoreHandler
	ratingHandler      *RatingHandler
	calibrationHandler *CalibrationHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	log := logger.Get().Named("api")
	return &Server{
		healthHandler:      NewHealthHandler(),
		scoreHandler:       NewScoreHandler(deps, log),
		ratingHandler:      NewRatingHandler(deps, log),
		calibrationHandler: NewCalibrationHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/calibration", MetricsMiddleware(s.calibrationHandler.HandleCalibration, "calibration"))
	mux.HandleFunc("/score/daily", RequestIDMiddleware(MetricsMiddleware(s.scoreHandler.HandleDailyScore, "score_daily")))
	mux.HandleFunc("/rating/update", RequestIDMiddleware(MetricsMiddleware(s.ratingHandler.HandleRatingUpdate, "rating_update")))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowMethod writes a 405 and returns false unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, op, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed,
		WrapKind(op, ErrMethodNotAllowed, fmt.Errorf("use %s", method)))
	return false
}

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// writeServiceError maps domain error kinds to HTTP statuses.
func writeServiceError(w http.ResponseWriter, endpoint string, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		metrics.RecordValidationError(endpoint)
		writeError(w, http.StatusBadRequest, codeValidation, err)
	case errors.Is(err, model.ErrConfiguration):
		writeError(w, http.StatusUnprocessableEntity, codeConfiguration, err)
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, err)
	}
}

func missing(field string) error {
	return model.Invalid(field, "is required")
}
