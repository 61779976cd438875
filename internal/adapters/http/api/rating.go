package api

import (
	"fmt"
	"net/http"

	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/pkg/logger"
)

// ratingUpdateRequest mirrors the OpenAPI schema for POST /rating/update.
type ratingUpdateRequest struct {
	TaskRating *int             `json:"task_rating"`
	Employees  []employeeRecord `json:"employees"`
}

type employeeRecord struct {
	ID           *string  `json:"id"`
	Rating       *float64 `json:"rating"`
	Tier         *string  `json:"tier"`
	AvgTaskScore *float64 `json:"avg_task_score"`
	Weight       *float64 `json:"weight"`
}

func (q ratingUpdateRequest) toModel() (model.TaskCompletion, error) {
	if q.TaskRating == nil {
		return model.TaskCompletion{}, missing("task_rating")
	}
	if q.Employees == nil {
		return model.TaskCompletion{}, missing("employees")
	}
	members := make([]model.TeamMember, len(q.Employees))
	for i, e := range q.Employees {
		field := func(name string) string { return fmt.Sprintf("employees[%d].%s", i, name) }
		switch {
		case e.ID == nil:
			return model.TaskCompletion{}, missing(field("id"))
		case e.Rating == nil:
			return model.TaskCompletion{}, missing(field("rating"))
		case e.Tier == nil:
			return model.TaskCompletion{}, missing(field("tier"))
		case e.AvgTaskScore == nil:
			return model.TaskCompletion{}, missing(field("avg_task_score"))
		case e.Weight == nil:
			return model.TaskCompletion{}, missing(field("weight"))
		}
		members[i] = model.TeamMember{
			ID:           *e.ID,
			Rating:       *e.Rating,
			Tier:         *e.Tier,
			AvgTaskScore: *e.AvgTaskScore,
			Weight:       *e.Weight,
		}
	}
	return model.TaskCompletion{TaskRating: *q.TaskRating, Members: members}, nil
}

type ratingUpdateResponse struct {
	EmployeeID   string  `json:"employee_id"`
	OldRating    float64 `json:"old_rating"`
	RatingChange float64 `json:"rating_change"`
	NewRating    float64 `json:"new_rating"`
}

// RatingHandler handles rating update requests.
type RatingHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewRatingHandler creates a new rating update handler.
func NewRatingHandler(deps Dependencies, log logger.Logger) *RatingHandler {
	return &RatingHandler{deps: deps, log: log}
}

// HandleRatingUpdate handles POST /rating/update requests. The response
// lists one entry per employee in request order.
func (h *RatingHandler) HandleRatingUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.rating_update"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req ratingUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	task, err := req.toModel()
	if err != nil {
		writeServiceError(w, "rating_update", Wrap(op, err))
		return
	}

	updates, err := h.deps.UpdateRatings(r.Context(), task)
	if err != nil {
		h.log.Debug(r.Context(), "rating update rejected",
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(err))
		writeServiceError(w, "rating_update", Wrap(op, err))
		return
	}

	out := make([]ratingUpdateResponse, len(updates))
	for i, u := range updates {
		out[i] = ratingUpdateResponse{
			EmployeeID:   u.EmployeeID,
			OldRating:    u.OldRating,
			RatingChange: u.RatingChange,
			NewRating:    u.NewRating,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
