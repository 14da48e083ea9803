package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fitgoals/backend/internal/common/authguard"
	commonhttp "github.com/fitgoals/backend/internal/common/http"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/goal/domain"
	"github.com/fitgoals/backend/internal/goal/service"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

type goalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	TargetDate  string `json:"targetDate"`
}

type goalResponse struct {
	Message string      `json:"message"`
	Goal    domain.Goal `json:"goal"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	goals   *service.GoalService
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

// NewHandler builds the /api/goals mux. Every route sits behind the guard.
func NewHandler(goals *service.GoalService, guard *authguard.Guard, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		goals:   goals,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/goals", h.collection)
	mux.HandleFunc("/api/goals/", h.item)
	return guard.Middleware(mux)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r, h.errors)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.create(w, r, owner)
	case http.MethodGet:
		h.list(w, r, owner)
	default:
		commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r, h.errors)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/goals/")
	if id == "" || strings.Contains(id, "/") {
		commonhttp.WriteErrorCode(w, http.StatusNotFound, commonhttp.CodeInvalidPath, "not found")
		return
	}
	// An id that is not a UUID cannot name an existing goal.
	if err := commonhttp.ValidateUUID(id); err != nil {
		h.errors.HandleError(w, r, service.ErrGoalNotFound)
		return
	}

	goalID := domain.ID(id)
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, owner, goalID)
	case http.MethodPut:
		h.update(w, r, owner, goalID)
	case http.MethodDelete:
		h.delete(w, r, owner, goalID)
	default:
		commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, owner userdomain.ID) {
	req, ok := h.decodeGoal(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	goal, err := h.goals.Create(ctx, owner, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, goalResponse{
		Message: "goal created successfully",
		Goal:    goal,
	})
}

// list responds with a bare JSON array, empty when the user owns nothing.
func (h *Handler) list(w http.ResponseWriter, r *http.Request, owner userdomain.ID) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	goals, err := h.goals.List(ctx, owner)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, goals)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, owner userdomain.ID, goalID domain.ID) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	goal, err := h.goals.Get(ctx, owner, goalID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, goal)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, owner userdomain.ID, goalID domain.ID) {
	req, ok := h.decodeGoal(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	goal, err := h.goals.Update(ctx, owner, goalID, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, goalResponse{
		Message: "goal updated successfully",
		Goal:    goal,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, owner userdomain.ID, goalID domain.ID) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.goals.Delete(ctx, owner, goalID); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "goal deleted successfully"})
}

func (h *Handler) decodeGoal(w http.ResponseWriter, r *http.Request) (goalRequest, bool) {
	var req goalRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("goal request rejected: invalid json: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return goalRequest{}, false
	}
	return req, true
}

func ownerFromRequest(w http.ResponseWriter, r *http.Request, eh *commonhttp.ErrorHandler) (userdomain.ID, bool) {
	user, ok := authguard.FromContext(r.Context())
	if !ok {
		eh.HandleError(w, r, authguard.ErrNoToken)
		return "", false
	}
	return user.ID, true
}
