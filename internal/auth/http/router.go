package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fitgoals/backend/internal/auth/service"
	"github.com/fitgoals/backend/internal/common/authguard"
	commonhttp "github.com/fitgoals/backend/internal/common/http"
	"github.com/fitgoals/backend/internal/common/logger"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// userResponse is the sanitized user shape; the password hash is never
// serialized anywhere.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type profileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type Handler struct {
	auth    *service.AuthService
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

// NewHandler builds the /api/auth mux. The guard protects only the profile
// route; signup and login are public.
func NewHandler(auth *service.AuthService, guard *authguard.Guard, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:    auth,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signup", h.signup)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.Handle("/api/auth/profile", guard.Middleware(http.HandlerFunc(h.profile)))
	return mux
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
		return
	}

	var req signupRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Signup(ctx, service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, tokenResponse{
		Message: "user created successfully",
		Token:   result.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"client_ip": commonhttp.GetClientIP(r),
		"action":    "login_request",
	}).Debug("login request received")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		Message: "logged in successfully",
		Token:   result.Token,
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
		return
	}

	user, ok := authguard.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, service.ErrUnauthorized)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profileResponse{
		Message: "profile fetched successfully",
		User:    toUserResponse(user),
	})
}

func toUserResponse(user userdomain.User) userResponse {
	return userResponse{
		ID:        string(user.ID),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
