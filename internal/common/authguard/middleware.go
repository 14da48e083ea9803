package authguard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	commonerrors "github.com/fitgoals/backend/internal/common/errors"
	commonhttp "github.com/fitgoals/backend/internal/common/http"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/common/token"
	"github.com/fitgoals/backend/internal/observability/metrics"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
	userrepo "github.com/fitgoals/backend/internal/user/repository"
)

// All guard failures are externally a 401; the codes keep the internal cause
// distinguishable in logs, metrics and tests.
var (
	ErrNoToken = commonerrors.NewDomainError(
		"NO_TOKEN", commonerrors.CategoryUnauthorized, http.StatusUnauthorized, "no token provided")
	ErrMalformedToken = commonerrors.NewDomainError(
		"MALFORMED_TOKEN", commonerrors.CategoryUnauthorized, http.StatusUnauthorized, "invalid token format")
	ErrTokenExpired = commonerrors.NewDomainError(
		"TOKEN_EXPIRED", commonerrors.CategoryUnauthorized, http.StatusUnauthorized, "token expired")
	ErrInvalidToken = commonerrors.NewDomainError(
		"INVALID_TOKEN", commonerrors.CategoryUnauthorized, http.StatusUnauthorized, "invalid token")
	ErrUnknownUser = commonerrors.NewDomainError(
		"UNKNOWN_USER", commonerrors.CategoryUnauthorized, http.StatusUnauthorized, "unauthorized")
)

type contextKey string

const userKey contextKey = "auth_user"

// Guard converts a bearer token into a resolved user attached to the request
// context. It is the only path by which downstream handlers learn who is
// calling.
type Guard struct {
	verifier token.Verifier
	users    userrepo.Repository
	log      *logger.Logger
}

func New(verifier token.Verifier, users userrepo.Repository, log *logger.Logger) *Guard {
	return &Guard{
		verifier: verifier,
		users:    users,
		log:      log,
	}
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Authenticate(r)
		if err != nil {
			g.reject(w, r, err)
			return
		}

		metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Authenticate parses the Authorization header, verifies the token and
// resolves the embedded user id against the credential store.
func (g *Guard) Authenticate(r *http.Request) (userdomain.User, error) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return userdomain.User{}, ErrNoToken
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return userdomain.User{}, ErrMalformedToken
	}

	claims, err := g.verifier.Verify(parts[1])
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return userdomain.User{}, ErrTokenExpired
		}
		return userdomain.User{}, ErrInvalidToken
	}

	user, err := g.users.FindByID(r.Context(), userdomain.ID(claims.UserID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.User{}, ErrUnknownUser
		}
		return userdomain.User{}, err
	}

	// The attached identity is password-free; downstream handlers never see
	// the stored hash.
	user.PasswordHash = ""

	return user, nil
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, err error) {
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		g.log.WithFields(r.Context(), logger.Fields{
			"path":   r.URL.Path,
			"action": "auth_guard_error",
		}).Errorf("auth guard failed: %v", err)
		metrics.TokenVerificationsTotal.WithLabelValues("error").Inc()
		commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	g.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"code":   domainErr.Code(),
		"action": "auth_guard_rejected",
	}).Warnf("auth guard rejected request: %v", err)
	metrics.TokenVerificationsTotal.WithLabelValues(strings.ToLower(domainErr.Code())).Inc()
	commonhttp.WriteErrorCode(w, domainErr.HTTPStatus(), domainErr.Code(), domainErr.Message())
}

func WithUser(ctx context.Context, user userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func FromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}
