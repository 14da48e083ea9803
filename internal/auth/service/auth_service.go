package service

import (
	"context"
	"errors"
	"strings"
	"time"

	commoncrypto "github.com/fitgoals/backend/internal/common/crypto"
	commonerrors "github.com/fitgoals/backend/internal/common/errors"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/common/token"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
	userrepo "github.com/fitgoals/backend/internal/user/repository"
)

type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	idGen  commoncrypto.IDGenerator
	tokens token.Issuer
	now    func() time.Time
	log    *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGen commoncrypto.IDGenerator,
	tokens token.Issuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		idGen:  idGen,
		tokens: tokens,
		now:    time.Now,
		log:    log,
	}
}

// WithNow overrides the service clock. Test hook.
func (s *AuthService) WithNow(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	if err := validateSignup(input.Username, input.Email, input.Password); err != nil {
		incrementSignups("validation_failed")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_validation_failed",
		}).Warnf("signup validation failed: %v", err)
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return AuthResult{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_id_generation_failed",
		}).Errorf("signup failed: id generation error: %v", err)
		return AuthResult{}, err
	}

	now := s.now()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     strings.TrimSpace(input.Username),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) || errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			incrementSignups("conflict")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signup_conflict",
			}).Warnf("signup failed: %v", err)
			return AuthResult{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	tok, err := s.tokens.Sign(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "signup_token_issue_failed",
		}).Errorf("signup failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	incrementSignups("success")
	incrementSessionTokensIssued()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signup_success",
	}).Info("signup success")

	return AuthResult{Token: tok}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateLogin(input.Email, input.Password); err != nil {
		incrementLogins("validation_failed")
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return AuthResult{}, err
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			incrementLogins("not_found")
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		incrementLogins("invalid_password")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	tok, err := s.tokens.Sign(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	incrementLogins("success")
	incrementSessionTokensIssued()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return AuthResult{Token: tok}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
