package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/fitgoals/backend/internal/auth/service"
	commonerrors "github.com/fitgoals/backend/internal/common/errors"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
	userrepo "github.com/fitgoals/backend/internal/user/repository"
)

func TestAuthService_Signup_Success(t *testing.T) {
	svc, repo, _, codec, _ := setupAuthService(t)

	var stored userdomain.User
	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		stored = user
		return nil
	}

	result, err := svc.Signup(context.Background(), service.SignupInput{
		Username: "  alice  ",
		Email:    "Alice@Example.COM",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token to be set")
	}

	if stored.Username != "alice" {
		t.Errorf("expected trimmed username, got %q", stored.Username)
	}
	if stored.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", stored.Email)
	}
	if stored.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}
	if stored.PasswordHash != "hashed_password123" {
		t.Errorf("expected derived hash to be stored, got %q", stored.PasswordHash)
	}

	claims, err := codec.Verify(result.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UserID != string(stored.ID) {
		t.Errorf("token subject %q does not match stored user id %q", claims.UserID, stored.ID)
	}
}

func TestAuthService_Signup_EmailConflict(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		return userrepo.ErrEmailAlreadyExists
	}

	_, err := svc.Signup(context.Background(), service.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	if domainErr.HTTPStatus() != 409 {
		t.Errorf("expected status 409, got %d", domainErr.HTTPStatus())
	}
}

func TestAuthService_Signup_UsernameConflict(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) error {
		return userrepo.ErrUsernameAlreadyExists
	}

	_, err := svc.Signup(context.Background(), service.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Fatalf("expected username conflict, got %v", err)
	}
}

func TestAuthService_Signup_MissingUsername(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	_, err := svc.Signup(context.Background(), service.SignupInput{
		Username: "   ",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if domainErr, ok := commonerrors.AsDomainError(err); !ok || domainErr.Code() != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestAuthService_Signup_InvalidEmailFormat(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	for _, email := range []string{"plainaddress", "a@b", "two@@example.com", "has space@example.com"} {
		_, err := svc.Signup(context.Background(), service.SignupInput{
			Username: "alice",
			Email:    email,
			Password: "password123",
		})
		if err == nil {
			t.Fatalf("expected validation error for %q", email)
		}

		domainErr, ok := commonerrors.AsDomainError(err)
		if !ok || domainErr.Code() != "VALIDATION_FAILED" {
			t.Errorf("expected VALIDATION_FAILED for %q, got %v", email, err)
		}
		if domainErr.Message() != "invalid email format" {
			t.Errorf("expected email format message for %q, got %q", email, domainErr.Message())
		}
	}
}
