package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitgoals/backend/internal/auth/service"
	"github.com/fitgoals/backend/internal/common/clock"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/common/token"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
	userrepo "github.com/fitgoals/backend/internal/user/repository"
)

const testJWTSecret = "test-secret-0123456789-0123456789-xyz"

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) error
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc    func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type mockIDGen struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGen) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return uuid.NewString(), nil
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *token.HS256Codec, *clock.MockClock) {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	idGen := &mockIDGen{}
	codec := token.NewHS256Codec(testJWTSecret, 2*time.Hour, idGen).WithNow(mockClock.Now)

	svc := service.NewAuthService(repo, hasher, idGen, codec, log).WithNow(mockClock.Now)

	return svc, repo, hasher, codec, mockClock
}

// memUserRepo is a map-backed credential store for HTTP-level tests.
type memUserRepo struct {
	byID    map[userdomain.ID]userdomain.User
	byEmail map[string]userdomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[userdomain.ID]userdomain.User),
		byEmail: make(map[string]userdomain.User),
	}
}

func (m *memUserRepo) Create(ctx context.Context, user userdomain.User) error {
	for _, existing := range m.byID {
		if existing.Username == user.Username {
			return userrepo.ErrUsernameAlreadyExists
		}
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return userrepo.ErrEmailAlreadyExists
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}
