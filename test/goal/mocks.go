package goal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitgoals/backend/internal/common/clock"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/goal/domain"
	goalrepo "github.com/fitgoals/backend/internal/goal/repository"
	"github.com/fitgoals/backend/internal/goal/service"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
	userrepo "github.com/fitgoals/backend/internal/user/repository"
)

type mockIDGen struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGen) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return uuid.NewString(), nil
}

// memGoalRepo stores goals in memory, preserving insertion order the way the
// backing table's created_at ordering would. listCalls counts ListByOwner
// round trips so tests can tell cache hits from store reads.
type memGoalRepo struct {
	mu        sync.Mutex
	goals     []domain.Goal
	listCalls int
}

func newMemGoalRepo() *memGoalRepo {
	return &memGoalRepo{goals: make([]domain.Goal, 0)}
}

func (m *memGoalRepo) Create(ctx context.Context, goal domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append(m.goals, goal)
	return nil
}

func (m *memGoalRepo) FindByID(ctx context.Context, id domain.ID) (domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.Goal{}, goalrepo.ErrGoalNotFound
}

func (m *memGoalRepo) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := make([]domain.Goal, 0)
	for _, g := range m.goals {
		if g.UserID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGoalRepo) Update(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.goals {
		if g.ID == goal.ID {
			goal.CreatedAt = g.CreatedAt
			m.goals[i] = goal
			return goal, nil
		}
	}
	return domain.Goal{}, goalrepo.ErrGoalNotFound
}

func (m *memGoalRepo) Delete(ctx context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.goals {
		if g.ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return goalrepo.ErrGoalNotFound
}

func (m *memGoalRepo) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// mockListCache is a map-backed stand-in for the Redis list cache. A missing
// key is a miss (nil slice); a stored empty list comes back non-nil, matching
// the JSON round trip of the real cache.
type mockListCache struct {
	mu            sync.Mutex
	entries       map[userdomain.ID][]domain.Goal
	setCalls      int
	invalidations int
}

func newMockListCache() *mockListCache {
	return &mockListCache{entries: make(map[userdomain.ID][]domain.Goal)}
}

func (c *mockListCache) GetList(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.entries[ownerID]
	if !ok {
		return nil, nil
	}
	return list, nil
}

func (c *mockListCache) SetList(ctx context.Context, ownerID userdomain.ID, list []domain.Goal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if list == nil {
		list = make([]domain.Goal, 0)
	}
	c.entries[ownerID] = list
	c.setCalls++
	return nil
}

func (c *mockListCache) Invalidate(ctx context.Context, ownerID userdomain.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ownerID)
	c.invalidations++
	return nil
}

func (c *mockListCache) has(ownerID userdomain.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[ownerID]
	return ok
}

func (c *mockListCache) put(ownerID userdomain.ID, list []domain.Goal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ownerID] = list
}

type mockUserRepo struct {
	findByIDFunc func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func setupGoalService(t *testing.T) (*service.GoalService, *memGoalRepo, *clock.MockClock) {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := newMemGoalRepo()
	svc := service.NewGoalService(repo, nil, &mockIDGen{}, log).WithNow(mockClock.Now)

	return svc, repo, mockClock
}

func setupCachedGoalService(t *testing.T) (*service.GoalService, *memGoalRepo, *mockListCache) {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := newMemGoalRepo()
	cache := newMockListCache()
	svc := service.NewGoalService(repo, cache, &mockIDGen{}, log).WithNow(mockClock.Now)

	return svc, repo, cache
}

func validInput() service.GoalInput {
	return service.GoalInput{
		Title:       "Run a marathon",
		Description: "Train for and complete a full marathon",
		StartDate:   "2025-06-01",
		TargetDate:  "2025-12-01",
	}
}
