package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	commoncrypto "github.com/fitgoals/backend/internal/common/crypto"
	commonerrors "github.com/fitgoals/backend/internal/common/errors"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/goal/domain"
	goalrepo "github.com/fitgoals/backend/internal/goal/repository"
	"github.com/fitgoals/backend/internal/observability/metrics"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

// ListCache is a read cache for per-owner goal lists. GetList returns a nil
// slice on a miss; a cached empty list comes back non-nil.
type ListCache interface {
	GetList(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error)
	SetList(ctx context.Context, ownerID userdomain.ID, list []domain.Goal) error
	Invalidate(ctx context.Context, ownerID userdomain.ID) error
}

// GoalService enforces per-user ownership on every goal operation. Existence
// is checked before ownership, so a caller asking for another user's goal
// gets an authorization failure, not a not-found one.
type GoalService struct {
	repo  goalrepo.Repository
	cache ListCache
	idGen commoncrypto.IDGenerator
	sf    singleflight.Group
	now   func() time.Time
	log   *logger.Logger
}

// NewGoalService creates a GoalService. A nil cache disables caching.
func NewGoalService(
	repo goalrepo.Repository,
	c ListCache,
	idGen commoncrypto.IDGenerator,
	log *logger.Logger,
) *GoalService {
	return &GoalService{
		repo:  repo,
		cache: c,
		idGen: idGen,
		now:   time.Now,
		log:   log,
	}
}

// WithNow overrides the service clock. Test hook.
func (s *GoalService) WithNow(now func() time.Time) *GoalService {
	s.now = now
	return s
}

type GoalInput struct {
	Title       string
	Description string
	StartDate   string
	TargetDate  string
}

func (s *GoalService) Create(ctx context.Context, ownerID userdomain.ID, input GoalInput) (domain.Goal, error) {
	if err := validateGoalFields(input); err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("create", "validation_failed").Inc()
		return domain.Goal{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "goal_create_id_failed",
		}).Errorf("goal create failed: id generation error: %v", err)
		return domain.Goal{}, err
	}

	now := s.now()
	goal := domain.Goal{
		ID:          domain.ID(id),
		UserID:      ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		StartDate:   strings.TrimSpace(input.StartDate),
		TargetDate:  strings.TrimSpace(input.TargetDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("create", "error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "goal_create_failed",
		}).Errorf("goal create failed: %v", err)
		return domain.Goal{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.invalidateCache(ctx, ownerID)
	metrics.GoalOperationsTotal.WithLabelValues("create", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id": string(ownerID),
		"goal_id":  string(goal.ID),
		"action":   "goal_created",
	}).Info("goal created")

	return goal, nil
}

// List returns every goal owned by ownerID, empty slice included. Concurrent
// cache fills for the same owner are collapsed through singleflight.
func (s *GoalService) List(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error) {
	if s.cache == nil {
		return s.repo.ListByOwner(ctx, ownerID)
	}

	v, err, _ := s.sf.Do("list:"+string(ownerID), func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, ownerID); err == nil && list != nil {
			metrics.GoalCacheHits.Inc()
			return list, nil
		}
		metrics.GoalCacheMisses.Inc()

		list, err := s.repo.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, ownerID, list); err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"owner_id": string(ownerID),
				"action":   "goal_cache_set_failed",
			}).Warnf("goal list cache set failed: %v", err)
		}
		return list, nil
	})
	if err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("list", "error").Inc()
		return nil, err
	}

	metrics.GoalOperationsTotal.WithLabelValues("list", "success").Inc()
	return v.([]domain.Goal), nil
}

func (s *GoalService) Get(ctx context.Context, ownerID userdomain.ID, goalID domain.ID) (domain.Goal, error) {
	goal, err := s.findOwned(ctx, ownerID, goalID)
	if err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("get", outcomeLabel(err)).Inc()
		return domain.Goal{}, err
	}

	metrics.GoalOperationsTotal.WithLabelValues("get", "success").Inc()
	return goal, nil
}

// Update is a full replace of all four content fields, never a partial
// patch. Fields omitted by the caller fail validation instead of being
// preserved.
func (s *GoalService) Update(ctx context.Context, ownerID userdomain.ID, goalID domain.ID, input GoalInput) (domain.Goal, error) {
	if err := validateGoalFields(input); err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("update", "validation_failed").Inc()
		return domain.Goal{}, err
	}

	goal, err := s.findOwned(ctx, ownerID, goalID)
	if err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("update", outcomeLabel(err)).Inc()
		return domain.Goal{}, err
	}

	goal.Title = strings.TrimSpace(input.Title)
	goal.Description = strings.TrimSpace(input.Description)
	goal.StartDate = strings.TrimSpace(input.StartDate)
	goal.TargetDate = strings.TrimSpace(input.TargetDate)
	goal.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, goal)
	if err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("update", "error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"goal_id":  string(goalID),
			"action":   "goal_update_failed",
		}).Errorf("goal update failed: %v", err)
		return domain.Goal{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.invalidateCache(ctx, ownerID)
	metrics.GoalOperationsTotal.WithLabelValues("update", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id": string(ownerID),
		"goal_id":  string(goalID),
		"action":   "goal_updated",
	}).Info("goal updated")

	return updated, nil
}

func (s *GoalService) Delete(ctx context.Context, ownerID userdomain.ID, goalID domain.ID) error {
	if _, err := s.findOwned(ctx, ownerID, goalID); err != nil {
		metrics.GoalOperationsTotal.WithLabelValues("delete", outcomeLabel(err)).Inc()
		return err
	}

	if err := s.repo.Delete(ctx, goalID); err != nil {
		if errors.Is(err, goalrepo.ErrGoalNotFound) {
			metrics.GoalOperationsTotal.WithLabelValues("delete", "not_found").Inc()
			return ErrGoalNotFound
		}
		metrics.GoalOperationsTotal.WithLabelValues("delete", "error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"goal_id":  string(goalID),
			"action":   "goal_delete_failed",
		}).Errorf("goal delete failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.invalidateCache(ctx, ownerID)
	metrics.GoalOperationsTotal.WithLabelValues("delete", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id": string(ownerID),
		"goal_id":  string(goalID),
		"action":   "goal_deleted",
	}).Info("goal deleted")

	return nil
}

// findOwned checks existence first, then ownership, in that order.
func (s *GoalService) findOwned(ctx context.Context, ownerID userdomain.ID, goalID domain.ID) (domain.Goal, error) {
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, goalrepo.ErrGoalNotFound) {
			return domain.Goal{}, ErrGoalNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"goal_id": string(goalID),
			"action":  "goal_fetch_failed",
		}).Errorf("goal fetch failed: %v", err)
		return domain.Goal{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if goal.UserID != ownerID {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id":  string(goal.UserID),
			"caller_id": string(ownerID),
			"goal_id":   string(goalID),
			"action":    "goal_ownership_rejected",
		}).Warn("goal access rejected: caller is not the owner")
		return domain.Goal{}, ErrNotOwner
	}

	return goal, nil
}

func (s *GoalService) invalidateCache(ctx context.Context, ownerID userdomain.ID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "goal_cache_invalidate_failed",
		}).Warnf("goal cache invalidation failed: %v", err)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrGoalNotFound):
		return "not_found"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	default:
		return "error"
	}
}
