package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitgoals/backend/internal/goal/domain"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

const keyPrefix = "goals:list:"

// GoalCache keeps per-user goal lists in Redis. It is a read cache only:
// every write path invalidates the owner's entry.
type GoalCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGoalCache(rdb *redis.Client, ttl time.Duration) *GoalCache {
	return &GoalCache{rdb: rdb, ttl: ttl}
}

func listKey(ownerID userdomain.ID) string {
	return keyPrefix + string(ownerID)
}

// GetList returns the cached list for ownerID, or nil on a miss.
func (c *GoalCache) GetList(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Goal
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *GoalCache) SetList(ctx context.Context, ownerID userdomain.ID, list []domain.Goal) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID), b, c.ttl).Err()
}

// Invalidate drops the owner's cached list after a write.
func (c *GoalCache) Invalidate(ctx context.Context, ownerID userdomain.ID) error {
	return c.rdb.Del(ctx, listKey(ownerID)).Err()
}
