package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.ScheduleRepository = (*CachedScheduleRepository)(nil)

// CachedScheduleRepository is a read-through redis cache in front of
// another ScheduleRepository. The reminder dispatch loop hits
// ListByUserID every minute, so that is the cached path.
type CachedScheduleRepository struct {
	next  domain.ScheduleRepository
	cache *redis.Client
}

func NewCachedScheduleRepository(next domain.ScheduleRepository, cache *redis.Client) *CachedScheduleRepository {
	return &CachedScheduleRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedScheduleRepository) cacheKey(userID string) string {
	return fmt.Sprintf("schedules:%s", userID)
}

func (r *CachedScheduleRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedScheduleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var schedules []*domain.Schedule
		if err := json.Unmarshal([]byte(val), &schedules); err == nil {
			return schedules, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	schedules, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(schedules); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return schedules, nil
}

func (r *CachedScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	if err := r.next.Create(ctx, schedule); err != nil {
		return err
	}
	r.invalidate(ctx, schedule.UserID)
	return nil
}

func (r *CachedScheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	if err := r.next.Update(ctx, schedule); err != nil {
		return err
	}
	r.invalidate(ctx, schedule.UserID)
	return nil
}

func (r *CachedScheduleRepository) Delete(ctx context.Context, id string) error {
	schedule, err := r.next.GetByID(ctx, id)
	if err == nil && schedule != nil {
		defer r.invalidate(ctx, schedule.UserID)
	}

	return r.next.Delete(ctx, id)
}
