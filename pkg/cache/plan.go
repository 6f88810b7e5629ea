package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// PlanCache is a specialized cache for planner results. Because the
// planner is deterministic, a result cached under the instance hash can be
// replayed for any identical request.
type PlanCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// NewPlanCache wraps a Cache for plan results.
func NewPlanCache(cache Cache, defaultTTL time.Duration) *PlanCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &PlanCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get looks up the cached result for an instance and unmarshals it into
// out. The second return is true on a hit.
func (pc *PlanCache) Get(ctx context.Context, variant string, instance, out any) (bool, error) {
	hash, err := InstanceHash(instance)
	if err != nil {
		return false, err
	}
	data, err := pc.cache.Get(ctx, BuildPlanKey(variant, hash))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Corrupted entry: drop it, best effort.
		_ = pc.cache.Delete(ctx, BuildPlanKey(variant, hash)) //nolint:errcheck
		return false, nil
	}
	return true, nil
}

// Set stores a result for an instance.
func (pc *PlanCache) Set(ctx context.Context, variant string, instance, result any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = pc.defaultTTL
	}
	hash, err := InstanceHash(instance)
	if err != nil {
		return err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return pc.cache.Set(ctx, BuildPlanKey(variant, hash), data, ttl)
}
