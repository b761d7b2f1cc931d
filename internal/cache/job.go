package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerhub/careerhub/internal/model"
)

// Cache key prefixes and TTLs.
const (
	jobKeyPrefix      = "job:"
	negCacheKeySuffix = ":neg"

	// DefaultJobTTL is the TTL for cached job data.
	DefaultJobTTL = time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

func jobKey(id string) string {
	return jobKeyPrefix + id
}

func negativeJobKey(id string) string {
	return jobKeyPrefix + id + negCacheKeySuffix
}

// GetJob retrieves a job from cache by ID.
// Returns ErrCacheMiss if not found or if the entry cannot be decoded.
func (c *Cache) GetJob(ctx context.Context, id string) (*model.Job, error) {
	data, err := c.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, ErrCacheMiss
	}

	return &job, nil
}

// SetJob stores a job in cache and clears any negative entry for it.
func (c *Cache) SetJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, jobKey(job.ID), data, c.jobTTL)
	pipe.Del(ctx, negativeJobKey(job.ID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache job: %w", err)
	}

	return nil
}

// DeleteJob removes a job and its negative entry from cache.
func (c *Cache) DeleteJob(ctx context.Context, id string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, jobKey(id))
	pipe.Del(ctx, negativeJobKey(id))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete job from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a job ID is known to be missing.
func (c *Cache) IsNegativelyCached(ctx context.Context, id string) (bool, error) {
	exists, err := c.client.Exists(ctx, negativeJobKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a job ID as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, id string) error {
	err := c.client.SetEx(ctx, negativeJobKey(id), "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
