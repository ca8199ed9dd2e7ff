package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Cache tracks job status. All job-status reads and writes go through here.
// Implementations must be safe for concurrent use.
type Cache interface {
	Ping(ctx context.Context) error
	SetJobStatus(ctx context.Context, status models.JobStatus, ttl time.Duration) error
	GetJobStatus(ctx context.Context, jobID uuid.UUID) (models.JobStatus, bool, error)
	Close() error
}

// New returns a RedisCache when redisURL is set and a MemoryCache otherwise.
func New(redisURL string, defaultTTL time.Duration) (Cache, error) {
	if redisURL == "" {
		return NewMemoryCache(defaultTTL), nil
	}
	return NewRedisCache(redisURL)
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) SetJobStatus(ctx context.Context, status models.JobStatus, ttl time.Duration) error {
	b, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding job status: %w", err)
	}
	return c.client.Set(ctx, JobStatusKey(status.JobID), b, ttl).Err()
}

func (c *RedisCache) GetJobStatus(ctx context.Context, jobID uuid.UUID) (models.JobStatus, bool, error) {
	val, err := c.client.Get(ctx, JobStatusKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.JobStatus{}, false, nil
	}
	if err != nil {
		return models.JobStatus{}, false, err
	}

	var status models.JobStatus
	if err := json.Unmarshal(val, &status); err != nil {
		return models.JobStatus{}, false, fmt.Errorf("decoding job status: %w", err)
	}
	return status, true, nil
}

// MemoryCache implements the Cache interface in process using ttlcache.
// Statuses are lost on restart and not shared between replicas.
type MemoryCache struct {
	items *ttlcache.Cache[uuid.UUID, models.JobStatus]
}

// NewMemoryCache starts a MemoryCache whose entries expire after defaultTTL
// unless a different TTL is passed to SetJobStatus.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	items := ttlcache.New(
		ttlcache.WithTTL[uuid.UUID, models.JobStatus](defaultTTL),
		ttlcache.WithDisableTouchOnHit[uuid.UUID, models.JobStatus](),
	)
	go items.Start()
	return &MemoryCache{items: items}
}

func (c *MemoryCache) Ping(_ context.Context) error { return nil }

func (c *MemoryCache) Close() error {
	c.items.Stop()
	return nil
}

func (c *MemoryCache) SetJobStatus(_ context.Context, status models.JobStatus, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	c.items.Set(status.JobID, status, ttl)
	return nil
}

func (c *MemoryCache) GetJobStatus(_ context.Context, jobID uuid.UUID) (models.JobStatus, bool, error) {
	item := c.items.Get(jobID)
	if item == nil {
		return models.JobStatus{}, false, nil
	}
	return item.Value(), true, nil
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)
