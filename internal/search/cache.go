package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caretap/staffing-platform/internal/geo"
)

// Snapshot is a geo-bounded candidate set fetched once per (kind, origin,
// radius). Filter and sort changes replay against the snapshot instead of
// hitting the store again.
type Snapshot struct {
	Kind       Kind           `json:"kind"`
	Origin     geo.Coordinate `json:"origin"`
	RadiusKm   float64        `json:"radius_km"`
	Candidates []Candidate    `json:"candidates"`
	FetchedAt  time.Time      `json:"fetched_at"`
}

// SnapshotCache stores snapshots keyed by query shape.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*Snapshot, bool, error)
	Set(ctx context.Context, key string, snap *Snapshot) error
}

// snapshotKey buckets origins to four decimal places (~11m) so nearby
// repeat queries share a snapshot. Filters and sort are deliberately
// excluded from the key.
func snapshotKey(kind Kind, origin geo.Coordinate, radiusKm float64) string {
	return fmt.Sprintf("search:snapshot:%s:%.4f:%.4f:%g", kind, origin.Latitude, origin.Longitude, radiusKm)
}

// RedisSnapshotCache is the production SnapshotCache backed by Redis.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	if client == nil {
		panic("search: redis client is required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func (c *RedisSnapshotCache) Get(ctx context.Context, key string) (*Snapshot, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("search: cache get: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt entry is treated as a miss so the query can refetch.
		return nil, false, nil
	}
	return &snap, true, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, key string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("search: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("search: cache set: %w", err)
	}
	return nil
}

// NoopCache disables snapshot caching; every query fetches from the store.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (*Snapshot, bool, error) { return nil, false, nil }
func (NoopCache) Set(ctx context.Context, key string, snap *Snapshot) error    { return nil }
