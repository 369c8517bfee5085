// Package behavior looks up persisted per-traveler route preference
// scores, keyed by a cleaned route label and a time bucket.
package behavior

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store is the read-only behavioral-index lookup. A missing entry is
// zero, never an error.
type Store interface {
	Index(ctx context.Context, travelerID, route string, t float64) float64
}

var directionSpan = regexp.MustCompile(`(?i)_DIR\d+.*?_DIR\d+`)

// CleanRoute normalizes a route label: direction-bounded spans are
// stripped and the rest uppercased, so both directions of a line map
// to the same key.
func CleanRoute(route string) string {
	return strings.ToUpper(directionSpan.ReplaceAllString(route, ""))
}

// TimeBucket floors a timestamp to its 10-minute bucket label HH:MM.
func TimeBucket(t float64) string {
	sec := int(t)
	h := sec / 3600 % 24
	m := sec / 60 % 60 / 10 * 10
	return fmt.Sprintf("%02d:%02d", h, m)
}

func key(route string, t float64) string {
	return CleanRoute(route) + "-" + TimeBucket(t)
}

// RedisStore reads indexes from a Redis hash per traveler: field
// `<cleaned route>-<bucket>` of hash `<traveler id>`.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Index(ctx context.Context, travelerID, route string, t float64) float64 {
	v, err := s.client.HGet(ctx, travelerID, key(route, t)).Float64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		log.Errorf("behavioral index lookup for %s failed: %v", travelerID, err)
		return 0
	}
	return v
}

// MemoryStore is an in-memory Store for wiring and tests.
type MemoryStore struct {
	m map[string]map[string]float64 // traveler id -> key -> index
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]map[string]float64)}
}

// Set stores an index under the same key scheme the Redis store reads.
func (s *MemoryStore) Set(travelerID, route string, t, index float64) {
	if s.m[travelerID] == nil {
		s.m[travelerID] = make(map[string]float64)
	}
	s.m[travelerID][key(route, t)] = index
}

func (s *MemoryStore) Index(ctx context.Context, travelerID, route string, t float64) float64 {
	return s.m[travelerID][key(route, t)]
}
