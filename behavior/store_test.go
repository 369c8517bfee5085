package behavior

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRoute(t *testing.T) {
	assert.Equal(t, "METRO_L1", CleanRoute("metro_l1_dir1_stop3_dir1"))
	assert.Equal(t, "BUS_12", CleanRoute("BUS_12"))
	assert.Equal(t, "TRAM_T2_EXTRA", CleanRoute("tram_t2_DIR2_x_DIR2_extra"))
}

func TestTimeBucket(t *testing.T) {
	assert.Equal(t, "08:00", TimeBucket(28800))
	assert.Equal(t, "08:00", TimeBucket(29399)) // 08:09:59
	assert.Equal(t, "08:10", TimeBucket(29400))
	assert.Equal(t, "00:00", TimeBucket(86400+30)) // wraps past midnight
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	s.Set("u1", "metro_l1_dir1_stop3_dir1", 28810, 0.8)

	// Both directions and any time within the bucket hit the same key.
	assert.InDelta(t, 0.8, s.Index(context.Background(), "u1", "METRO_L1", 29000), 1e-9)
	assert.Zero(t, s.Index(context.Background(), "u1", "METRO_L1", 29400))
	assert.Zero(t, s.Index(context.Background(), "u2", "METRO_L1", 29000))
}
