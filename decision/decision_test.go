package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assuntaDC/mnms-go/behavior"
	"github.com/assuntaDC/mnms-go/congestion"
	"github.com/assuntaDC/mnms-go/utils/randengine"
)

func TestLineLabel(t *testing.T) {
	assert.Equal(t, "METRO_L1", lineLabel("METRO_L1_DIR1_S3"))
	assert.Equal(t, "BUS_12", lineLabel("bus_12_stop4"))
	assert.Empty(t, lineLabel("origin42"))
	assert.Empty(t, lineLabel("WALK_x"))
}

func TestLogitEmptyAndSingle(t *testing.T) {
	m := NewLogitModel(0.01, randengine.New(1))
	assert.Nil(t, m.ChoosePath(nil, "u1", 0))

	p := &Path{Nodes: []string{"A", "B"}, Cost: 100}
	assert.Same(t, p, m.ChoosePath([]*Path{p}, "u1", 0))
}

func TestLogitFavorsCheapPaths(t *testing.T) {
	m := NewLogitModel(0.05, randengine.New(42))
	cheap := &Path{Nodes: []string{"A", "B"}, Cost: 10}
	costly := &Path{Nodes: []string{"A", "C", "B"}, Cost: 200}

	picks := 0
	for i := 0; i < 200; i++ {
		if m.ChoosePath([]*Path{cheap, costly}, "u1", 0) == cheap {
			picks++
		}
	}
	assert.Greater(t, picks, 180)
}

func TestLogitRecoversFromUnderflow(t *testing.T) {
	m := NewLogitModel(1, randengine.New(7))
	// exp(-1e6) underflows to zero for every path; theta halving must
	// still produce a choice.
	paths := []*Path{
		{Nodes: []string{"A", "B"}, Cost: 1e6},
		{Nodes: []string{"A", "C"}, Cost: 2e6},
	}
	assert.NotNil(t, m.ChoosePath(paths, "u1", 0))
}

func TestBehaviorCongestionRanking(t *testing.T) {
	est := congestion.NewMovingAverageEstimator(600)
	est.Record(congestion.Record{T: 0, VehicleID: "0", Onboard: 9, Capacity: 10, Index: 0.9, Node: "METRO_L1_DIR1_S1"})
	store := behavior.NewMemoryStore()
	store.Set("u1", "BUS_12", 0, 1.0)

	crowded := &Path{Nodes: []string{"o", "METRO_L1_DIR1_S1", "METRO_L1_DIR1_S2", "d"}, Cost: 100}
	preferred := &Path{Nodes: []string{"o", "BUS_12_S1", "BUS_12_S2", "d"}, Cost: 110}

	m := NewBehaviorCongestionModel(1, est, store, randengine.New(1))
	// Cost favors the metro, but crowding and the behavioral index
	// both favor the bus, which wins on rank sum.
	chosen := m.ChoosePath([]*Path{crowded, preferred}, "u1", 0)
	assert.Same(t, preferred, chosen)
}

func TestBehaviorCongestionTopKDraw(t *testing.T) {
	est := congestion.NewMovingAverageEstimator(600)
	store := behavior.NewMemoryStore()
	m := NewBehaviorCongestionModel(3, est, store, randengine.New(9))

	paths := []*Path{
		{Nodes: []string{"o", "d"}, Cost: 10},
		{Nodes: []string{"o", "x", "d"}, Cost: 20},
	}
	seen := map[*Path]bool{}
	for i := 0; i < 100; i++ {
		p := m.ChoosePath(paths, "u1", 0)
		require.NotNil(t, p)
		seen[p] = true
	}
	// k is clamped to the candidate count and both can be drawn.
	assert.Len(t, seen, 2)
}
