package mobility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineCursorIsForwardOnly(t *testing.T) {
	l := NewLine("L1", []string{"A", "B"}, 10, []float64{100, 200, 300})

	dep, ok := l.NextDeparture()
	assert.True(t, ok)
	assert.Equal(t, 100.0, dep)

	l.AdvanceDeparture()
	dep, ok = l.NextDeparture()
	assert.True(t, ok)
	assert.Equal(t, 200.0, dep)

	l.AdvanceDeparture()
	l.AdvanceDeparture()
	_, ok = l.NextDeparture()
	assert.False(t, ok)
	l.AdvanceDeparture() // exhausted cursor stays exhausted
	_, ok = l.NextDeparture()
	assert.False(t, ok)
}

func TestLineNodeIndexAndEnds(t *testing.T) {
	l := NewLine("L1", []string{"A", "B", "C"}, 10, []float64{100})
	assert.Equal(t, "A", l.Start())
	assert.Equal(t, "C", l.Terminus())
	assert.Equal(t, 1, l.NodeIndex("B"))
	assert.Equal(t, -1, l.NodeIndex("Z"))
}

func TestLineMeanHeadway(t *testing.T) {
	l := NewLine("L1", []string{"A", "B"}, 10, []float64{0, 600, 1200})
	assert.InDelta(t, 600.0, l.MeanHeadway(), 1e-9)

	single := NewLine("L2", []string{"A", "B"}, 10, []float64{0})
	assert.Equal(t, Unreachable, single.MeanHeadway())
}

func TestLineValidation(t *testing.T) {
	assert.Panics(t, func() { NewLine("L1", []string{"A"}, 10, nil) })
	assert.Panics(t, func() { NewLine("L1", []string{"A", "B"}, 0, nil) })
	assert.Panics(t, func() { NewLine("L1", []string{"A", "B"}, 10, []float64{200, 100}) })
}
