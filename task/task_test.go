package task

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/congestion"
	"github.com/assuntaDC/mnms-go/decision"
	"github.com/assuntaDC/mnms-go/demand"
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
	"github.com/assuntaDC/mnms-go/graph"
	"github.com/assuntaDC/mnms-go/metrics"
	"github.com/assuntaDC/mnms-go/mobility"
	"github.com/assuntaDC/mnms-go/utils/config"
	"github.com/assuntaDC/mnms-go/utils/randengine"
)

// endToEndFixture wires a one-line network with a single bus departure
// at 08:00:10 and one traveler boarding at the second stop.
func endToEndFixture(t *testing.T) (*Context, *traveler.Traveler, *metrics.Collector) {
	t.Helper()
	vehicle.ResetCounter()

	g := graph.New()
	g.AddLink("A", "B", 100, 10)
	g.AddLink("B", "C", 100, 10)
	g.AddLink("C", "D", 100, 10)

	bus := mobility.NewTransitDispatch("BUS", g, nil)
	bus.AddLine(mobility.NewLine("L1", []string{"A", "B", "C", "D"}, 20, []float64{clock.MustParse("08:00:10")}))

	tr := traveler.New("u1", "B", "D", clock.MustParse("08:00:15"))
	dm := demand.NewBaseManager([]*traveler.Traveler{tr})

	planner := decision.NewTablePlanner()
	planner.Add("B", "D", &decision.Path{Nodes: []string{"B", "C", "D"}, Service: "BUS", Cost: 30})

	collector := metrics.New()
	ck := clock.New(config.ControlStep{Start: 2880, Total: 12, Interval: 10})
	ctx := NewContext(
		ck, g, dm, planner,
		decision.NewLogitModel(0.01, randengine.New(1)),
		[]mobility.Service{bus},
		congestion.NewMovingAverageEstimator(600),
		nil,
		collector,
	)
	return ctx, tr, collector
}

func TestEndToEndTransitTrip(t *testing.T) {
	ctx, tr, collector := endToEndFixture(t)
	ctx.Run()

	assert.Equal(t, traveler.StateDropped, tr.State())
	assert.Equal(t, "D", tr.CurrentNode)
	assert.Zero(t, ctx.Unserved())
	require.Len(t, ctx.Travelers(), 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.MatchesAccepted))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Departures))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Boardings))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Dropoffs))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Retirements))
}

func TestUnservedTravelerWithoutCandidates(t *testing.T) {
	ctx, _, collector := endToEndFixture(t)
	// A second traveler with an origin the planner knows nothing about.
	lost := traveler.New("u2", "Z", "D", clock.MustParse("08:00:15"))
	ctx.demand = demand.NewBaseManager([]*traveler.Traveler{lost})

	ctx.Run()
	assert.Equal(t, 1, ctx.Unserved())
	assert.Equal(t, traveler.StateIdle, lost.State())
	assert.Zero(t, testutil.ToFloat64(collector.MatchesAccepted))
}
