package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/graph"
)

// lineFixture builds a 3-link line A->B->C->D with 100m links at 10m/s.
func lineFixture() (*graph.Graph, []PathItem, []string) {
	g := graph.New()
	items := []PathItem{
		{Link: g.AddLink("A", "B", 100, 10), Length: 100},
		{Link: g.AddLink("B", "C", 100, 10), Length: 100},
		{Link: g.AddLink("C", "D", 100, 10), Length: 100},
	}
	return g, items, []string{"A", "B", "C", "D"}
}

func newLineVehicle(capacity int, items []PathItem, nodes []string) *Vehicle {
	v := New(nodes[0], capacity, "BUS", false, true, []*Activity{
		NewRepositioning(nodes[len(nodes)-1], items),
	})
	v.SetLinePath(items, nodes)
	return v
}

func TestVehicleDefaultStop(t *testing.T) {
	ResetCounter()
	v := New("A", 4, "BUS", false, true, nil)
	assert.Equal(t, ActivityStop, v.CurrentActivityType())
	v.Update(0, 10)
	assert.Equal(t, "A", v.CurrentNode())
	assert.Zero(t, v.Distance())
}

func TestVehicleFollowsLine(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(4, items, nodes)

	v.Update(0, 15) // 150m
	assert.Equal(t, "B", v.CurrentNode())
	assert.InDelta(t, 50.0, v.RemainingLinkLength(), 1e-9)
	assert.False(t, v.ReachedTerminus())

	v.Update(15, 15) // 300m total, at terminus
	assert.Equal(t, "D", v.CurrentNode())
	assert.True(t, v.ReachedTerminus())
	assert.Equal(t, ActivityStop, v.CurrentActivityType())
	assert.InDelta(t, 300.0, v.Distance(), 1e-9)
}

func TestVehicleBoardsAndDropsAlongLine(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(4, items, nodes)

	tr := traveler.New("u0", "B", "C", 0)
	v.AddActivities([]*Activity{
		NewPickup("B", nil, tr),
		NewServing("C", nil, tr),
	})

	v.Update(0, 10)
	assert.Equal(t, "B", v.CurrentNode())
	assert.True(t, tr.IsInsideVehicle())
	assert.Len(t, v.Passengers(), 1)

	v.Update(10, 10)
	assert.Equal(t, "C", v.CurrentNode())
	assert.Equal(t, traveler.StateDropped, tr.State())
	assert.Equal(t, "C", tr.CurrentNode)
	assert.Empty(t, v.Passengers())
	assert.InDelta(t, 100.0, tr.Distance, 1e-9)
}

func TestPickupBlockedByCapacity(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(1, items, nodes)

	t1 := traveler.New("u1", "B", "D", 0)
	t2 := traveler.New("u2", "B", "D", 0)
	v.AddActivities([]*Activity{NewPickup("B", nil, t1), NewServing("D", nil, t1)})
	v.AddActivities([]*Activity{NewPickup("B", nil, t2), NewServing("D", nil, t2)})

	v.Update(0, 10)
	assert.Equal(t, "B", v.CurrentNode())
	assert.True(t, t1.IsInsideVehicle())
	assert.False(t, t2.IsInsideVehicle())
	assert.Equal(t, traveler.StateWaitingVehicle, t2.State())
	// The blocked pickup stays pending but no longer contends.
	assert.Empty(t, v.WaitingQueue())
	acts := v.ArrivalActivities("B")
	assert.Len(t, acts, 1)
	assert.False(t, acts[0].IsDone)
}

func TestExecuteActivitiesIdempotent(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(4, items, nodes)

	tr := traveler.New("u0", "A", "D", 0)
	v.AddActivities([]*Activity{NewPickup("A", nil, tr)})

	v.ExecuteActivitiesAtCurrentNode(0)
	assert.True(t, tr.IsInsideVehicle())
	assert.Len(t, v.Passengers(), 1)

	v.ExecuteActivitiesAtCurrentNode(0)
	assert.Len(t, v.Passengers(), 1)
	assert.Empty(t, v.ArrivalActivities("A"))
}

func TestCommittedLoadCountsPendingPickups(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(2, items, nodes)

	t1 := traveler.New("u1", "B", "D", 0)
	t2 := traveler.New("u2", "C", "D", 0)
	v.AddActivities([]*Activity{NewPickup("B", nil, t1)})
	assert.Equal(t, 1, v.CommittedLoad())
	v.AddActivities([]*Activity{NewPickup("C", nil, t2)})
	assert.Equal(t, 2, v.CommittedLoad())

	v.Update(0, 10) // picks up t1 at B
	assert.True(t, t1.IsInsideVehicle())
	assert.Equal(t, 2, v.CommittedLoad())
}

func TestRemoveActivitiesOfSkipsCurrentNode(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(4, items, nodes)

	t1 := traveler.New("u1", "A", "C", 0)
	t2 := traveler.New("u2", "B", "D", 0)
	v.AddActivities([]*Activity{
		NewPickup("A", nil, t1),
		NewServing("C", nil, t1),
		NewPickup("B", nil, t2),
	})

	// Only activities at nodes strictly after the current one go away.
	v.RemoveActivitiesOf([]string{"u1", "u2"})
	assert.Len(t, v.ArrivalActivities("A"), 1)
	assert.Empty(t, v.ArrivalActivities("B"))
	assert.Empty(t, v.ArrivalActivities("C"))
}

func TestArrivalActivityOrderingByPriority(t *testing.T) {
	ResetCounter()
	_, items, nodes := lineFixture()
	v := newLineVehicle(4, items, nodes)

	drop := traveler.New("u1", "A", "B", 0)
	board := traveler.New("u2", "B", "D", 0)
	v.AddActivities([]*Activity{NewPickup("A", nil, drop)})
	v.ExecuteActivitiesAtCurrentNode(0)

	// Pickup inserted before the serving still executes after it.
	v.AddActivities([]*Activity{NewPickup("B", nil, board)})
	v.AddActivities([]*Activity{NewServing("B", nil, drop)})
	acts := v.ArrivalActivities("B")
	assert.Equal(t, ActivityServing, acts[0].Type)
	assert.Equal(t, ActivityPickup, acts[1].Type)
}

func TestPositionalPolicyAdmitsFrontHalf(t *testing.T) {
	p := PositionalPolicy{}
	queue := []string{"a", "b", "c", "d", "e"}
	assert.True(t, p.Admit(queue, "a"))
	assert.True(t, p.Admit(queue, "c")) // p = 0.5
	assert.False(t, p.Admit(queue, "d"))
	assert.False(t, p.Admit(queue, "e"))
	assert.True(t, p.Admit([]string{"a"}, "a"))
}

func TestPersonalVehicleParksAtDropNode(t *testing.T) {
	ResetCounter()
	g := graph.New()
	items := []PathItem{{Link: g.AddLink("A", "B", 100, 10), Length: 100}}
	tr := traveler.New("u0", "A", "B", 0)
	v := New("A", 1, "CAR", true, false, []*Activity{NewServing("B", items, tr)})
	assert.True(t, tr.IsInsideVehicle())

	v.Update(0, 10)
	assert.Equal(t, traveler.StateDropped, tr.State())
	assert.Equal(t, "CAR", tr.ParkedService)
	assert.Equal(t, "B", tr.ParkedNode)
	assert.Same(t, tr, v.LastDroppedOff())
}

func TestFleetOrderedVehicles(t *testing.T) {
	ResetCounter()
	f := NewFleet("BUS", 20, true, false)
	for i := 0; i < 11; i++ {
		f.Create("A", nil)
	}
	ids := make([]string, 0, f.Len())
	for _, v := range f.OrderedVehicles() {
		ids = append(ids, v.ID())
	}
	// Creation order, not lexicographic: "10" sorts after "9".
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, ids)
}

func TestFleetCreateDelete(t *testing.T) {
	ResetCounter()
	f := NewFleet("BUS", 20, true, false)
	v := f.Create("A", nil)
	assert.Equal(t, "BUS", v.ServiceID())
	assert.Equal(t, 20, v.Capacity())
	assert.Equal(t, 1, f.Len())
	assert.Same(t, v, f.Vehicle(v.ID()))
	f.Delete(v.ID())
	assert.Zero(t, f.Len())
}
