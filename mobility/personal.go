package mobility

import (
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
	"github.com/assuntaDC/mnms-go/graph"
)

// PersonalDispatch serves capacity-1 privately owned vehicles: a
// vehicle materializes at the traveler's node when the leg starts and
// parks where the rider leaves it, so a later leg reclaims the same
// instance at that node.
type PersonalDispatch struct {
	id    string
	graph graph.Provider
	fleet *vehicle.Fleet

	parked   map[string]*vehicle.Vehicle // owner traveler id -> parked vehicle
	launched []*vehicle.Vehicle          // departed since the last maintenance pass
}

var _ Service = (*PersonalDispatch)(nil)

// NewPersonalDispatch creates a personal vehicle service.
func NewPersonalDispatch(id string, g graph.Provider) *PersonalDispatch {
	return &PersonalDispatch{
		id:     id,
		graph:  g,
		fleet:  vehicle.NewFleet(id, 1, false, true),
		parked: make(map[string]*vehicle.Vehicle),
	}
}

func (d *PersonalDispatch) ID() string            { return d.id }
func (d *PersonalDispatch) Fleet() *vehicle.Fleet { return d.fleet }

// Request always quotes zero wait: the rider's own vehicle is at hand.
func (d *PersonalDispatch) Request(tr *traveler.Traveler, dropNode string, t float64) float64 {
	return 0
}

// Matching creates (or reclaims) the traveler's vehicle with a single
// path-carrying Serving to the drop node, boarding the rider at once.
func (d *PersonalDispatch) Matching(req Request, t, dt float64) (bool, bool) {
	tr := req.Traveler
	path := d.resolvePath(tr, req.DropNode)
	serving := vehicle.NewServing(req.DropNode, path, tr)

	if v := d.parked[tr.ID]; v != nil && v.CurrentNode() == tr.CurrentNode {
		delete(d.parked, tr.ID)
		d.fleet.Adopt(v)
		v.AddActivities([]*vehicle.Activity{serving})
		v.NextActivity(t)
		d.launched = append(d.launched, v)
		log.Debugf("service %s: traveler %s reclaimed vehicle %s at %s", d.id, tr.ID, v.ID(), tr.CurrentNode)
		return true, false
	}
	v := d.fleet.Create(tr.CurrentNode, []*vehicle.Activity{serving})
	d.launched = append(d.launched, v)
	log.Debugf("service %s: traveler %s departed in vehicle %s", d.id, tr.ID, v.ID())
	return true, false
}

// resolvePath extracts the links of the traveler's chosen path between
// its current node and the drop node. A gap in the network under a
// chosen path is fatal.
func (d *PersonalDispatch) resolvePath(tr *traveler.Traveler, dropNode string) []vehicle.PathItem {
	start := tr.NodeIndexInPath(tr.CurrentNode)
	end := tr.NodeIndexInPath(dropNode)
	if start < 0 || end < start {
		log.Panicf("traveler %s: drop node %s not ahead of %s on chosen path", tr.ID, dropNode, tr.CurrentNode)
	}
	path := make([]vehicle.PathItem, 0, end-start)
	for i := start; i < end; i++ {
		link := d.graph.Link(tr.Path[i], tr.Path[i+1])
		if link == nil {
			log.Panicf("traveler %s: no link between %s and %s on chosen path", tr.ID, tr.Path[i], tr.Path[i+1])
		}
		path = append(path, vehicle.PathItem{Link: link, Length: link.Length})
	}
	return path
}

// StepMaintenance parks vehicles whose trip is over: an idle, empty
// vehicle leaves the active fleet and waits for its owner at the drop
// node. Returns the vehicles that departed since the previous pass.
func (d *PersonalDispatch) StepMaintenance(t, dt float64) []*vehicle.Vehicle {
	for id, v := range d.fleet.Vehicles() {
		if v.CurrentActivityType() != vehicle.ActivityStop || !v.IsEmpty() {
			continue
		}
		if owner := v.LastDroppedOff(); owner != nil {
			d.parked[owner.ID] = v
		}
		d.fleet.Delete(id)
	}
	launched := d.launched
	d.launched = nil
	return launched
}

// PeriodicMaintenance is a no-op for personal vehicles.
func (d *PersonalDispatch) PeriodicMaintenance(t float64) {}
