package mobility

import (
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
	"github.com/assuntaDC/mnms-go/graph"
	"github.com/assuntaDC/mnms-go/utils/container"
)

// lineState is the per-line dispatch state: the vehicle reserved for
// the next scheduled departure (created ahead of time so its plan
// exists before boarding starts) and the vehicles currently in
// service, front = most recently departed.
type lineState struct {
	line       *Line
	path       []vehicle.PathItem // resolved full line path
	reserved   *vehicle.Vehicle
	reservedAt float64
	inService  *container.Deque[*vehicle.Vehicle]
}

type cachedMatch struct {
	veh *vehicle.Vehicle
	st  *lineState
}

// TransitDispatch runs one or more fixed lines: it spawns vehicles
// ahead of scheduled departures, launches them on time, matches
// requests to the best candidate vehicle and retires vehicles at the
// line terminus.
type TransitDispatch struct {
	id    string
	graph graph.Provider
	fleet *vehicle.Fleet

	lines  []*lineState
	byID   map[string]*lineState
	policy vehicle.BoardingPolicy

	cache map[string]*cachedMatch // traveler id -> tentative match
}

var _ Service = (*TransitDispatch)(nil)

// NewTransitDispatch creates an empty line-based service. Lines are
// added with AddLine before the simulation starts.
func NewTransitDispatch(id string, g graph.Provider, policy vehicle.BoardingPolicy) *TransitDispatch {
	return &TransitDispatch{
		id:     id,
		graph:  g,
		fleet:  vehicle.NewFleet(id, 0, true, false),
		byID:   make(map[string]*lineState),
		policy: policy,
		cache:  make(map[string]*cachedMatch),
	}
}

func (d *TransitDispatch) ID() string            { return d.id }
func (d *TransitDispatch) Fleet() *vehicle.Fleet { return d.fleet }

// AddLine registers a line, resolving its node sequence against the
// network once. A missing link between consecutive stops is a fatal
// input error.
func (d *TransitDispatch) AddLine(l *Line) {
	path := make([]vehicle.PathItem, 0, len(l.Nodes)-1)
	for i := 0; i+1 < len(l.Nodes); i++ {
		link := d.graph.Link(l.Nodes[i], l.Nodes[i+1])
		if link == nil {
			log.Panicf("line %s: no link between consecutive stops %s and %s", l.ID, l.Nodes[i], l.Nodes[i+1])
		}
		path = append(path, vehicle.PathItem{Link: link, Length: link.Length})
	}
	st := &lineState{line: l, path: path, inService: container.NewDeque[*vehicle.Vehicle]()}
	d.lines = append(d.lines, st)
	d.byID[l.ID] = st
	log.Infof("service %s: line %s with %d stops, %d departures", d.id, l.ID, len(l.Nodes), len(l.Timetable))
}

// Line returns a registered line by id, or nil.
func (d *TransitDispatch) Line(id string) *Line {
	if st := d.byID[id]; st != nil {
		return st.line
	}
	return nil
}

// findLine resolves the line serving a node, in registration order.
func (d *TransitDispatch) findLine(node string) *lineState {
	for _, st := range d.lines {
		if st.line.NodeIndex(node) >= 0 {
			return st
		}
	}
	return nil
}

func clonePath(path []vehicle.PathItem) []vehicle.PathItem {
	c := make([]vehicle.PathItem, len(path))
	copy(c, path)
	return c
}

// spawn reserves a vehicle for the next departure of a line: created
// at the start node with the line capacity, an idle Stop at the
// terminus and the full line path preloaded. Not launched yet.
func (d *TransitDispatch) spawn(st *lineState) *vehicle.Vehicle {
	v := d.fleet.CreateWithCapacity(st.line.Start(), st.line.Capacity, []*vehicle.Activity{
		vehicle.NewStop(st.line.Terminus(), nil),
	})
	v.SetLinePath(clonePath(st.path), append([]string(nil), st.line.Nodes...))
	if d.policy != nil {
		v.SetBoardingPolicy(d.policy)
	}
	return v
}

// spawnAndLaunch advances the timetable past stale departures, keeps a
// vehicle reserved for the next departure, and launches every reserved
// departure scheduled within [t, t+dt). Launched vehicles get a
// Repositioning over the full line path (what actually starts their
// motion) and move to the front of the in-service deque.
func (d *TransitDispatch) spawnAndLaunch(t, dt float64, st *lineState) []*vehicle.Vehicle {
	var launched []*vehicle.Vehicle
	for {
		if st.reserved == nil {
			dep, ok := st.line.NextDeparture()
			for ok && dep < t {
				log.Warnf("line %s: skipping stale departure %v before %v", st.line.ID, dep, t)
				st.line.AdvanceDeparture()
				dep, ok = st.line.NextDeparture()
			}
			if !ok {
				break // timetable exhausted
			}
			st.reserved = d.spawn(st)
			st.reservedAt = dep
			st.line.AdvanceDeparture()
		}
		if st.reservedAt >= t+dt {
			break
		}
		v := st.reserved
		st.reserved = nil
		v.AddActivities([]*vehicle.Activity{
			vehicle.NewRepositioning(st.line.Terminus(), clonePath(st.path)),
		})
		v.NextActivity(t)
		v.ExecuteActivitiesAtCurrentNode(t)
		st.inService.PushFront(v)
		launched = append(launched, v)
		log.Debugf("line %s: vehicle %s departed at %v", st.line.ID, v.ID(), st.reservedAt)
	}
	return launched
}

// Request quotes the wait until pickup for a traveler at its current
// node, without committing. The tentative (vehicle, line) pair is
// cached against the traveler id for the Matching call.
func (d *TransitDispatch) Request(tr *traveler.Traveler, dropNode string, t float64) float64 {
	st := d.findLine(tr.CurrentNode)
	if st == nil {
		log.Debugf("service %s: no line serves node %s", d.id, tr.CurrentNode)
		return Unreachable
	}
	nodeIdx := st.line.NodeIndex(tr.CurrentNode)

	var chosen *vehicle.Vehicle
	if len(d.graph.Radj(tr.CurrentNode)) == 0 {
		// No vehicle can have passed this node yet; the only candidate
		// is the one reserved for the next departure.
		chosen = st.reserved
	} else {
		// Earliest-departed vehicles sit at the back and are the most
		// advanced: the first one still heading to a node at or before
		// the traveler's is the closest that has not passed it. The
		// node a vehicle already advanced into has had its arrivals
		// executed, so a mid-link vehicle counts by the downstream node
		// of its current link.
		for i := st.inService.Len() - 1; i >= 0; i-- {
			v := st.inService.At(i)
			next := v.CurrentNode()
			if link := v.CurrentLink(); link != nil {
				next = link.To
			}
			if pos := st.line.NodeIndex(next); pos >= 0 && pos <= nodeIdx {
				chosen = v
				break
			}
		}
		if chosen == nil {
			chosen = st.reserved
		}
	}
	if chosen == nil {
		return Unreachable
	}
	d.cache[tr.ID] = &cachedMatch{veh: chosen, st: st}
	return d.estimateArrival(chosen, st, nodeIdx, t)
}

// estimateArrival sums the remaining current-link time and every full
// link up to the traveler's node, plus the wait until the scheduled
// departure for a not-yet-launched vehicle.
func (d *TransitDispatch) estimateArrival(v *vehicle.Vehicle, st *lineState, nodeIdx int, t float64) float64 {
	vi := st.line.NodeIndex(v.CurrentNode())
	if vi < 0 || vi > nodeIdx {
		return Unreachable
	}
	total := 0.0
	start := vi
	if link := v.CurrentLink(); link != nil && vi < nodeIdx {
		total += v.RemainingLinkLength() / link.Speed(d.id)
		start = vi + 1
	}
	for i := start; i < nodeIdx; i++ {
		total += st.path[i].Length / st.path[i].Link.Speed(d.id)
	}
	if v == st.reserved && st.reservedAt > t {
		total += st.reservedAt - t
	}
	return total
}

// Matching commits the cached tentative match. The capacity re-check
// counts committed, not yet boarded pickups so a vehicle is never
// promised beyond its capacity; a full vehicle is an ordinary
// rejection the caller recovers from.
func (d *TransitDispatch) Matching(req Request, t, dt float64) (bool, bool) {
	m := d.cache[req.Traveler.ID]
	if m == nil {
		log.Warnf("service %s: matching without request for traveler %s", d.id, req.Traveler.ID)
		return false, true
	}
	delete(d.cache, req.Traveler.ID)
	v := m.veh
	if v.CommittedLoad() >= v.Capacity() {
		log.Debugf("service %s: vehicle %s full, traveler %s rejected", d.id, v.ID(), req.Traveler.ID)
		return false, true
	}
	v.AddActivities([]*vehicle.Activity{
		vehicle.NewPickup(req.Traveler.CurrentNode, nil, req.Traveler),
		vehicle.NewServing(req.DropNode, nil, req.Traveler),
	})
	req.Traveler.SetStateWaitingVehicle(v)
	log.Debugf("service %s: traveler %s matched to vehicle %s (%s -> %s)",
		d.id, req.Traveler.ID, v.ID(), req.Traveler.CurrentNode, req.DropNode)
	return true, true
}

// StepMaintenance launches due departures on every line, then retires
// vehicles from the oldest end: a vehicle leaves service only at the
// line terminus, idle and empty, so retirement follows launch order.
func (d *TransitDispatch) StepMaintenance(t, dt float64) []*vehicle.Vehicle {
	var launched []*vehicle.Vehicle
	for _, st := range d.lines {
		launched = append(launched, d.spawnAndLaunch(t, dt, st)...)
		for !st.inService.Empty() {
			v := st.inService.Back()
			if !v.ReachedTerminus() || v.CurrentActivityType() != vehicle.ActivityStop || !v.IsEmpty() {
				break
			}
			st.inService.PopBack()
			d.fleet.Delete(v.ID())
		}
	}
	return launched
}

// PeriodicMaintenance is a no-op for line-based dispatch.
func (d *TransitDispatch) PeriodicMaintenance(t float64) {}

// EstimatePickupTimeForPlanning returns the planning-time wait
// estimate at a node: half the mean headway of the serving line.
func (d *TransitDispatch) EstimatePickupTimeForPlanning(node string) float64 {
	st := d.findLine(node)
	if st == nil {
		return Unreachable
	}
	h := st.line.MeanHeadway()
	if h >= Unreachable {
		return Unreachable
	}
	return h / 2
}

// InService returns the in-service vehicles of a line, front = most
// recently departed.
func (d *TransitDispatch) InService(lineID string) []*vehicle.Vehicle {
	if st := d.byID[lineID]; st != nil {
		return st.inService.Values()
	}
	return nil
}

// Reserved returns the vehicle reserved for a line's next departure.
func (d *TransitDispatch) Reserved(lineID string) *vehicle.Vehicle {
	if st := d.byID[lineID]; st != nil {
		return st.reserved
	}
	return nil
}
