// Package vehicle implements the fleet entities and their activity
// state machine. A vehicle advances activity-by-activity and
// node-by-node: path-carrying activities (the mover plan) drive its
// motion, while a per-node table holds the boarding activities to
// execute upon arrival at each node of its remaining path.
package vehicle

import (
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/graph"
	"github.com/assuntaDC/mnms-go/utils/container"
)

var counter atomic.Int64

// ResetCounter restarts the global vehicle id sequence (tests only).
func ResetCounter() {
	counter.Store(0)
}

// Observer is notified after every vehicle update.
type Observer interface {
	NotifyVehicle(t float64, v *Vehicle)
}

// Vehicle is a fleet entity owned by the mobility service that created
// it. Its plan and passenger set are mutated only through its own
// operations.
type Vehicle struct {
	id        string
	capacity  int
	serviceID string
	personal  bool
	shared    bool
	policy    BoardingPolicy

	currentNode         string
	currentLink         *graph.Link
	remainingLinkLength float64
	distance            float64
	Speed               float64

	passengers   map[string]*traveler.Traveler
	waitingQueue []string

	current *Activity
	pending *container.Deque[*Activity]
	byNode  map[string][]*Activity

	// Line path metadata: the remaining route to the terminus.
	pathLinks       []PathItem
	pathNodes       []string
	pathIndex       int
	reachedTerminus bool

	lastDroppedOff *traveler.Traveler
	observers      []Observer
}

// New creates a vehicle at a node. When initial activities are given
// the first one is started immediately.
func New(node string, capacity int, serviceID string, personal, shared bool, activities []*Activity) *Vehicle {
	v := &Vehicle{
		id:          strconv.FormatInt(counter.Add(1)-1, 10),
		capacity:    capacity,
		serviceID:   serviceID,
		personal:    personal,
		shared:      shared,
		policy:      FIFOPolicy{},
		currentNode: node,
		passengers:  make(map[string]*traveler.Traveler),
		pending:     container.NewDeque[*Activity](),
		byNode:      make(map[string][]*Activity),
	}
	if len(activities) > 0 {
		v.AddActivities(activities)
		v.NextActivity(0)
	} else {
		v.current = NewStop(node, nil)
	}
	return v
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle('%s', '%s')", v.id, v.CurrentActivityType())
}

func (v *Vehicle) ID() string        { return v.id }
func (v *Vehicle) ServiceID() string { return v.serviceID }
func (v *Vehicle) Capacity() int     { return v.capacity }
func (v *Vehicle) Personal() bool    { return v.personal }
func (v *Vehicle) Shared() bool      { return v.shared }
func (v *Vehicle) Distance() float64 { return v.distance }

func (v *Vehicle) CurrentNode() string          { return v.currentNode }
func (v *Vehicle) CurrentLink() *graph.Link     { return v.currentLink }
func (v *Vehicle) RemainingLinkLength() float64 { return v.remainingLinkLength }
func (v *Vehicle) ReachedTerminus() bool        { return v.reachedTerminus }

// SetBoardingPolicy overrides the default FIFO boarding policy.
func (v *Vehicle) SetBoardingPolicy(p BoardingPolicy) {
	v.policy = p
}

// Passengers returns the onboard travelers keyed by id.
func (v *Vehicle) Passengers() map[string]*traveler.Traveler {
	return v.passengers
}

// IsFull reports whether the onboard count reached capacity.
func (v *Vehicle) IsFull() bool {
	return len(v.passengers) >= v.capacity
}

// IsEmpty reports whether no traveler is onboard.
func (v *Vehicle) IsEmpty() bool {
	return len(v.passengers) == 0
}

// CommittedLoad counts onboard travelers plus committed, not yet
// boarded pickups. Matching checks it so that a vehicle is never
// promised to more travelers than it can carry.
func (v *Vehicle) CommittedLoad() int {
	n := len(v.passengers)
	for _, acts := range v.byNode {
		for _, a := range acts {
			if a.Type == ActivityPickup && !a.IsDone && a.Traveler != nil && !a.Traveler.IsInsideVehicle() {
				n++
			}
		}
	}
	return n
}

// LastDroppedOff returns the last traveler dropped by a personal
// vehicle, pinning the vehicle until its owner reclaims it.
func (v *Vehicle) LastDroppedOff() *traveler.Traveler {
	return v.lastDroppedOff
}

// CurrentActivityType returns the type of the activity in progress.
func (v *Vehicle) CurrentActivityType() ActivityType {
	if v.current != nil {
		return v.current.Type
	}
	if !v.pending.Empty() {
		return v.pending.Front().Type
	}
	return ActivityStop
}

// CurrentActivity returns the activity in progress, nil right after a
// plan edit interrupted it.
func (v *Vehicle) CurrentActivity() *Activity {
	return v.current
}

// Plan returns the flattened mover plan: the current activity (when
// set) followed by the pending ones.
func (v *Vehicle) Plan() []*Activity {
	plan := make([]*Activity, 0, v.pending.Len()+1)
	if v.current != nil {
		plan = append(plan, v.current)
	}
	return append(plan, v.pending.Values()...)
}

// ClearCurrent interrupts the current activity after a plan edit
// spliced its remaining path onto a successor. The next update resumes
// from the pending front.
func (v *Vehicle) ClearCurrent() {
	v.current = nil
}

// InsertPendingAt places an activity at position i of the pending plan.
func (v *Vehicle) InsertPendingAt(i int, a *Activity) {
	v.pending.Insert(i, a)
}

// PendingLen returns the number of pending mover activities.
func (v *Vehicle) PendingLen() int {
	return v.pending.Len()
}

// PendingAt returns the pending activity at position i.
func (v *Vehicle) PendingAt(i int) *Activity {
	return v.pending.At(i)
}

// RemovePendingAt deletes the pending activity at position i.
func (v *Vehicle) RemovePendingAt(i int) *Activity {
	return v.pending.RemoveAt(i)
}

// SetLinePath preloads the full line route. The vehicle is positioned
// on the first link of the path, ready to depart.
func (v *Vehicle) SetLinePath(links []PathItem, nodes []string) {
	v.pathLinks = links
	v.pathNodes = nodes
	v.pathIndex = 0
	v.reachedTerminus = len(nodes) <= 1
	if len(links) > 0 {
		v.currentLink = links[0].Link
		v.remainingLinkLength = links[0].Length
	}
}

// LinePathNodes returns the ordered node list of the line route.
func (v *Vehicle) LinePathNodes() []string {
	return v.pathNodes
}

// ArrivalActivities returns the pending activities scheduled at a node.
func (v *Vehicle) ArrivalActivities(node string) []*Activity {
	return v.byNode[node]
}

// FindArrivalActivity locates a traveler's not-done activity of the
// given type in the per-node table.
func (v *Vehicle) FindArrivalActivity(travelerID string, typ ActivityType) (*Activity, bool) {
	for _, acts := range v.byNode {
		for _, a := range acts {
			if a.Type == typ && !a.IsDone && a.Traveler != nil && a.Traveler.ID == travelerID {
				return a, true
			}
		}
	}
	return nil, false
}

// RemoveArrivalActivity deletes a traveler's not-done activity of the
// given type from the per-node table.
func (v *Vehicle) RemoveArrivalActivity(travelerID string, typ ActivityType) bool {
	for node, acts := range v.byNode {
		for i, a := range acts {
			if a.Type == typ && !a.IsDone && a.Traveler != nil && a.Traveler.ID == travelerID {
				v.byNode[node] = append(acts[:i:i], acts[i+1:]...)
				if len(v.byNode[node]) == 0 {
					delete(v.byNode, node)
				}
				return true
			}
		}
	}
	return false
}

// AddActivities inserts activities into the plan. Path-carrying
// activities extend the mover plan; zero-path pickups and servings go
// to the per-node table of their target node, kept in execution
// priority order (insertion order within the same priority).
func (v *Vehicle) AddActivities(activities []*Activity) {
	for _, a := range activities {
		if (a.Type == ActivityPickup || a.Type == ActivityServing) && len(a.Path) == 0 {
			acts := append(v.byNode[a.Node], a)
			if len(acts) > 1 {
				sort.SliceStable(acts, func(i, j int) bool {
					return acts[i].Type.priority() < acts[j].Type.priority()
				})
			}
			v.byNode[a.Node] = acts
		} else {
			v.pending.PushBack(a)
		}
	}
}

// NextActivity completes the current activity and starts the next one
// from the pending plan (an idle Stop when the plan is empty). It
// aborts the step when the recorded current node does not match the
// upstream node of the link about to be traversed: that indicates plan
// corruption and must never be silently continued.
func (v *Vehicle) NextActivity(t float64) {
	// Completion effects are idempotent, so an activity marked done at
	// pop time (empty path) still applies its effect here.
	if v.current != nil {
		if v.current.execute(v, t) {
			v.current.IsDone = true
		}
	}
	var a *Activity
	if v.pending.Empty() {
		a = NewStop(v.currentNode, nil)
	} else {
		a = v.pending.PopFront()
	}
	v.current = a
	a.start(v)
	if a.Type != ActivityStop {
		if item, ok := a.NextPathItem(); ok {
			if v.currentNode != item.Link.From {
				log.Panicf("vehicle %s current node %s is not equal to the next upstream link node of %s",
					v.id, v.currentNode, item.Link)
			}
			v.currentLink = item.Link
			v.remainingLinkLength = item.Length
		} else {
			a.IsDone = true
		}
	}
}

// Advance moves the vehicle one node forward along its remaining line
// path and reports whether the terminus was reached.
func (v *Vehicle) Advance() bool {
	if v.currentLink != nil {
		v.currentNode = v.currentLink.To
	}
	if len(v.pathNodes) > 0 && v.pathIndex+1 < len(v.pathNodes) {
		v.pathIndex++
		if v.pathIndex == len(v.pathNodes)-1 {
			v.reachedTerminus = true
		}
	}
	if v.current != nil {
		if item, ok := v.current.NextPathItem(); ok {
			if v.currentNode != item.Link.From {
				log.Panicf("vehicle %s current node %s is not equal to the next upstream link node of %s",
					v.id, v.currentNode, item.Link)
			}
			v.currentLink = item.Link
			v.remainingLinkLength = item.Length
			return v.reachedTerminus
		}
	}
	v.currentLink = nil
	v.remainingLinkLength = 0
	return v.reachedTerminus
}

// ExecuteActivitiesAtCurrentNode executes, in priority order, every
// not-yet-done activity scheduled at the current node. Each completion
// effect runs exactly once; a pickup blocked by capacity leaves the
// traveler waiting and stops contending once the vehicle moves on.
func (v *Vehicle) ExecuteActivitiesAtCurrentNode(t float64) {
	acts := v.byNode[v.currentNode]
	if len(acts) == 0 {
		return
	}
	// Enroll boarding contenders in match commit order.
	for _, a := range acts {
		if a.Type == ActivityPickup && !a.IsDone && a.Traveler != nil && !a.Traveler.IsInsideVehicle() {
			v.enqueueWaiting(a.Traveler.ID)
		}
	}
	for _, a := range acts {
		if a.IsDone {
			continue
		}
		if a.execute(v, t) {
			a.IsDone = true
		}
	}
	kept := make([]*Activity, 0, len(acts))
	for _, a := range acts {
		if a.IsDone {
			continue
		}
		if a.Type == ActivityPickup && a.Traveler != nil {
			v.dequeueWaiting(a.Traveler.ID)
		}
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		delete(v.byNode, v.currentNode)
	} else {
		v.byNode[v.currentNode] = kept
	}
}

// RemoveActivitiesOf deletes every pending activity bound to the given
// travelers from the nodes strictly after the current one. Used when a
// traveler's itinerary is replanned before being picked up. Removing an
// already-done activity is a no-op.
func (v *Vehicle) RemoveActivitiesOf(travelerIDs []string) {
	ids := lo.SliceToMap(travelerIDs, func(id string) (string, struct{}) { return id, struct{}{} })
	for i := v.pathIndex + 1; i < len(v.pathNodes); i++ {
		node := v.pathNodes[i]
		acts := v.byNode[node]
		if len(acts) == 0 {
			continue
		}
		kept := lo.Filter(acts, func(a *Activity, _ int) bool {
			if a.IsDone || a.Traveler == nil {
				return true
			}
			_, remove := ids[a.Traveler.ID]
			return !remove
		})
		if len(kept) == 0 {
			delete(v.byNode, node)
		} else {
			v.byNode[node] = kept
		}
	}
	for _, id := range travelerIDs {
		v.dequeueWaiting(id)
	}
}

// Update advances the vehicle by one time step, consuming link lengths
// at the per-service link speed and executing arrival activities
// node-by-node.
func (v *Vehicle) Update(t, dt float64) {
	budget := dt
	for {
		if v.current == nil || (v.current.IsDone && v.current.Type != ActivityStop) {
			v.NextActivity(t)
			continue
		}
		if v.current.Type == ActivityStop || budget <= 0 {
			break
		}
		if v.currentLink == nil {
			v.NextActivity(t)
			continue
		}
		speed := v.currentLink.Speed(v.serviceID)
		if speed <= 0 {
			log.Warnf("vehicle %s stalled: non-positive speed on %s", v.id, v.currentLink)
			break
		}
		v.Speed = speed
		if maxTravel := speed * budget; maxTravel < v.remainingLinkLength {
			v.remainingLinkLength -= maxTravel
			v.travel(maxTravel)
			break
		}
		budget -= v.remainingLinkLength / speed
		v.travel(v.remainingLinkLength)
		v.Advance()
		v.ExecuteActivitiesAtCurrentNode(t)
		if v.current.PathConsumed() && v.currentNode == v.current.Node {
			v.NextActivity(t)
		}
	}
}

// WaitingQueue returns the ids of travelers currently contending for
// boarding, in match commit order.
func (v *Vehicle) WaitingQueue() []string {
	q := make([]string, len(v.waitingQueue))
	copy(q, v.waitingQueue)
	return q
}

// Attach registers a vehicle observer.
func (v *Vehicle) Attach(o Observer) {
	v.observers = append(v.observers, o)
}

// Notify informs every observer of the vehicle state at time t.
func (v *Vehicle) Notify(t float64) {
	for _, o := range v.observers {
		o.NotifyVehicle(t, v)
	}
}

func (v *Vehicle) travel(dist float64) {
	v.distance += dist
	for _, tr := range v.passengers {
		tr.UpdateDistance(dist)
	}
}

func (v *Vehicle) board(tr *traveler.Traveler) {
	v.passengers[tr.ID] = tr
	tr.SetStateInsideVehicle(v)
}

func (v *Vehicle) enqueueWaiting(id string) {
	for _, q := range v.waitingQueue {
		if q == id {
			return
		}
	}
	v.waitingQueue = append(v.waitingQueue, id)
}

func (v *Vehicle) dequeueWaiting(id string) {
	for i, q := range v.waitingQueue {
		if q == id {
			v.waitingQueue = append(v.waitingQueue[:i], v.waitingQueue[i+1:]...)
			return
		}
	}
}
