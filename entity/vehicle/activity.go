package vehicle

import (
	"fmt"

	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/graph"
)

// ActivityType enumerates the activity variants. The set is closed:
// execution effects are dispatched by a single switch per operation.
type ActivityType int32

const (
	ActivityStop ActivityType = iota
	ActivityRepositioning
	ActivityPickup
	ActivityServing
)

func (t ActivityType) String() string {
	switch t {
	case ActivityStop:
		return "STOP"
	case ActivityRepositioning:
		return "REPOSITIONING"
	case ActivityPickup:
		return "PICKUP"
	case ActivityServing:
		return "SERVING"
	default:
		return fmt.Sprintf("ActivityType(%d)", int32(t))
	}
}

// IsMoving reports whether the vehicle moves during the activity.
func (t ActivityType) IsMoving() bool {
	return t != ActivityStop
}

// Execution priority when several activities share a node: drop-offs
// and line continuation run before new pickups so capacity is freed
// first. Lower runs first.
func (t ActivityType) priority() int {
	switch t {
	case ActivityRepositioning:
		return 0
	case ActivityServing:
		return 1
	case ActivityPickup:
		return 2
	default:
		return 3
	}
}

// PathItem is one link of an activity path and the length to travel on
// it (the full link length, except for a partially consumed first link
// after a plan edit).
type PathItem struct {
	Link   *graph.Link
	Length float64
}

// Activity is one scheduled unit of vehicle behavior bound to a target
// node. A non-Stop activity with a non-empty path always ends exactly
// at its target node; an activity with an empty path is complete at
// creation.
type Activity struct {
	Type     ActivityType
	Node     string
	Path     []PathItem
	Traveler *traveler.Traveler
	IsDone   bool

	cursor int // next path item to consume
}

// NewStop creates an idle activity at a node. The path, when given,
// carries the remaining route so plan edits can splice into it.
func NewStop(node string, path []PathItem) *Activity {
	return &Activity{Type: ActivityStop, Node: node, Path: path}
}

// NewRepositioning creates a moving activity with no traveler effect.
func NewRepositioning(node string, path []PathItem) *Activity {
	return &Activity{Type: ActivityRepositioning, Node: node, Path: path}
}

// NewPickup creates a boarding activity. Line-bound services insert it
// with a nil path into the per-node table of the matched vehicle.
func NewPickup(node string, path []PathItem, tr *traveler.Traveler) *Activity {
	return &Activity{Type: ActivityPickup, Node: node, Path: path, Traveler: tr}
}

// NewServing creates a drop-off activity.
func NewServing(node string, path []PathItem, tr *traveler.Traveler) *Activity {
	return &Activity{Type: ActivityServing, Node: node, Path: path, Traveler: tr}
}

func (a *Activity) String() string {
	return fmt.Sprintf("Activity(%s, '%s')", a.Type, a.Node)
}

// ModifyPath rebinds the activity path, retargets the activity to the
// path end and resets the path cursor.
func (a *Activity) ModifyPath(path []PathItem) {
	a.Path = path
	if len(path) > 0 {
		a.Node = path[len(path)-1].Link.To
	}
	a.cursor = 0
}

// NextPathItem consumes the next path item.
func (a *Activity) NextPathItem() (PathItem, bool) {
	if a.cursor >= len(a.Path) {
		return PathItem{}, false
	}
	it := a.Path[a.cursor]
	a.cursor++
	return it, true
}

// UnconsumedPath returns the path items not yet traversed.
func (a *Activity) UnconsumedPath() []PathItem {
	if a.cursor >= len(a.Path) {
		return nil
	}
	return a.Path[a.cursor:]
}

// PathConsumed reports whether every path item has been consumed.
func (a *Activity) PathConsumed() bool {
	return a.cursor >= len(a.Path)
}

// PathNodes converts the activity path to a node sequence. An empty
// path maps to the given current node.
func (a *Activity) PathNodes(current string) []string {
	if len(a.Path) == 0 {
		return []string{current}
	}
	nodes := make([]string, 0, len(a.Path)+1)
	for _, it := range a.Path {
		nodes = append(nodes, it.Link.From)
	}
	return append(nodes, a.Path[len(a.Path)-1].Link.To)
}

// start applies the effects of beginning the activity.
func (a *Activity) start(v *Vehicle) {
	switch a.Type {
	case ActivityPickup:
		if a.Traveler != nil {
			a.Traveler.SetStateWaitingVehicle(v)
		}
	case ActivityServing:
		// Personal and ride services board the traveler as the serving
		// leg begins; line-bound boarding goes through Pickup instead.
		if !v.shared && a.Traveler != nil && !a.Traveler.IsInsideVehicle() {
			v.board(a.Traveler)
		}
	}
}

// execute applies the completion effects of the activity at time t and
// reports whether it completed. A Pickup blocked by capacity or by the
// boarding policy does not complete.
func (a *Activity) execute(v *Vehicle, t float64) bool {
	switch a.Type {
	case ActivityPickup:
		return a.executePickup(v, t)
	case ActivityServing:
		a.executeServing(v, t)
	}
	return true
}

func (a *Activity) executePickup(v *Vehicle, t float64) bool {
	tr := a.Traveler
	if tr == nil || tr.IsInsideVehicle() {
		return true
	}
	if len(v.passengers) >= v.capacity {
		tr.SetStateWaitingVehicle(v)
		log.Debugf("vehicle %s full, traveler %s left waiting at %s", v.id, tr.ID, v.currentNode)
		return false
	}
	if v.shared && !v.policy.Admit(v.waitingQueue, tr.ID) {
		tr.SetStateWaitingVehicle(v)
		return false
	}
	v.board(tr)
	v.dequeueWaiting(tr.ID)
	tr.Notify(t)
	log.Debugf("traveler %s boarded vehicle %s at %s (%d/%d)",
		tr.ID, v.id, v.currentNode, len(v.passengers), v.capacity)
	return true
}

func (a *Activity) executeServing(v *Vehicle, t float64) {
	tr := a.Traveler
	if tr == nil {
		return
	}
	if _, ok := v.passengers[tr.ID]; !ok {
		return
	}
	v.dequeueWaiting(tr.ID)
	delete(v.passengers, tr.ID)

	// Reposition the traveler relative to the vehicle, not the
	// traveler's original path index: re-routing may have changed it.
	node := v.currentNode
	if v.currentLink != nil && v.currentNode != v.currentLink.From {
		node = v.currentLink.To
	}
	tr.SetPosition(node, 0)
	tr.SetStateDropped()
	tr.Notify(t)
	log.Debugf("traveler %s dropped by vehicle %s at %s (%d/%d)",
		tr.ID, v.id, node, len(v.passengers), v.capacity)

	if v.personal {
		tr.ParkPersonalVehicle(v.serviceID, node)
		v.lastDroppedOff = tr
	}
}
