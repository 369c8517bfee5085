package mobility

import (
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
)

// Plan-edit primitives. They mutate a vehicle's plan while preserving
// the concatenated node sequence from the current position to the
// terminus, except at the splice point. A node that cannot be located
// on the remaining route is plan corruption and aborts the step.

// remainingCurrentPath returns the not-yet-traversed path of the
// current activity, starting with the partially consumed current link.
func remainingCurrentPath(v *vehicle.Vehicle) []vehicle.PathItem {
	var rem []vehicle.PathItem
	if link := v.CurrentLink(); link != nil && v.RemainingLinkLength() > 0 {
		rem = append(rem, vehicle.PathItem{Link: link, Length: v.RemainingLinkLength()})
	}
	return append(rem, v.CurrentActivity().UnconsumedPath()...)
}

// RemoveActivityByIndex removes the activity at the given index of the
// flattened plan (current activity first). Removing the current
// activity splices its remaining path, partially consumed first link
// included, onto the follower; removing a pending one prepends its
// full path to the follower.
func RemoveActivityByIndex(v *vehicle.Vehicle, index int) {
	hasCurrent := v.CurrentActivity() != nil
	if hasCurrent && index == 0 {
		if v.PendingLen() == 0 {
			log.Panicf("vehicle %s: cannot remove current activity without a follower", v.ID())
		}
		rem := remainingCurrentPath(v)
		follower := v.PendingAt(0)
		follower.ModifyPath(append(rem, follower.Path...))
		v.ClearCurrent()
		return
	}
	pendIdx := index
	if hasCurrent {
		pendIdx--
	}
	if pendIdx < 0 || pendIdx >= v.PendingLen() {
		log.Panicf("vehicle %s: no activity at plan index %d", v.ID(), index)
	}
	removed := v.RemovePendingAt(pendIdx)
	if pendIdx >= v.PendingLen() {
		log.Panicf("vehicle %s: removed activity at plan index %d has no follower", v.ID(), index)
	}
	follower := v.PendingAt(pendIdx)
	follower.ModifyPath(append(clonePath(removed.Path), follower.Path...))
}

// ModifyDropNode moves a traveler's drop-off to a new node before the
// pickup happened. No-op when the node is unchanged.
func ModifyDropNode(tr *traveler.Traveler, v *vehicle.Vehicle, newNode, oldNode string) {
	if newNode == oldNode {
		return
	}
	// Line-bound vehicles keep zero-path servings in the per-node
	// table: moving the drop is a remove plus a re-insert, guarded by
	// the remaining route. The current node is already behind the
	// vehicle: its arrivals executed when it advanced in, so a serving
	// placed there would never run.
	if v.RemoveArrivalActivity(tr.ID, vehicle.ActivityServing) {
		ci, ni := -1, -1
		for i, n := range v.LinePathNodes() {
			if ci < 0 && n == v.CurrentNode() {
				ci = i
			}
			if n == newNode {
				ni = i
			}
		}
		if ni < 0 || ni <= ci {
			log.Panicf("vehicle %s: drop node %s not on remaining route", v.ID(), newNode)
		}
		v.AddActivities([]*vehicle.Activity{vehicle.NewServing(newNode, nil, tr)})
		return
	}
	plan := v.Plan()
	for i, a := range plan {
		if a.Type == vehicle.ActivityServing && !a.IsDone && a.Traveler != nil && a.Traveler.ID == tr.ID {
			RemoveActivityByIndex(v, i)
			break
		}
	}
	insertServingAt(tr, v, newNode)
}

// RemoveTravelerActivities deletes a traveler's pickup and serving
// from a vehicle's plan, pickup first, before re-routing the traveler.
func RemoveTravelerActivities(tr *traveler.Traveler, v *vehicle.Vehicle) {
	v.RemoveActivitiesOf([]string{tr.ID})
	foundPickup := v.RemoveArrivalActivity(tr.ID, vehicle.ActivityPickup)
	foundServing := v.RemoveArrivalActivity(tr.ID, vehicle.ActivityServing)
	if foundPickup || foundServing {
		return
	}
	for _, typ := range []vehicle.ActivityType{vehicle.ActivityPickup, vehicle.ActivityServing} {
		for i, a := range v.Plan() {
			if a.Type == typ && !a.IsDone && a.Traveler != nil && a.Traveler.ID == tr.ID {
				RemoveActivityByIndex(v, i)
				break
			}
		}
	}
}

// insertServingAt splits the path-carrying activity whose path crosses
// the node: the new Serving takes the prefix, the split activity keeps
// the suffix and its target.
func insertServingAt(tr *traveler.Traveler, v *vehicle.Vehicle, node string) {
	if cur := v.CurrentActivity(); cur != nil {
		rem := remainingCurrentPath(v)
		if j := splitIndex(rem, node); j >= 0 {
			serving := vehicle.NewServing(node, rem[:j:j], tr)
			cur.ModifyPath(clonePath(rem[j:]))
			v.InsertPendingAt(0, cur)
			v.InsertPendingAt(0, serving)
			v.ClearCurrent()
			return
		}
	}
	for i := 0; i < v.PendingLen(); i++ {
		a := v.PendingAt(i)
		if j := splitIndex(a.Path, node); j >= 0 {
			serving := vehicle.NewServing(node, a.Path[:j:j], tr)
			a.ModifyPath(clonePath(a.Path[j:]))
			v.InsertPendingAt(i, serving)
			return
		}
	}
	log.Panicf("vehicle %s: drop node %s not on remaining route", v.ID(), node)
}

// splitIndex returns the position where a path crosses a node: the
// items before it reach the node exactly. -1 when the node is not on
// the path.
func splitIndex(path []vehicle.PathItem, node string) int {
	for j, it := range path {
		if it.Link.From == node {
			return j
		}
	}
	if n := len(path); n > 0 && path[n-1].Link.To == node {
		return n
	}
	return -1
}
