// Package traveler holds the view of a traveler the engine reads and
// writes. Traveler lifecycle is owned by the demand side; vehicles keep
// travelers by id and travelers keep a non-owning back-reference to
// their vehicle.
package traveler

import "fmt"

// State is the boarding state of a traveler.
type State int32

const (
	StateIdle State = iota
	StateWaitingVehicle
	StateInsideVehicle
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateWaitingVehicle:
		return "waiting_vehicle"
	case StateInsideVehicle:
		return "inside_vehicle"
	case StateDropped:
		return "dropped"
	default:
		return "idle"
	}
}

// VehicleRef is the non-owning reference a traveler keeps to the
// vehicle it waits for or rides.
type VehicleRef interface {
	ID() string
	ServiceID() string
}

// Observer is notified on traveler state transitions.
type Observer interface {
	NotifyTraveler(t float64, tr *Traveler)
}

// Traveler is the per-person state the engine touches.
type Traveler struct {
	ID            string
	Origin        string
	Destination   string
	DepartureTime float64

	Path []string // chosen path (node sequence), set by the decision model

	CurrentNode         string
	RemainingLinkLength float64
	Distance            float64

	state   State
	vehicle VehicleRef

	// Parking record for personal vehicles, so a later leg can reclaim
	// the same vehicle instance where it was left.
	ParkedService string
	ParkedNode    string

	observers []Observer
}

// New creates a traveler at its origin.
func New(id, origin, destination string, departure float64) *Traveler {
	return &Traveler{
		ID:            id,
		Origin:        origin,
		Destination:   destination,
		DepartureTime: departure,
		CurrentNode:   origin,
	}
}

func (u *Traveler) String() string {
	return fmt.Sprintf("Traveler('%s', '%s')", u.ID, u.state)
}

// State returns the current boarding state.
func (u *Traveler) State() State {
	return u.state
}

// Vehicle returns the vehicle the traveler waits for or rides, or nil.
func (u *Traveler) Vehicle() VehicleRef {
	return u.vehicle
}

// IsInsideVehicle reports whether the traveler is onboard.
func (u *Traveler) IsInsideVehicle() bool {
	return u.state == StateInsideVehicle
}

// SetStateWaitingVehicle marks the traveler as waiting for a vehicle.
func (u *Traveler) SetStateWaitingVehicle(v VehicleRef) {
	u.state = StateWaitingVehicle
	u.vehicle = v
}

// SetStateInsideVehicle marks the traveler as onboard.
func (u *Traveler) SetStateInsideVehicle(v VehicleRef) {
	u.state = StateInsideVehicle
	u.vehicle = v
}

// SetStateDropped marks the traveler as dropped off and clears the
// vehicle back-reference.
func (u *Traveler) SetStateDropped() {
	u.state = StateDropped
	u.vehicle = nil
}

// SetPosition moves the traveler to a node.
func (u *Traveler) SetPosition(node string, remainingLinkLength float64) {
	u.CurrentNode = node
	u.RemainingLinkLength = remainingLinkLength
}

// UpdateDistance accumulates traveled distance while onboard.
func (u *Traveler) UpdateDistance(dist float64) {
	u.Distance += dist
}

// NodeIndexInPath returns the index of a node in the chosen path, or -1.
func (u *Traveler) NodeIndexInPath(node string) int {
	for i, n := range u.Path {
		if n == node {
			return i
		}
	}
	return -1
}

// ParkPersonalVehicle records where the traveler left a personal
// vehicle so a later trip leg can reclaim it.
func (u *Traveler) ParkPersonalVehicle(serviceID, node string) {
	log.Debugf("traveler %s parked %s vehicle at %s", u.ID, serviceID, node)
	u.ParkedService = serviceID
	u.ParkedNode = node
}

// Attach registers a state transition observer.
func (u *Traveler) Attach(o Observer) {
	u.observers = append(u.observers, o)
}

// Notify informs every observer of the current state.
func (u *Traveler) Notify(t float64) {
	for _, o := range u.observers {
		o.NotifyTraveler(t, u)
	}
}
