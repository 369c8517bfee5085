package vehicle

import "sort"

// Fleet owns the vehicles of one mobility service.
type Fleet struct {
	serviceID string
	capacity  int
	shared    bool
	personal  bool
	vehicles  map[string]*Vehicle
}

// NewFleet creates an empty fleet for a service. Every vehicle created
// through it inherits the service id, capacity and sharing mode.
func NewFleet(serviceID string, capacity int, shared, personal bool) *Fleet {
	return &Fleet{
		serviceID: serviceID,
		capacity:  capacity,
		shared:    shared,
		personal:  personal,
		vehicles:  make(map[string]*Vehicle),
	}
}

// ServiceID returns the owning service id.
func (f *Fleet) ServiceID() string { return f.serviceID }

// Create spawns a vehicle at a node with the given initial activities.
func (f *Fleet) Create(node string, activities []*Activity) *Vehicle {
	return f.CreateWithCapacity(node, f.capacity, activities)
}

// CreateWithCapacity spawns a vehicle with an explicit capacity, for
// services whose lines carry per-line capacities.
func (f *Fleet) CreateWithCapacity(node string, capacity int, activities []*Activity) *Vehicle {
	if capacity <= 0 {
		log.Panicf("fleet %s: non-positive vehicle capacity %d", f.serviceID, capacity)
	}
	v := New(node, capacity, f.serviceID, f.personal, f.shared, activities)
	f.vehicles[v.ID()] = v
	log.Debugf("fleet %s created vehicle %s at %s", f.serviceID, v.ID(), node)
	return v
}

// Adopt re-registers a vehicle that previously left the fleet, such as
// a parked personal vehicle reclaimed by its owner.
func (f *Fleet) Adopt(v *Vehicle) {
	f.vehicles[v.ID()] = v
}

// Delete retires a vehicle from the fleet.
func (f *Fleet) Delete(id string) {
	if _, ok := f.vehicles[id]; !ok {
		log.Panicf("fleet %s has no vehicle %s", f.serviceID, id)
	}
	delete(f.vehicles, id)
	log.Debugf("fleet %s retired vehicle %s", f.serviceID, id)
}

// Vehicle returns a vehicle by id, or nil.
func (f *Fleet) Vehicle(id string) *Vehicle {
	return f.vehicles[id]
}

// Vehicles returns the live vehicles keyed by id.
func (f *Fleet) Vehicles() map[string]*Vehicle {
	return f.vehicles
}

// OrderedVehicles returns the live vehicles in creation order, so a
// seeded run replays identically. Ids are decimal counter values:
// shorter before longer, then lexicographic.
func (f *Fleet) OrderedVehicles() []*Vehicle {
	vs := make([]*Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool {
		a, b := vs[i].id, vs[j].id
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return vs
}

// Len returns the number of live vehicles.
func (f *Fleet) Len() int {
	return len(f.vehicles)
}
