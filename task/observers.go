package task

import (
	"github.com/assuntaDC/mnms-go/congestion"
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
	"github.com/assuntaDC/mnms-go/metrics"
)

// travelerMonitor feeds traveler state transitions into the metrics
// collector.
type travelerMonitor struct {
	metrics *metrics.Collector
}

var _ traveler.Observer = (*travelerMonitor)(nil)

func (m *travelerMonitor) NotifyTraveler(t float64, tr *traveler.Traveler) {
	switch tr.State() {
	case traveler.StateInsideVehicle:
		m.metrics.Boardings.Inc()
	case traveler.StateDropped:
		m.metrics.Dropoffs.Inc()
	}
}

// congestionMonitor appends a crowding record on every vehicle
// notification.
type congestionMonitor struct {
	estimator congestion.Estimator
}

var _ vehicle.Observer = (*congestionMonitor)(nil)

func (m *congestionMonitor) NotifyVehicle(t float64, v *vehicle.Vehicle) {
	capacity := v.Capacity()
	if capacity <= 0 {
		return
	}
	onboard := len(v.Passengers())
	m.estimator.Record(congestion.Record{
		T:         t,
		VehicleID: v.ID(),
		Onboard:   onboard,
		Capacity:  capacity,
		Index:     float64(onboard) / float64(capacity),
		Node:      v.CurrentNode(),
	})
}
