// Package demand produces travelers entering the simulation, pulled by
// the supervisor in non-decreasing departure time order.
package demand

import (
	"sort"

	"github.com/assuntaDC/mnms-go/entity/traveler"
)

// Manager is the demand intake contract: each call returns the
// travelers departing in [tStart, tEnd), in non-decreasing departure
// time order, consuming them.
type Manager interface {
	NextDepartures(tStart, tEnd float64) []*traveler.Traveler
}

// BaseManager serves departures from an in-memory slice. Backing store
// loaders build one after reading everything upfront.
type BaseManager struct {
	travelers []*traveler.Traveler
	cursor    int
}

// NewBaseManager wraps pre-built travelers, sorting them by departure
// time.
func NewBaseManager(travelers []*traveler.Traveler) *BaseManager {
	sorted := make([]*traveler.Traveler, len(travelers))
	copy(sorted, travelers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DepartureTime < sorted[j].DepartureTime
	})
	return &BaseManager{travelers: sorted}
}

func (m *BaseManager) NextDepartures(tStart, tEnd float64) []*traveler.Traveler {
	var out []*traveler.Traveler
	for m.cursor < len(m.travelers) {
		tr := m.travelers[m.cursor]
		if tr.DepartureTime >= tEnd {
			break
		}
		m.cursor++
		if tr.DepartureTime < tStart {
			log.Warnf("traveler %s departure %v before window start %v, skipped", tr.ID, tr.DepartureTime, tStart)
			continue
		}
		out = append(out, tr)
	}
	return out
}

// Len returns the number of travelers not yet consumed.
func (m *BaseManager) Len() int {
	return len(m.travelers) - m.cursor
}
