// Package task orchestrates the simulation: it owns the clock and the
// component handles and drives every step to completion, single
// threaded.
package task

import (
	"time"

	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/congestion"
	"github.com/assuntaDC/mnms-go/decision"
	"github.com/assuntaDC/mnms-go/demand"
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
	"github.com/assuntaDC/mnms-go/graph"
	"github.com/assuntaDC/mnms-go/metrics"
	"github.com/assuntaDC/mnms-go/mobility"
)

// Context holds all the state of one simulation run.
type Context struct {
	clock     *clock.Clock
	graph     graph.Provider
	demand    demand.Manager
	planner   decision.Planner
	model     decision.Model
	services  []mobility.Service
	byService map[string]mobility.Service

	estimator congestion.Estimator // nil disables crowding records
	publisher vehicle.Observer     // nil disables event publishing
	metrics   *metrics.Collector

	travelers []*traveler.Traveler
	unserved  int
}

// NewContext wires a simulation run. Estimator and publisher are
// optional; everything else is required.
func NewContext(
	ck *clock.Clock,
	g graph.Provider,
	dm demand.Manager,
	planner decision.Planner,
	model decision.Model,
	services []mobility.Service,
	estimator congestion.Estimator,
	publisher vehicle.Observer,
	collector *metrics.Collector,
) *Context {
	c := &Context{
		clock:     ck,
		graph:     g,
		demand:    dm,
		planner:   planner,
		model:     model,
		services:  services,
		byService: make(map[string]mobility.Service, len(services)),
		estimator: estimator,
		publisher: publisher,
		metrics:   collector,
	}
	for _, s := range services {
		c.byService[s.ID()] = s
	}
	return c
}

// Travelers returns every traveler that entered the simulation so far.
func (c *Context) Travelers() []*traveler.Traveler {
	return c.travelers
}

// Unserved returns how many travelers no service could carry.
func (c *Context) Unserved() int {
	return c.unserved
}

// Step advances the simulation by one tick: pull new departures, plan
// and match them, move every vehicle, then run service maintenance.
func (c *Context) Step() {
	started := time.Now()
	t, dt := c.clock.T, c.clock.DT

	for _, tr := range c.demand.NextDepartures(t, t+dt) {
		tr.Attach(&travelerMonitor{metrics: c.metrics})
		c.travelers = append(c.travelers, tr)
		c.planAndMatch(tr, t, dt)
	}

	inService := 0
	for _, s := range c.services {
		for _, v := range s.Fleet().OrderedVehicles() {
			v.Update(t, dt)
			v.Notify(t + dt)
		}
		inService += s.Fleet().Len()
	}
	c.metrics.VehiclesInService.Set(float64(inService))

	for _, s := range c.services {
		beforeIDs := make(map[string]struct{}, s.Fleet().Len())
		for id := range s.Fleet().Vehicles() {
			beforeIDs[id] = struct{}{}
		}
		launched := s.StepMaintenance(t, dt)
		for _, v := range launched {
			if c.publisher != nil {
				v.Attach(c.publisher)
			}
			if c.estimator != nil && v.Shared() {
				v.Attach(&congestionMonitor{estimator: c.estimator})
			}
		}
		c.metrics.Departures.Add(float64(len(launched)))
		retired := 0
		for id := range beforeIDs {
			if s.Fleet().Vehicle(id) == nil {
				retired++
			}
		}
		c.metrics.Retirements.Add(float64(retired))
		s.PeriodicMaintenance(t)
	}

	c.metrics.StepDuration.Observe(time.Since(started).Seconds())
	c.clock.Tick()
}

// planAndMatch picks a path for a new traveler and commits it to the
// owning service, falling back across the remaining candidates on
// rejection or unreachability.
func (c *Context) planAndMatch(tr *traveler.Traveler, t, dt float64) {
	candidates := c.planner.CandidatePaths(tr.ID, tr.Origin, tr.Destination, t)
	for len(candidates) > 0 {
		p := c.model.ChoosePath(candidates, tr.ID, t)
		if p == nil {
			break
		}
		candidates = discard(candidates, p)
		svc := c.byService[p.Service]
		if svc == nil {
			log.Warnf("traveler %s: no service %q for candidate path", tr.ID, p.Service)
			continue
		}
		dropNode := p.Nodes[len(p.Nodes)-1]
		tr.Path = p.Nodes
		if wait := svc.Request(tr, dropNode, t); wait >= mobility.Unreachable {
			continue
		}
		accepted, _ := svc.Matching(mobility.Request{Traveler: tr, DropNode: dropNode}, t, dt)
		if accepted {
			c.metrics.MatchesAccepted.Inc()
			return
		}
		c.metrics.MatchesRejected.Inc()
	}
	c.unserved++
	log.Debugf("traveler %s could not be served at %s", tr.ID, clock.Format(t))
}

func discard(paths []*decision.Path, p *decision.Path) []*decision.Path {
	out := paths[:0]
	for _, q := range paths {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}

// Run drives the clock to the end of the simulated interval.
func (c *Context) Run() {
	log.Infof("simulation start: %s, %d steps of %vs",
		clock.Format(c.clock.T), c.clock.END_STEP-c.clock.START_STEP, c.clock.DT)
	for !c.clock.Done() {
		c.Step()
	}
	log.Infof("simulation end: %s, %d travelers, %d unserved",
		clock.Format(c.clock.T), len(c.travelers), c.unserved)
}
