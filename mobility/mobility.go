// Package mobility implements the dispatch strategies that put
// vehicles in service and commit travelers to them. Every strategy
// satisfies the Service contract the supervisor drives each step.
package mobility

import (
	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/entity/traveler"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
)

// Unreachable is the quote returned when no vehicle exists or will
// exist before service ends. It means "not served today", never an
// error.
const Unreachable = clock.Day

// Request carries a committed ride request: the traveler and where
// they want to be dropped.
type Request struct {
	Traveler *traveler.Traveler
	DropNode string
}

// Service is the contract every dispatch strategy implements.
//
// Request quotes without committing; the tentative match is cached by
// traveler id and silently discarded if Matching never follows.
// Matching commits the cached match under a capacity re-check, since
// the vehicle's load may have changed since the quote. A committed
// match is undone only through the plan-edit primitives.
type Service interface {
	ID() string
	Fleet() *vehicle.Fleet

	// Request returns the estimated wait until pickup, or Unreachable.
	Request(tr *traveler.Traveler, dropNode string, t float64) float64
	// Matching reports whether the cached match was accepted and
	// whether the pickup is shared-mode (line-bound boarding).
	Matching(req Request, t, dt float64) (accepted, sharedPickup bool)
	// StepMaintenance runs once per step and returns newly launched
	// vehicles so the caller can attach observers and track them.
	StepMaintenance(t, dt float64) []*vehicle.Vehicle
	// PeriodicMaintenance is a low-frequency upkeep hook.
	PeriodicMaintenance(t float64)
}
