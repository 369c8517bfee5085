// Package congestion estimates per-node vehicle crowding from the
// records appended while the simulation runs. The estimator is built
// once by the supervisor and passed as a handle to whoever needs a
// prediction.
package congestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Record is one crowding observation at a node.
type Record struct {
	T         float64
	VehicleID string
	Onboard   int
	Capacity  int
	Index     float64 // onboard/capacity at observation time
	Node      string
}

// Estimator accumulates records and answers smoothed per-node queries.
type Estimator interface {
	Record(r Record)
	Predict(node string) float64
}

// MovingAverageEstimator averages the indexes recorded at a node over
// a trailing time window. Nodes without data predict zero.
type MovingAverageEstimator struct {
	window float64
	byNode map[string][]Record
	all    []Record
	lastT  float64 // newest recorded time, the window anchor
}

var _ Estimator = (*MovingAverageEstimator)(nil)

// NewMovingAverageEstimator creates an estimator with a trailing
// window in seconds.
func NewMovingAverageEstimator(window float64) *MovingAverageEstimator {
	if window <= 0 {
		log.Panicf("non-positive congestion window %v", window)
	}
	return &MovingAverageEstimator{
		window: window,
		byNode: make(map[string][]Record),
	}
}

// Record appends an observation and drops the ones that fell out of
// the window at that node.
func (e *MovingAverageEstimator) Record(r Record) {
	e.all = append(e.all, r)
	if r.T > e.lastT {
		e.lastT = r.T
	}
	e.byNode[r.Node] = e.prune(append(e.byNode[r.Node], r))
}

func (e *MovingAverageEstimator) prune(recs []Record) []Record {
	cutoff := e.lastT - e.window
	i := 0
	for i < len(recs) && recs[i].T < cutoff {
		i++
	}
	return recs[i:]
}

// Predict returns the moving-average congestion index at a node, zero
// when nothing was recorded within the window. A node that stopped
// receiving records ages out as the rest of the simulation records on.
func (e *MovingAverageEstimator) Predict(node string) float64 {
	recs := e.prune(e.byNode[node])
	e.byNode[node] = recs
	if len(recs) == 0 {
		delete(e.byNode, node)
		return 0
	}
	return stat.Mean(lo.Map(recs, func(r Record, _ int) float64 { return r.Index }), nil)
}

// WriteCSV dumps every recorded observation, oldest first.
func (e *MovingAverageEstimator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"TIME", "VEHICLE", "ONBOARD", "CAPACITY", "INDEX", "NODE"}); err != nil {
		return err
	}
	for _, r := range e.all {
		rec := []string{
			strconv.FormatFloat(r.T, 'f', -1, 64),
			r.VehicleID,
			strconv.Itoa(r.Onboard),
			strconv.Itoa(r.Capacity),
			strconv.FormatFloat(r.Index, 'f', -1, 64),
			r.Node,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush congestion records: %w", err)
	}
	return nil
}
