package decision

import (
	"context"
	"sort"

	"github.com/assuntaDC/mnms-go/behavior"
	"github.com/assuntaDC/mnms-go/congestion"
	"github.com/assuntaDC/mnms-go/utils/randengine"
)

// BehaviorCongestionModel scores each candidate path at its line
// boardings: the predicted crowding of the boarding node and the
// traveler's persisted preference for the line at that time of day.
// Paths are ranked per criterion, combined by rank sum, and one of the
// top-k is drawn uniformly.
type BehaviorCongestionModel struct {
	topK      int
	estimator congestion.Estimator
	store     behavior.Store
	engine    *randengine.Engine
}

var _ Model = (*BehaviorCongestionModel)(nil)

// NewBehaviorCongestionModel wires the estimator and store handles.
func NewBehaviorCongestionModel(topK int, est congestion.Estimator, store behavior.Store, engine *randengine.Engine) *BehaviorCongestionModel {
	if topK <= 0 {
		log.Panicf("non-positive top-k %d", topK)
	}
	return &BehaviorCongestionModel{topK: topK, estimator: est, store: store, engine: engine}
}

func (m *BehaviorCongestionModel) ChoosePath(paths []*Path, travelerID string, t float64) *Path {
	if len(paths) == 0 {
		return nil
	}
	if len(paths) == 1 {
		return paths[0]
	}

	n := len(paths)
	cost := make([]float64, n)
	ci := make([]float64, n)
	bi := make([]float64, n)
	for i, p := range paths {
		cost[i] = p.Cost
		ci[i], bi[i] = m.scoreBoardings(p, travelerID, t)
	}

	// Rank sum: cheaper, less crowded and more preferred all rank
	// lower. Ties keep candidate order.
	total := make([]int, n)
	for i, r := range rank(cost, true) {
		total[i] += r
	}
	for i, r := range rank(ci, true) {
		total[i] += r
	}
	for i, r := range rank(bi, false) {
		total[i] += r
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return total[order[a]] < total[order[b]] })

	k := m.topK
	if k > n {
		k = n
	}
	chosen := order[m.engine.Intn(k)]
	log.Debugf("traveler %s: path %d of %d chosen (rank sum %d)", travelerID, chosen, n, total[chosen])
	return paths[chosen]
}

// scoreBoardings sums, over every line boarding of the path, the
// predicted congestion at the boarding node and the traveler's
// behavioral index for the line.
func (m *BehaviorCongestionModel) scoreBoardings(p *Path, travelerID string, t float64) (ci, bi float64) {
	prev := ""
	for _, node := range p.Nodes {
		label := lineLabel(node)
		if label == "" {
			continue
		}
		if label != prev {
			ci += m.estimator.Predict(node)
			bi += m.store.Index(context.Background(), travelerID, label, t)
			prev = label
		}
	}
	return ci, bi
}

// rank returns each value's position in its sorted order, ascending or
// descending, ties resolved by index.
func rank(values []float64, ascending bool) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if ascending {
			return values[idx[a]] < values[idx[b]]
		}
		return values[idx[a]] > values[idx[b]]
	})
	ranks := make([]int, len(values))
	for pos, i := range idx {
		ranks[i] = pos
	}
	return ranks
}
