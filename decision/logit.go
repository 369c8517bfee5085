package decision

import (
	"math"

	"github.com/samber/lo"

	"github.com/assuntaDC/mnms-go/utils/randengine"
)

// LogitModel draws a path with probability proportional to
// exp(-theta * cost). When every weight underflows to zero, theta is
// halved until the distribution becomes usable.
type LogitModel struct {
	theta  float64
	engine *randengine.Engine
}

var _ Model = (*LogitModel)(nil)

// NewLogitModel creates a logit chooser with scale theta > 0.
func NewLogitModel(theta float64, engine *randengine.Engine) *LogitModel {
	if theta <= 0 {
		log.Panicf("non-positive logit theta %v", theta)
	}
	return &LogitModel{theta: theta, engine: engine}
}

func (m *LogitModel) ChoosePath(paths []*Path, travelerID string, t float64) *Path {
	if len(paths) == 0 {
		return nil
	}
	theta := m.theta
	for {
		weights := lo.Map(paths, func(p *Path, _ int) float64 {
			return math.Exp(-theta * p.Cost)
		})
		if lo.Sum(weights) > 0 {
			return paths[m.engine.DiscreteDistribution(weights)]
		}
		theta /= 2
	}
}
