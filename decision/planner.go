package decision

import "fmt"

// Planner produces the candidate paths a traveler chooses among.
// Path computation itself (shortest paths on the multi-layer network)
// lives outside the engine; the simulator consumes precomputed
// candidates.
type Planner interface {
	CandidatePaths(travelerID, origin, destination string, t float64) []*Path
}

// TablePlanner serves candidates from a precomputed
// origin/destination table, the form the input loader produces.
type TablePlanner struct {
	m map[string][]*Path
}

var _ Planner = (*TablePlanner)(nil)

// NewTablePlanner creates an empty table.
func NewTablePlanner() *TablePlanner {
	return &TablePlanner{m: make(map[string][]*Path)}
}

func odKey(origin, destination string) string {
	return fmt.Sprintf("%s->%s", origin, destination)
}

// Add registers a candidate path for an origin/destination pair.
func (p *TablePlanner) Add(origin, destination string, path *Path) {
	k := odKey(origin, destination)
	p.m[k] = append(p.m[k], path)
}

func (p *TablePlanner) CandidatePaths(travelerID, origin, destination string, t float64) []*Path {
	paths := p.m[odKey(origin, destination)]
	out := make([]*Path, len(paths))
	copy(out, paths)
	return out
}
