package mobility

// Line is a fixed node sequence served by a transit mode, with a
// pre-sorted timetable of departure times. Immutable once loaded; the
// only mutable part is the forward-only timetable cursor.
type Line struct {
	ID        string
	Nodes     []string
	Capacity  int
	Timetable []float64 // departure times, seconds since midnight

	cursor int
}

// NewLine builds a line. Nodes and timetable must be non-empty and the
// timetable pre-sorted.
func NewLine(id string, nodes []string, capacity int, timetable []float64) *Line {
	if len(nodes) < 2 {
		log.Panicf("line %s needs at least two stops", id)
	}
	if capacity <= 0 {
		log.Panicf("line %s needs a positive capacity", id)
	}
	for i := 1; i < len(timetable); i++ {
		if timetable[i] < timetable[i-1] {
			log.Panicf("line %s timetable not sorted at entry %d", id, i)
		}
	}
	return &Line{ID: id, Nodes: nodes, Capacity: capacity, Timetable: timetable}
}

// Start returns the first stop of the line.
func (l *Line) Start() string {
	return l.Nodes[0]
}

// Terminus returns the last stop of the line.
func (l *Line) Terminus() string {
	return l.Nodes[len(l.Nodes)-1]
}

// NodeIndex returns the position of a node along the line, or -1.
func (l *Line) NodeIndex(node string) int {
	for i, n := range l.Nodes {
		if n == node {
			return i
		}
	}
	return -1
}

// NextDeparture peeks the next scheduled departure. ok is false once
// the timetable is exhausted, a normal terminal state.
func (l *Line) NextDeparture() (float64, bool) {
	if l.cursor >= len(l.Timetable) {
		return 0, false
	}
	return l.Timetable[l.cursor], true
}

// AdvanceDeparture moves the cursor one departure forward.
func (l *Line) AdvanceDeparture() {
	if l.cursor < len(l.Timetable) {
		l.cursor++
	}
}

// MeanHeadway returns the average interval between departures, or a
// full service day for a single-departure timetable.
func (l *Line) MeanHeadway() float64 {
	if len(l.Timetable) < 2 {
		return Unreachable
	}
	span := l.Timetable[len(l.Timetable)-1] - l.Timetable[0]
	return span / float64(len(l.Timetable)-1)
}
