// Package decision picks one path per traveler among the candidates
// produced by the planner.
package decision

import "strings"

// Path is one candidate itinerary: its node sequence, the mobility
// service carrying it and its generalized cost (travel time plus
// estimated waits).
type Path struct {
	Nodes   []string
	Service string
	Cost    float64
}

// Model is the path-choice contract: exactly one chosen path, or nil
// when no candidate is acceptable.
type Model interface {
	ChoosePath(paths []*Path, travelerID string, t float64) *Path
}

// lineLabel extracts the line a node belongs to from its layered id
// (e.g. METRO_L1_DIR1_S3 -> METRO_L1). Nodes outside transit layers
// have no label.
func lineLabel(node string) string {
	parts := strings.SplitN(node, "_", 3)
	if len(parts) < 2 {
		return ""
	}
	switch strings.ToUpper(parts[0]) {
	case "METRO", "TRAM", "BUS":
		return strings.ToUpper(parts[0] + "_" + parts[1])
	}
	return ""
}
