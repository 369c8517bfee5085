package vehicle

// BoardingPolicy decides which waiting traveler may board when more
// candidates contend for a stop than remaining capacity allows.
type BoardingPolicy interface {
	// Admit reports whether the traveler may board given the current
	// waiting queue (ordered by match commit time).
	Admit(queue []string, travelerID string) bool
}

// FIFOPolicy boards travelers in strict arrival order. This is the
// default policy.
type FIFOPolicy struct{}

func (FIFOPolicy) Admit(queue []string, travelerID string) bool {
	return len(queue) == 0 || queue[0] == travelerID
}

// PositionalPolicy admits a traveler when its queue position keeps the
// selection probability p = 1 - (pos-1)/(N-1) at or above one half.
// This reproduces a legacy heuristic and must be selected explicitly.
type PositionalPolicy struct{}

func (PositionalPolicy) Admit(queue []string, travelerID string) bool {
	n := len(queue)
	if n <= 1 {
		return true
	}
	pos := -1
	for i, id := range queue {
		if id == travelerID {
			pos = i + 1 // the formula counts positions from 1
			break
		}
	}
	if pos < 0 {
		return true
	}
	p := 1 - float64(pos-1)/float64(n-1)
	return p >= 0.5
}
