package engine

import "slices"

// GoldenZone holds the plausibility rules a candidate must satisfy
type GoldenZone struct {
	LowMax     int
	MinEven    int
	MaxEven    int
	MinLow     int
	MaxLow     int
	MaxOverlap int
}

// NewGoldenZone builds the filter from engine parameters
func NewGoldenZone(cfg Config) GoldenZone {
	return GoldenZone{
		LowMax:     cfg.LowMax,
		MinEven:    cfg.MinEven,
		MaxEven:    cfg.MaxEven,
		MinLow:     cfg.MinLow,
		MaxLow:     cfg.MaxLow,
		MaxOverlap: cfg.MaxOverlap,
	}
}

// Accepts reports whether candidate passes the parity, range and anti-repeat
// rules. Candidate order does not matter. The anti-repeat rule is skipped
// when lastDraw is empty.
func (g GoldenZone) Accepts(candidate, lastDraw []int) bool {
	evenCount, lowCount := 0, 0
	for _, n := range candidate {
		if n%2 == 0 {
			evenCount++
		}
		if n <= g.LowMax {
			lowCount++
		}
	}

	if evenCount < g.MinEven || evenCount > g.MaxEven {
		return false
	}
	if lowCount < g.MinLow || lowCount > g.MaxLow {
		return false
	}

	if len(lastDraw) > 0 {
		overlap := 0
		for _, n := range candidate {
			if slices.Contains(lastDraw, n) {
				overlap++
			}
		}
		if overlap > g.MaxOverlap {
			return false
		}
	}

	return true
}
