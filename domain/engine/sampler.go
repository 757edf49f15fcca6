package engine

// Random is the randomness the engine consumes. *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// Weight returns the selection weight of a number seen count times.
// The +1 keeps numbers that never appeared selectable.
func Weight(count, maxFreq int) float64 {
	return float64(count)/float64(max(maxFreq, 1)) + 1
}

// SelectOne draws one number from pool with probability proportional to its weight.
// The pool is not modified.
func SelectOne(pool []int, freq FrequencyTable, maxFreq int, rnd Random) (int, error) {
	i, err := selectIndex(pool, freq, maxFreq, rnd)
	if err != nil {
		return 0, err
	}
	return pool[i], nil
}

// selectIndex scans cumulative weights and returns the index of the first
// number whose running weight exceeds the scaled uniform draw
func selectIndex(pool []int, freq FrequencyTable, maxFreq int, rnd Random) (int, error) {
	if len(pool) == 0 {
		return 0, ErrEmptyPool
	}

	total := 0.0
	for _, n := range pool {
		total += Weight(freq.Count(n), maxFreq)
	}

	r := rnd.Float64() * total
	for i, n := range pool {
		w := Weight(freq.Count(n), maxFreq)
		if r < w {
			return i, nil
		}
		r -= w
	}

	// Floating point residue can leave r just above the last weight
	return len(pool) - 1, nil
}
