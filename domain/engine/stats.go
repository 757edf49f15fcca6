package engine

import "totopredict/domain/entities"

// Summarize computes sum, parity split and low/high split of a combination.
// No distinctness or range validation is done.
func Summarize(candidate []int, lowMax int) entities.PredictionStats {
	var stats entities.PredictionStats
	for _, n := range candidate {
		stats.Sum += n
		if n%2 == 0 {
			stats.EvenCount++
		}
		if n <= lowMax {
			stats.LowCount++
		}
	}
	stats.OddCount = len(candidate) - stats.EvenCount
	stats.HighCount = len(candidate) - stats.LowCount
	return stats
}
