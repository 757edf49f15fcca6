package testutil

import (
	"fmt"
	"time"

	"totopredict/domain/entities"
)

// CreateTestDraw creates a valid draw dated three days apart per draw number
func CreateTestDraw(drawNo int64, additional int, numbers ...int) *entities.HistoricalDraw {
	if len(numbers) == 0 {
		numbers = []int{1, 12, 23, 34, 45, 46}
	}
	return &entities.HistoricalDraw{
		DrawNo:           drawNo,
		DrawDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(drawNo)*3),
		WinningNumbers:   numbers,
		AdditionalNumber: additional,
		PrizeAmount:      100000000,
	}
}

// CreateTestPrediction creates a prediction with stats consistent with its numbers
func CreateTestPrediction(id string, basedOn int64, createdAt time.Time, numbers ...int) *entities.Prediction {
	if len(numbers) == 0 {
		numbers = []int{2, 9, 17, 26, 33, 41}
	}

	var stats entities.PredictionStats
	for _, n := range numbers {
		stats.Sum += n
		if n%2 == 0 {
			stats.EvenCount++
		}
		if n <= 24 {
			stats.LowCount++
		}
	}
	stats.OddCount = len(numbers) - stats.EvenCount
	stats.HighCount = len(numbers) - stats.LowCount

	return &entities.Prediction{
		ID:              id,
		Numbers:         numbers,
		Stats:           stats,
		ConfidenceScore: 0.42,
		Iterations:      10000,
		AcceptedCount:   4200,
		BasedOnDrawNo:   basedOn,
		CreatedAt:       createdAt.UTC().Truncate(time.Microsecond),
	}
}

// PredictionID returns a deterministic identifier for fixtures
func PredictionID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}
