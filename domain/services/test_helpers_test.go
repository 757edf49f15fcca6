package services

import (
	"math/rand/v2"
	"testing"
	"time"

	"totopredict/domain/engine"
	"totopredict/domain/entities"

	"github.com/stretchr/testify/require"
)

// Helper to create a test draw
func createTestDraw(drawNo int64, additional int, numbers ...int) *entities.HistoricalDraw {
	return &entities.HistoricalDraw{
		DrawNo:           drawNo,
		DrawDate:         time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(drawNo-4140)*3),
		WinningNumbers:   numbers,
		AdditionalNumber: additional,
		PrizeAmount:      100000000,
	}
}

// Helper to create a test prediction
func createTestPrediction(id string, basedOn int64, numbers ...int) *entities.Prediction {
	return &entities.Prediction{
		ID:            id,
		Numbers:       numbers,
		BasedOnDrawNo: basedOn,
		CreatedAt:     time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
	}
}

func newSeededEngine(t *testing.T, iterations int) *engine.Engine {
	t.Helper()

	cfg := engine.DefaultConfig()
	cfg.Iterations = iterations
	eng, err := engine.New(cfg,
		engine.WithRand(rand.New(rand.NewPCG(1, 2))),
		engine.WithIDGenerator(func() string { return "pred-1" }),
	)
	require.NoError(t, err)
	return eng
}
