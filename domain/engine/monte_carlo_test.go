package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"totopredict/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 2, 18, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg Config, seed uint64) *Engine {
	t.Helper()

	e, err := New(cfg,
		WithRand(rand.New(rand.NewPCG(seed, seed+1))),
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "prediction-1" }),
	)
	require.NoError(t, err)
	return e
}

func sampleHistory() []*entities.HistoricalDraw {
	return []*entities.HistoricalDraw{
		draw(4143, 2, 4, 22, 24, 30, 33),
		draw(4142, 3, 8, 15, 28, 37, 43),
		draw(4141, 4, 5, 13, 22, 24, 30),
		draw(4140, 1, 11, 19, 26, 38, 49),
		draw(4139, 7, 12, 22, 31, 40, 45),
	}
}

func assertValidCombination(t *testing.T, cfg Config, numbers []int) {
	t.Helper()

	require.Len(t, numbers, cfg.DrawSize)
	assert.True(t, slices.IsSorted(numbers), "numbers must be ascending: %v", numbers)
	for i, n := range numbers {
		assert.GreaterOrEqual(t, n, cfg.RangeMin)
		assert.LessOrEqual(t, n, cfg.RangeMax)
		if i > 0 {
			assert.NotEqual(t, numbers[i-1], n, "duplicate number in %v", numbers)
		}
	}
}

func TestEngine_Generate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Iterations = 2000
	e := newTestEngine(t, cfg, 1)
	lastDraw := []int{2, 4, 22, 24, 30, 33}

	prediction, err := e.Generate(context.Background(), lastDraw, sampleHistory())
	require.NoError(t, err)

	assertValidCombination(t, cfg, prediction.Numbers)
	assert.True(t, NewGoldenZone(cfg).Accepts(prediction.Numbers, lastDraw))
	assert.Equal(t, "prediction-1", prediction.ID)
	assert.Equal(t, fixedTime, prediction.CreatedAt)
	assert.Equal(t, 2000, prediction.Iterations)
	assert.False(t, prediction.UsedFallback)
	assert.Greater(t, prediction.AcceptedCount, 0)
	assert.LessOrEqual(t, prediction.AcceptedCount, 2000)
	assert.InDelta(t, float64(prediction.AcceptedCount)/2000, prediction.ConfidenceScore, 1e-12)
	assert.GreaterOrEqual(t, prediction.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, prediction.ConfidenceScore, 1.0)
	assert.Equal(t, Summarize(prediction.Numbers, cfg.LowMax), prediction.Stats)
}

func TestEngine_Generate_NoHistory(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Iterations = 500
	e := newTestEngine(t, cfg, 2)

	prediction, err := e.Generate(context.Background(), nil, nil)
	require.NoError(t, err)
	assertValidCombination(t, cfg, prediction.Numbers)
}

func TestEngine_GenerateWithIterations_InvalidArguments(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig(), 3)

	tests := []struct {
		name       string
		lastDraw   []int
		iterations int
		wantErr    error
	}{
		{name: "zero iterations", iterations: 0, wantErr: ErrInvalidConfiguration},
		{name: "negative iterations", iterations: -5, wantErr: ErrInvalidConfiguration},
		{name: "last draw too long", lastDraw: []int{1, 2, 3, 4, 5, 6, 7}, iterations: 10, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prediction, err := e.GenerateWithIterations(context.Background(), tt.lastDraw, nil, tt.iterations)
			assert.Nil(t, prediction)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEngine_Generate_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 4} {
		cfg := DefaultConfig()
		cfg.Iterations = 1000
		cfg.Workers = workers

		first, err := newTestEngine(t, cfg, 42).Generate(context.Background(), nil, sampleHistory())
		require.NoError(t, err)
		second, err := newTestEngine(t, cfg, 42).Generate(context.Background(), nil, sampleHistory())
		require.NoError(t, err)

		assert.Equal(t, first.Numbers, second.Numbers, "workers=%d", workers)
		assert.Equal(t, first.AcceptedCount, second.AcceptedCount, "workers=%d", workers)
	}
}

func TestEngine_Generate_ParallelWorkers(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Iterations = 1001 // Uneven split across workers
	cfg.Workers = 4
	e := newTestEngine(t, cfg, 5)
	lastDraw := []int{2, 4, 22, 24, 30, 33}

	prediction, err := e.Generate(context.Background(), lastDraw, sampleHistory())
	require.NoError(t, err)

	assertValidCombination(t, cfg, prediction.Numbers)
	assert.True(t, NewGoldenZone(cfg).Accepts(prediction.Numbers, lastDraw))
	assert.Equal(t, 1001, prediction.Iterations)
	assert.InDelta(t, float64(prediction.AcceptedCount)/1001, prediction.ConfidenceScore, 1e-12)
}

func TestEngine_Generate_MoreWorkersThanIterations(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Workers = 8
	e := newTestEngine(t, cfg, 6)

	prediction, err := e.GenerateWithIterations(context.Background(), nil, nil, 3)
	require.NoError(t, err)
	assertValidCombination(t, cfg, prediction.Numbers)
	assert.Equal(t, 3, prediction.Iterations)
}

func TestEngine_Generate_FallbackHasZeroConfidence(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	zone := NewGoldenZone(cfg)
	fallbacks := 0

	// A single iteration is rejected often enough to reach the fallback across seeds
	for seed := uint64(0); seed < 200; seed++ {
		e := newTestEngine(t, cfg, seed)
		prediction, err := e.GenerateWithIterations(context.Background(), nil, nil, 1)
		require.NoError(t, err)

		assertValidCombination(t, cfg, prediction.Numbers)
		assert.True(t, zone.Accepts(prediction.Numbers, nil))

		if prediction.UsedFallback {
			fallbacks++
			assert.Equal(t, 0.0, prediction.ConfidenceScore)
			assert.Equal(t, 0, prediction.AcceptedCount)
		} else {
			assert.Equal(t, 1.0, prediction.ConfidenceScore)
		}
	}

	assert.Greater(t, fallbacks, 0, "expected at least one run to use the fallback")
}

func TestEngine_Generate_FallbackExhausted(t *testing.T) {
	t.Parallel()

	// Only the number 1 is low, so at least two low numbers is unsatisfiable
	cfg := DefaultConfig()
	cfg.LowMax = 1
	cfg.FallbackMaxAttempts = 25
	e := newTestEngine(t, cfg, 7)

	prediction, err := e.GenerateWithIterations(context.Background(), nil, nil, 50)
	assert.Nil(t, prediction)
	assert.ErrorIs(t, err, ErrFallbackExhausted)
}

func TestEngine_Generate_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, DefaultConfig(), 8)
	prediction, err := e.Generate(ctx, nil, sampleHistory())
	assert.Nil(t, prediction)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)

	var cancelled *CancelledError
	require.True(t, errors.As(err, &cancelled))
	assert.Equal(t, 0, cancelled.Completed)
	assert.Equal(t, DefaultConfig().Iterations, cancelled.Requested)
}

func TestEngine_Generate_MedianSumPolicy(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Iterations = 1000
	cfg.SelectionPolicy = SelectionMedianSum
	cfg.Workers = 2
	e := newTestEngine(t, cfg, 9)

	prediction, err := e.Generate(context.Background(), nil, sampleHistory())
	require.NoError(t, err)
	assertValidCombination(t, cfg, prediction.Numbers)
	assert.True(t, NewGoldenZone(cfg).Accepts(prediction.Numbers, nil))
	assert.False(t, prediction.UsedFallback)
}

func TestEngine_Choose(t *testing.T) {
	t.Parallel()

	results := []partitionResult{
		{
			first: &acceptedCandidate{index: 0, numbers: []int{1, 2, 3, 4, 5, 6}},
			all: []acceptedCandidate{
				{index: 0, numbers: []int{1, 2, 3, 4, 5, 6}},
				{index: 3, numbers: []int{10, 14, 20, 26, 31, 49}},
			},
		},
		{
			first: &acceptedCandidate{index: 7, numbers: []int{40, 41, 42, 44, 46, 48}},
			all: []acceptedCandidate{
				{index: 7, numbers: []int{40, 41, 42, 44, 46, 48}},
			},
		},
	}

	t.Run("first policy returns earliest candidate", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, DefaultConfig(), 10)
		numbers, err := e.choose(results)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, numbers)
	})

	t.Run("first policy skips empty partitions", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, DefaultConfig(), 11)
		numbers, err := e.choose([]partitionResult{{}, results[1]})
		require.NoError(t, err)
		assert.Equal(t, []int{40, 41, 42, 44, 46, 48}, numbers)
	})

	t.Run("median policy returns candidate closest to median sum", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.SelectionPolicy = SelectionMedianSum
		e := newTestEngine(t, cfg, 12)

		// Sums are 21, 150 and 261
		numbers, err := e.choose(results)
		require.NoError(t, err)
		assert.Equal(t, []int{10, 14, 20, 26, 31, 49}, numbers)
	})
}
