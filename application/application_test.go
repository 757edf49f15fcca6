package application_test

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"totopredict/application"
	"totopredict/domain/engine"
	"totopredict/domain/entities"
	"totopredict/domain/events"
	"totopredict/domain/services"
	"totopredict/infrastructure"
	"totopredict/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	store       *memory.Store
	uowFactory  *infrastructure.UnitOfWorkFactory
	predictions application.PredictionHandler
	draws       application.DrawHandler
	worker      *application.AccuracyWorker
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := engine.DefaultConfig()
	cfg.Iterations = 500
	eng, err := engine.New(cfg, engine.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)

	store := memory.NewStore()
	uowFactory := infrastructure.NewUnitOfWorkFactory(store, infrastructure.NewNoopEventPublisher())

	return &testApp{
		store:       store,
		uowFactory:  uowFactory,
		predictions: application.NewPredictionHandler(uowFactory, eng, nil),
		draws:       application.NewDrawHandler(uowFactory, cfg.RangeMin, cfg.RangeMax, nil),
		worker:      application.NewAccuracyWorker(uowFactory, nil, time.Hour),
	}
}

func historicalDraw(drawNo int64, additional int, numbers ...int) *entities.HistoricalDraw {
	return &entities.HistoricalDraw{
		DrawNo:           drawNo,
		DrawDate:         time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(drawNo-4140)*3),
		WinningNumbers:   numbers,
		AdditionalNumber: additional,
		PrizeAmount:      100_000_00,
	}
}

func seedHistory(t *testing.T, app *testApp) {
	t.Helper()

	added, err := app.draws.SeedDraws(context.Background(), []*entities.HistoricalDraw{
		historicalDraw(4141, 36, 4, 5, 13, 22, 24, 30),
		historicalDraw(4142, 49, 3, 8, 15, 28, 37, 43),
		historicalDraw(4143, 49, 2, 4, 22, 24, 30, 33),
	})
	require.NoError(t, err)
	require.Equal(t, 3, added)
}

func evaluatedCount(t *testing.T, app *testApp) int {
	t.Helper()

	uow := app.uowFactory.Create()
	require.NoError(t, uow.Begin(context.Background()))
	defer uow.Rollback()

	records, err := uow.AccuracyRepository().GetAll(context.Background(), 0)
	require.NoError(t, err)
	return len(records)
}

func TestPredictionHandler_GenerateAndList(t *testing.T) {
	app := newTestApp(t)
	seedHistory(t, app)
	ctx := context.Background()

	prediction, err := app.predictions.GeneratePrediction(ctx)
	require.NoError(t, err)
	assert.Len(t, prediction.Numbers, 6)
	assert.Equal(t, int64(4143), prediction.BasedOnDrawNo)
	assert.Equal(t, 500, prediction.Iterations)

	overlap := 0
	for _, n := range prediction.Numbers {
		if n == 2 || n == 4 || n == 22 || n == 24 || n == 30 || n == 33 {
			overlap++
		}
	}
	assert.LessOrEqual(t, overlap, 2, "prediction repeats too much of the last draw")

	recent, err := app.predictions.RecentPredictions(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, prediction.ID, recent[0].ID)
}

func TestPredictionHandler_GenerateWithoutHistory(t *testing.T) {
	app := newTestApp(t)

	prediction, err := app.predictions.GeneratePrediction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), prediction.BasedOnDrawNo)
	assert.Len(t, prediction.Numbers, 6)
}

func TestDrawHandler_RecordDraw(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	err := app.draws.RecordDraw(ctx, historicalDraw(4144, 45, 3, 3, 15, 28, 37, 43))
	assert.ErrorIs(t, err, services.ErrInvalidDraw)

	require.NoError(t, app.draws.RecordDraw(ctx, historicalDraw(4144, 45, 3, 8, 15, 28, 37, 43)))

	latest, err := app.draws.LatestDraws(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, int64(4144), latest[0].DrawNo)
}

func TestDrawHandler_SeedDrawsSkipsKnownDraws(t *testing.T) {
	app := newTestApp(t)
	seedHistory(t, app)
	ctx := context.Background()

	added, err := app.draws.SeedDraws(ctx, []*entities.HistoricalDraw{
		historicalDraw(4143, 1, 10, 11, 12, 13, 14, 15), // Already stored, left untouched
		historicalDraw(4144, 45, 3, 8, 15, 28, 37, 43),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	draws, total, err := app.draws.DrawHistory(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, draws, 4)
	assert.Equal(t, []int{2, 4, 22, 24, 30, 33}, draws[1].WinningNumbers)
}

func TestDrawHandler_SeedDrawsRejectsInvalidDraw(t *testing.T) {
	app := newTestApp(t)

	_, err := app.draws.SeedDraws(context.Background(), []*entities.HistoricalDraw{
		historicalDraw(4144, 45, 3, 8, 15, 28, 37, 43),
		historicalDraw(4145, 45, 3, 8, 15, 28, 37, 99),
	})
	assert.ErrorIs(t, err, services.ErrInvalidDraw)

	latest, err := app.draws.LatestDraws(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, latest, "a failed seed stores nothing")
}

func TestAccuracyWorker_EvaluateNow(t *testing.T) {
	app := newTestApp(t)
	seedHistory(t, app)
	ctx := context.Background()

	prediction, err := app.predictions.GeneratePrediction(ctx)
	require.NoError(t, err)

	// The following draw is not known yet
	evaluated, err := app.worker.EvaluateNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, evaluated)

	// Next draw repeats the prediction exactly
	next := historicalDraw(4144, 0, prediction.Numbers...)
	for n := 1; n <= 49; n++ {
		if !prediction.Contains(n) {
			next.AdditionalNumber = n
			break
		}
	}
	require.NoError(t, app.draws.RecordDraw(ctx, next))

	evaluated, err = app.worker.EvaluateNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)

	rates, err := app.predictions.AccuracySummary(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 4)
	for _, rate := range rates {
		assert.Equal(t, 1, rate.Count, rate.Label)
		assert.Equal(t, "100.0%", rate.Percentage, rate.Label)
	}

	// Already evaluated predictions are not scored twice
	evaluated, err = app.worker.EvaluateNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, evaluated)
}

func TestAccuracyWorker_TriggeredByRecordedDraw(t *testing.T) {
	app := newTestApp(t)
	application.RegisterApplicationSubscriptions(app.uowFactory, app.worker)
	seedHistory(t, app)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := app.predictions.GeneratePrediction(ctx)
	require.NoError(t, err)

	stop := app.worker.Start(ctx)
	defer stop()

	require.NoError(t, app.draws.RecordDraw(ctx, historicalDraw(4144, 45, 3, 8, 15, 28, 37, 43)))

	assert.Eventually(t, func() bool {
		return evaluatedCount(t, app) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAccuracyWorker_StopsOnStopFunc(t *testing.T) {
	app := newTestApp(t)

	stop := app.worker.Start(context.Background())
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestLoadDrawsFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "draws.json")
	require.NoError(t, os.WriteFile(valid, []byte(`[
		{"draw_no": 4143, "date": "2025-12-29", "winning_numbers": [2, 4, 22, 24, 30, 33], "additional_number": 49, "prize_amount": 125000000}
	]`), 0o600))

	draws, err := application.LoadDrawsFile(valid)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, int64(4143), draws[0].DrawNo)
	assert.Equal(t, time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), draws[0].DrawDate)
	assert.Equal(t, int64(125000000), draws[0].PrizeAmount)

	badDate := filepath.Join(dir, "bad_date.json")
	require.NoError(t, os.WriteFile(badDate, []byte(`[{"draw_no": 1, "date": "29/12/2025"}]`), 0o600))
	_, err = application.LoadDrawsFile(badDate)
	assert.ErrorContains(t, err, "invalid date")

	_, err = application.LoadDrawsFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadDrawsFile_BundledSeed(t *testing.T) {
	draws, err := application.LoadDrawsFile(filepath.Join("..", "data", "draws.json"))
	require.NoError(t, err)
	require.NotEmpty(t, draws)

	for _, draw := range draws {
		assert.NoError(t, draw.Validate(1, 49))
	}
}

func TestAssertEventType(t *testing.T) {
	event, err := application.AssertEventType[events.DrawRecordedEvent](events.DrawRecordedEvent{DrawNo: 7}, "DrawRecordedEvent")
	require.NoError(t, err)
	assert.Equal(t, int64(7), event.DrawNo)

	_, err = application.AssertEventType[events.DrawRecordedEvent](events.PredictionCreatedEvent{}, "DrawRecordedEvent")
	assert.ErrorContains(t, err, "prediction_created")
}
