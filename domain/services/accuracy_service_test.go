package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"totopredict/domain/entities"
	"totopredict/domain/events"
	"totopredict/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccuracyService_Compare(t *testing.T) {
	t.Parallel()

	draw := createTestDraw(4144, 45, 3, 8, 15, 28, 37, 43)

	tests := []struct {
		name           string
		numbers        []int
		wantMatches    int
		wantAdditional bool
		wantLabel      string
	}{
		{name: "no match", numbers: []int{1, 2, 4, 5, 6, 7}, wantLabel: "No Match"},
		{name: "three hits", numbers: []int{3, 8, 15, 20, 21, 22}, wantMatches: 3, wantLabel: "Hit 3"},
		{name: "additional only", numbers: []int{1, 2, 4, 5, 6, 45}, wantAdditional: true, wantLabel: "Hit 0 + Add"},
		{name: "five plus additional", numbers: []int{3, 8, 15, 28, 37, 45}, wantMatches: 5, wantAdditional: true, wantLabel: "Hit 5 + Add"},
		{name: "jackpot", numbers: []int{3, 8, 15, 28, 37, 43}, wantMatches: 6, wantLabel: "Hit 6"},
	}

	service := NewAccuracyService(nil, nil, nil, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := service.Compare(createTestPrediction("p", 4143, tt.numbers...), draw)
			assert.Equal(t, "p", record.PredictionID)
			assert.Equal(t, int64(4144), record.DrawNo)
			assert.Equal(t, tt.wantMatches, record.MatchCount)
			assert.Equal(t, tt.wantAdditional, record.AdditionalMatch)
			assert.Equal(t, tt.wantLabel, record.Label())
		})
	}
}

func TestAccuracyService_EvaluatePending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drawRepo := new(testhelpers.MockDrawRepository)
	predictionRepo := new(testhelpers.MockPredictionRepository)
	accuracyRepo := new(testhelpers.MockAccuracyRepository)
	publisher := new(testhelpers.MockEventPublisher)
	metrics := new(testhelpers.MockMetricsRecorder)

	ready := createTestPrediction("ready", 4143, 3, 8, 15, 20, 21, 22)
	waiting := createTestPrediction("waiting", 4144, 1, 2, 3, 4, 5, 6)

	predictionRepo.On("GetUnevaluated", ctx, 50).Return([]*entities.Prediction{ready, waiting}, nil)
	drawRepo.On("GetNextAfter", ctx, int64(4143)).Return(createTestDraw(4144, 45, 3, 8, 15, 28, 37, 43), nil)
	drawRepo.On("GetNextAfter", ctx, int64(4144)).Return(nil, nil)
	accuracyRepo.On("Save", ctx, mock.MatchedBy(func(r *entities.AccuracyRecord) bool {
		return r.PredictionID == "ready" && r.DrawNo == 4144 && r.MatchCount == 3
	})).Return(nil)
	publisher.On("Publish", events.AccuracyRecordedEvent{
		PredictionID: "ready",
		DrawNo:       4144,
		MatchCount:   3,
		Label:        "Hit 3",
	}).Return(nil)
	metrics.On("RecordAccuracy", 3, false).Return()

	service := NewAccuracyService(drawRepo, predictionRepo, accuracyRepo, publisher, metrics)

	records, err := service.EvaluatePending(ctx, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ready", records[0].PredictionID)

	drawRepo.AssertExpectations(t)
	predictionRepo.AssertExpectations(t)
	accuracyRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestAccuracyService_EvaluatePending_SaveFails(t *testing.T) {
	t.Parallel()

	drawRepo := new(testhelpers.MockDrawRepository)
	predictionRepo := new(testhelpers.MockPredictionRepository)
	accuracyRepo := new(testhelpers.MockAccuracyRepository)
	publisher := new(testhelpers.MockEventPublisher)

	predictionRepo.On("GetUnevaluated", mock.Anything, 10).Return([]*entities.Prediction{createTestPrediction("p", 1, 1, 2, 3, 4, 5, 6)}, nil)
	drawRepo.On("GetNextAfter", mock.Anything, int64(1)).Return(createTestDraw(2, 7, 1, 2, 3, 10, 11, 12), nil)
	accuracyRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))

	service := NewAccuracyService(drawRepo, predictionRepo, accuracyRepo, publisher, nil)

	records, err := service.EvaluatePending(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save accuracy for prediction p")
	assert.Empty(t, records)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestAccuracyService_HitRates(t *testing.T) {
	t.Parallel()

	record := func(matches int) *entities.AccuracyRecord {
		return &entities.AccuracyRecord{MatchCount: matches, EvaluatedAt: time.Now()}
	}

	tests := []struct {
		name    string
		records []*entities.AccuracyRecord
		want    []entities.HitRate
	}{
		{
			name:    "no records",
			records: []*entities.AccuracyRecord{},
			want: []entities.HitRate{
				{Label: "Hit 3+", Count: 0, Percentage: "0%"},
				{Label: "Hit 4+", Count: 0, Percentage: "0%"},
				{Label: "Hit 5+", Count: 0, Percentage: "0%"},
				{Label: "Hit 6", Count: 0, Percentage: "0%"},
			},
		},
		{
			name:    "mixed records",
			records: []*entities.AccuracyRecord{record(0), record(3), record(4), record(6), record(1), record(2)},
			want: []entities.HitRate{
				{Label: "Hit 3+", Count: 3, Percentage: "50.0%"},
				{Label: "Hit 4+", Count: 2, Percentage: "33.3%"},
				{Label: "Hit 5+", Count: 1, Percentage: "16.7%"},
				{Label: "Hit 6", Count: 1, Percentage: "16.7%"},
			},
		},
		{
			name:    "no hits among records",
			records: []*entities.AccuracyRecord{record(0), record(2)},
			want: []entities.HitRate{
				{Label: "Hit 3+", Count: 0, Percentage: "0.0%"},
				{Label: "Hit 4+", Count: 0, Percentage: "0.0%"},
				{Label: "Hit 5+", Count: 0, Percentage: "0.0%"},
				{Label: "Hit 6", Count: 0, Percentage: "0.0%"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			accuracyRepo := new(testhelpers.MockAccuracyRepository)
			accuracyRepo.On("GetAll", mock.Anything, 0).Return(tt.records, nil)

			service := NewAccuracyService(nil, nil, accuracyRepo, nil, nil)
			got, err := service.HitRates(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
