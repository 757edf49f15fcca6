package testhelpers

import (
	"context"

	"totopredict/domain/entities"
	"totopredict/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Save(ctx context.Context, draw *entities.HistoricalDraw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) GetByDrawNo(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error) {
	args := m.Called(ctx, drawNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HistoricalDraw), args.Error(1)
}

func (m *MockDrawRepository) GetLatest(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.HistoricalDraw), args.Error(1)
}

func (m *MockDrawRepository) GetPage(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.HistoricalDraw), args.Int(1), args.Error(2)
}

func (m *MockDrawRepository) GetNextAfter(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error) {
	args := m.Called(ctx, drawNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HistoricalDraw), args.Error(1)
}

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Save(ctx context.Context, prediction *entities.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id string) (*entities.Prediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetUnevaluated(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Prediction), args.Error(1)
}

// MockAccuracyRepository is a mock implementation of AccuracyRepository
type MockAccuracyRepository struct {
	mock.Mock
}

func (m *MockAccuracyRepository) Save(ctx context.Context, record *entities.AccuracyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAccuracyRepository) GetByPrediction(ctx context.Context, predictionID string) (*entities.AccuracyRecord, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AccuracyRecord), args.Error(1)
}

func (m *MockAccuracyRepository) GetAll(ctx context.Context, limit int) ([]*entities.AccuracyRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AccuracyRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordPrediction(confidence float64, usedFallback bool, iterations int, durationSeconds float64) {
	m.Called(confidence, usedFallback, iterations, durationSeconds)
}

func (m *MockMetricsRecorder) RecordAccuracy(matchCount int, additionalMatch bool) {
	m.Called(matchCount, additionalMatch)
}

func (m *MockMetricsRecorder) RecordDrawRecorded() {
	m.Called()
}
