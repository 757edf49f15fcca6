package observability

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"totopredict/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics and implements interfaces.MetricsRecorder
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	predictionsCounter   metric.Int64Counter
	confidenceHist       metric.Float64Histogram
	durationHist         metric.Float64Histogram
	iterationsCounter    metric.Int64Counter
	evaluationsCounter   metric.Int64Counter
	drawsRecordedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	return mp.start(exporter)
}

// start installs a meter provider that exports through exporter
func (mp *MetricsProvider) start(exporter sdkmetric.Exporter) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	return mp.startWithReader(res, sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	))
}

func (mp *MetricsProvider) startWithReader(res *resource.Resource, reader sdkmetric.Reader) error {
	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("totopredict")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.predictionsCounter, err = mp.meter.Int64Counter(
		PredictionsGeneratedTotal,
		metric.WithDescription("Total number of predictions generated"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create predictions counter: %w", err)
	}

	mp.confidenceHist, err = mp.meter.Float64Histogram(
		PredictionConfidence,
		metric.WithDescription("Fraction of Monte Carlo iterations that produced an accepted candidate"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.75, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create confidence histogram: %w", err)
	}

	mp.durationHist, err = mp.meter.Float64Histogram(
		PredictionDuration,
		metric.WithDescription("Duration of prediction generation in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction duration histogram: %w", err)
	}

	mp.iterationsCounter, err = mp.meter.Int64Counter(
		MonteCarloIterationsTotal,
		metric.WithDescription("Total number of Monte Carlo iterations run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create iterations counter: %w", err)
	}

	mp.evaluationsCounter, err = mp.meter.Int64Counter(
		AccuracyEvaluationsTotal,
		metric.WithDescription("Total number of predictions compared with a draw"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create accuracy evaluations counter: %w", err)
	}

	mp.drawsRecordedCounter, err = mp.meter.Int64Counter(
		DrawsRecordedTotal,
		metric.WithDescription("Total number of draws recorded"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws recorded counter: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordPrediction records a generated prediction
func (mp *MetricsProvider) RecordPrediction(confidence float64, usedFallback bool, iterations int, durationSeconds float64) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Bool(LabelFallback, usedFallback))

	mp.predictionsCounter.Add(ctx, 1, attrs)
	mp.confidenceHist.Record(ctx, confidence, attrs)
	mp.durationHist.Record(ctx, durationSeconds, attrs)
	mp.iterationsCounter.Add(ctx, int64(iterations))
}

// RecordAccuracy records a prediction compared with a draw
func (mp *MetricsProvider) RecordAccuracy(matchCount int, additionalMatch bool) {
	if !mp.isEnabled() {
		return
	}

	mp.evaluationsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelMatchCount, strconv.Itoa(matchCount)),
			attribute.Bool(LabelAdditionalMatch, additionalMatch),
		),
	)
}

// RecordDrawRecorded records a new draw
func (mp *MetricsProvider) RecordDrawRecorded() {
	if !mp.isEnabled() {
		return
	}

	mp.drawsRecordedCounter.Add(context.Background(), 1)
}

// isEnabled checks if instruments exist, which is false when disabled or export is "none"
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meterProvider != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
