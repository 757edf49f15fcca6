package observability

// Metric name prefixes
const (
	MetricPrefix = "totopredict"
)

// Metric names
const (
	// Prediction metrics
	PredictionsGeneratedTotal = MetricPrefix + ".predictions.generated_total"
	PredictionConfidence      = MetricPrefix + ".predictions.confidence"
	PredictionDuration        = MetricPrefix + ".predictions.duration"
	MonteCarloIterationsTotal = MetricPrefix + ".monte_carlo.iterations_total"

	// Accuracy metrics
	AccuracyEvaluationsTotal = MetricPrefix + ".accuracy.evaluations_total"

	// Draw metrics
	DrawsRecordedTotal = MetricPrefix + ".draws.recorded_total"
)

// Label keys
const (
	LabelFallback        = "fallback"
	LabelMatchCount      = "match_count"
	LabelAdditionalMatch = "additional_match"
)
