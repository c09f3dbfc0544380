// Package metrics registers the forecasting pipeline's Prometheus
// instruments at import time and exposes small Record*/Update* helpers
// so call sites never touch prometheus types directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Match Data Store (C1)
	CSVFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_csv_fetch_total",
			Help: "Total historical CSV fetch attempts by league/season and status",
		},
		[]string{"league", "season", "status"},
	)

	CSVRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_csv_rows_skipped_total",
			Help: "Total malformed CSV rows skipped during ingestion",
		},
		[]string{"league", "season"},
	)

	// ELO Engine (C2)
	EloUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecaster_elo_updates_total",
			Help: "Total ELO rating updates applied",
		},
	)

	// xG Kalman Filter (C3)
	KalmanObservationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecaster_kalman_observations_total",
			Help: "Total xG observations fed into the per-team Kalman filters",
		},
	)

	// Feature Builder (C4)
	FeatureRowsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecaster_feature_rows_emitted_total",
			Help: "Total feature rows emitted by the walk-forward builder",
		},
	)

	FeatureRowsSkippedInsufficientHistory = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecaster_feature_rows_skipped_total",
			Help: "Total matches skipped for insufficient per-team history",
		},
	)

	// Ensemble Predictor (C5)
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_predictions_total",
			Help: "Total predictions emitted, by final pick",
		},
		[]string{"pick"},
	)

	AdjusterTriggeredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_adjuster_triggered_total",
			Help: "Total times a post-processing adjuster fired, by name",
		},
		[]string{"adjuster"},
	)

	// Brier Tracker (C6)
	RollingBrierScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecaster_rolling_brier_score",
			Help: "Rolling average Brier score over recorded predictions",
		},
	)

	ArgmaxAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecaster_argmax_accuracy",
			Help: "Rolling argmax pick accuracy over recorded predictions",
		},
	)

	PendingPredictions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecaster_pending_predictions",
			Help: "Predictions recorded but not yet resolved with a result",
		},
	)

	// Feedback Loop (C7)
	FeedbackIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_feedback_ingested_total",
			Help: "Total new match results ingested by the feedback loop, by source",
		},
		[]string{"source"},
	)

	FeedbackNameCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecaster_feedback_name_near_miss_total",
			Help: "Total near-miss team-name collisions observed under exact-match resolution",
		},
	)

	// Object storage mirror
	ObjectStorePushTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_objectstore_push_total",
			Help: "Total best-effort pushes to the S3-compatible mirror, by status",
		},
		[]string{"status"},
	)

	// Errors, cross-cutting
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecaster_errors_total",
			Help: "Total errors by component and kind (TransientIO/ParseError/StateError/Fatal/UserError)",
		},
		[]string{"component", "kind"},
	)
)

// RecordError records an error of the given spec kind from component.
func RecordError(component, kind string) {
	ErrorsTotal.WithLabelValues(component, kind).Inc()
}

// RecordPrediction records a completed prediction's final pick.
func RecordPrediction(pick string) {
	PredictionsTotal.WithLabelValues(pick).Inc()
}

// RecordAdjuster records that a named post-processing adjuster fired.
func RecordAdjuster(name string) {
	AdjusterTriggeredTotal.WithLabelValues(name).Inc()
}

// UpdateCalibration refreshes the rolling calibration gauges.
func UpdateCalibration(brier, accuracy float64, pending int) {
	RollingBrierScore.Set(brier)
	ArgmaxAccuracy.Set(accuracy)
	PendingPredictions.Set(float64(pending))
}
