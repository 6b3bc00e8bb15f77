package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	PredictionRuns     prometheus.Counter
	CellPredictions    prometheus.Counter
	PredictionDuration prometheus.Histogram

	// Weather acquisition metrics.
	WeatherObservations  *prometheus.CounterVec // labels: source={live,simulated}
	WeatherFetchErrors   prometheus.Counter
	WeatherFetchDuration prometheus.Histogram

	// Scoring and alerting metrics.
	ModelLoaded        prometheus.Gauge
	AlertsPublished    *prometheus.CounterVec // labels: level={WARNING,CRITICAL}
	AlertPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PredictionRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "prediction_runs_total",
			Help:      "Total region-wide prediction passes.",
		}),
		CellPredictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "cell_predictions_total",
			Help:      "Total per-cell risk assessments produced.",
		}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "prediction_duration_seconds",
			Help:      "Duration of a complete region prediction pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherObservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "weather_observations_total",
			Help:      "Weather observations by provenance.",
		}, []string{"source"}),
		WeatherFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "weather_fetch_errors_total",
			Help:      "Live weather fetch failures absorbed by the simulation fallback.",
		}),
		WeatherFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "weather_fetch_duration_seconds",
			Help:      "Live weather API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_risk",
			Name:      "model_loaded",
			Help:      "1 when the trained classifier is loaded, 0 in fallback mode.",
		}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "alerts_published_total",
			Help:      "Region alerts published to the alerts topic by level.",
		}, []string{"level"}),
		AlertPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "alert_publish_errors_total",
			Help:      "Failed attempts to publish a region alert.",
		}),
	}

	prometheus.MustRegister(
		m.PredictionRuns,
		m.CellPredictions,
		m.PredictionDuration,
		m.WeatherObservations,
		m.WeatherFetchErrors,
		m.WeatherFetchDuration,
		m.ModelLoaded,
		m.AlertsPublished,
		m.AlertPublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PredictionRuns:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "prediction_runs_total"}),
		CellPredictions:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "cell_predictions_total"}),
		PredictionDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "prediction_duration_seconds"}),
		WeatherObservations:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "weather_observations_total"}, []string{"source"}),
		WeatherFetchErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "weather_fetch_errors_total"}),
		WeatherFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "weather_fetch_duration_seconds"}),
		ModelLoaded:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_risk", Name: "model_loaded"}),
		AlertsPublished:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "alerts_published_total"}, []string{"level"}),
		AlertPublishErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "alert_publish_errors_total"}),
	}
}
