package prometheus

import (
	"time"

	"forecast-service/internal/forecast"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Forecast metrics
	ForecastOutcomesCounter *prometheus.CounterVec
	ModelFitDuration        *prometheus.HistogramVec
	BatchProductsGauge      prometheus.Gauge

	// Upstream catalog metrics
	UpstreamCallDuration *prometheus.HistogramVec
)

// InitMetrics registers the service metrics with reg using the given name prefix
func InitMetrics(prefix string, reg prometheus.Registerer) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ForecastOutcomesCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_outcomes_total",
			Help: "Total number of per-product forecast results by outcome",
		},
		[]string{"outcome"},
	)

	ModelFitDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_model_fit_duration_seconds",
			Help:    "Duration of demand model fit and projection in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"result"},
	)

	BatchProductsGauge = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_batch_products",
			Help: "Number of products in the most recent catalog-wide forecast",
		},
	)

	UpstreamCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_upstream_call_duration_seconds",
			Help:    "Duration of calls to the catalog source in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "result"},
	)
}

// RecordForecastOutcome increments the counter for a forecast outcome
func RecordForecastOutcome(outcome forecast.Outcome) {
	if ForecastOutcomesCounter == nil {
		return
	}
	ForecastOutcomesCounter.WithLabelValues(string(outcome)).Inc()
}

// RecordBatch records outcome counters and the size of a catalog-wide forecast
func RecordBatch(batch forecast.Batch) {
	for _, r := range batch.Results {
		RecordForecastOutcome(r.Status)
	}
	if BatchProductsGauge != nil {
		BatchProductsGauge.Set(float64(batch.TotalProducts))
	}
}

// TrackUpstreamCall returns a function that records the duration of a catalog call
func TrackUpstreamCall(resource string) func(startTime time.Time, err error) {
	return func(startTime time.Time, err error) {
		if UpstreamCallDuration == nil {
			return
		}
		UpstreamCallDuration.WithLabelValues(resource, resultLabel(err)).Observe(time.Since(startTime).Seconds())
	}
}

// InstrumentForecaster wraps a forecaster so every fit is timed
func InstrumentForecaster(next forecast.Forecaster) forecast.Forecaster {
	return &instrumentedForecaster{next: next}
}

type instrumentedForecaster struct {
	next forecast.Forecaster
}

func (f *instrumentedForecaster) Forecast(series forecast.Series, start time.Time, horizon int) ([]forecast.Point, error) {
	startTime := time.Now()
	points, err := f.next.Forecast(series, start, horizon)
	if ModelFitDuration != nil {
		ModelFitDuration.WithLabelValues(resultLabel(err)).Observe(time.Since(startTime).Seconds())
	}
	return points, err
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
