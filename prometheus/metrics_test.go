package prometheus

import (
	"errors"
	"testing"
	"time"

	"forecast-service/internal/forecast"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForecaster struct {
	err error
}

func (f fakeForecaster) Forecast(series forecast.Series, start time.Time, horizon int) ([]forecast.Point, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []forecast.Point{{Date: start.AddDate(0, 0, 1), Quantity: 1}}, nil
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	InitMetrics("test", reg)

	t.Run("forecast outcomes and batch size", func(t *testing.T) {
		RecordBatch(forecast.Batch{
			TotalProducts: 3,
			Results: []forecast.Result{
				{Status: forecast.OutcomeDepleted},
				{Status: forecast.OutcomeDepleted},
				{Status: forecast.OutcomeNoHistory},
			},
		})

		assert.Equal(t, 2.0, testutil.ToFloat64(ForecastOutcomesCounter.WithLabelValues("depleted")))
		assert.Equal(t, 1.0, testutil.ToFloat64(ForecastOutcomesCounter.WithLabelValues("no_history")))
		assert.Equal(t, 3.0, testutil.ToFloat64(BatchProductsGauge))
	})

	t.Run("instrumented forecaster", func(t *testing.T) {
		ok := InstrumentForecaster(fakeForecaster{})
		points, err := ok.Forecast(nil, time.Now(), 1)
		require.NoError(t, err)
		assert.Len(t, points, 1)

		failing := InstrumentForecaster(fakeForecaster{err: errors.New("boom")})
		_, err = failing.Forecast(nil, time.Now(), 1)
		assert.Error(t, err)

		assert.Equal(t, 2, testutil.CollectAndCount(ModelFitDuration))
	})

	t.Run("upstream calls", func(t *testing.T) {
		TrackUpstreamCall("products")(time.Now(), nil)
		TrackUpstreamCall("orders")(time.Now(), errors.New("timeout"))

		assert.Equal(t, 2, testutil.CollectAndCount(UpstreamCallDuration))
	})
}
