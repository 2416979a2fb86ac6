package forecast

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"forecast-service/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service runs out-of-stock forecasts over in-memory catalog snapshots.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	forecaster Forecaster
	clock      func() time.Time
	location   *time.Location
	workers    int
	logger     *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the source of the current time
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLocation sets the time zone that decides which calendar day is today
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithWorkers bounds how many products a batch forecasts at once
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger used for per-product batch failures
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a forecast service backed by forecaster
func NewService(forecaster Forecaster, opts ...Option) *Service {
	s := &Service{
		forecaster: forecaster,
		clock:      time.Now,
		location:   time.Local,
		workers:    runtime.NumCPU(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the calendar date the forecast window starts from
func (s *Service) Today() time.Time {
	return Day(s.clock().In(s.location))
}

// ForecastOne predicts when the product with barcode runs out of stock
func (s *Service) ForecastOne(barcode model.Barcode, horizon int, products []model.Product, orders []model.Order) (Result, error) {
	if horizon <= 0 {
		return Result{}, ErrInvalidHorizon
	}

	product, ok := findProduct(products, barcode)
	if !ok {
		return notFoundResult(barcode, horizon), nil
	}
	return s.forecastProduct(product, horizon, orders, s.Today())
}

// ForecastAll forecasts every product with a non-empty barcode.
// A failure on one product becomes an error result and does not stop the batch.
func (s *Service) ForecastAll(horizon int, products []model.Product, orders []model.Order) (Batch, error) {
	if horizon <= 0 {
		return Batch{}, ErrInvalidHorizon
	}

	today := s.Today()
	eligible := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !p.Barcode.IsEmpty() {
			eligible = append(eligible, p)
		}
	}

	results := make([]Result, len(eligible))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, p := range eligible {
		g.Go(func() error {
			results[i] = s.forecastIsolated(p, horizon, orders, today)
			return nil
		})
	}
	_ = g.Wait()

	return Batch{
		HorizonDays:   horizon,
		TotalProducts: len(results),
		Results:       results,
	}, nil
}

// forecastIsolated turns any error or panic for p into an error result
func (s *Service) forecastIsolated(p model.Product, horizon int, orders []model.Order, today time.Time) (r Result) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			s.logger.Warn("Forecast panicked for product",
				zap.String("barcode", p.Barcode.String()),
				zap.Error(err))
			r = ErrorResult(p, horizon, err)
		}
	}()

	r, err := s.forecastProduct(p, horizon, orders, today)
	if err != nil {
		s.logger.Warn("Forecast failed for product",
			zap.String("barcode", p.Barcode.String()),
			zap.Error(err))
		r = ErrorResult(p, horizon, err)
	}
	return r
}

func (s *Service) forecastProduct(p model.Product, horizon int, orders []model.Order, today time.Time) (Result, error) {
	if p.Stock.Int() <= 0 {
		return alreadyOutOfStockResult(p, horizon, today), nil
	}

	series, err := BuildHistory(orders, p.Barcode)
	if err != nil {
		return Result{}, &ComputationError{Barcode: p.Barcode.String(), Err: err}
	}
	switch len(series) {
	case 0:
		return noHistoryResult(p, horizon), nil
	case 1:
		return insufficientHistoryResult(p, horizon), nil
	}

	points, err := s.forecaster.Forecast(series, today, horizon)
	if err != nil {
		if errors.Is(err, ErrInsufficientHistory) {
			return insufficientHistoryResult(p, horizon), nil
		}
		return Result{}, &ComputationError{Barcode: p.Barcode.String(), Err: err}
	}

	depletion := Simulate(p.Stock.Int(), today, points)
	if !depletion.Depleted {
		return notDepletedResult(p, horizon), nil
	}
	return depletedResult(p, horizon, depletion), nil
}

func findProduct(products []model.Product, barcode model.Barcode) (model.Product, bool) {
	for _, p := range products {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return model.Product{}, false
}
