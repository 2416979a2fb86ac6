package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	weeklyPeriod = 7.0
	yearlyPeriod = 365.25
)

// Point is the expected demand for one future day
type Point struct {
	Date     time.Time
	Quantity float64
}

// Forecaster projects daily demand over a horizon
type Forecaster interface {
	// Forecast returns one point per day for start+1 ... start+horizon
	Forecast(series Series, start time.Time, horizon int) ([]Point, error)
}

// DecompositionOptions tunes the additive trend + seasonality model
type DecompositionOptions struct {
	WeeklyOrder int
	YearlyOrder int

	// Minimum history span, in days, before a seasonal component is fitted
	WeeklyMinSpanDays int
	YearlyMinSpanDays int

	TrendPriorScale       float64
	SeasonalityPriorScale float64
	NoiseScale            float64
}

// DefaultDecompositionOptions returns the options used by the service
func DefaultDecompositionOptions() DecompositionOptions {
	return DecompositionOptions{
		WeeklyOrder:           3,
		YearlyOrder:           10,
		WeeklyMinSpanDays:     14,
		YearlyMinSpanDays:     730,
		TrendPriorScale:       5,
		SeasonalityPriorScale: 10,
		NoiseScale:            0.5,
	}
}

// Decomposition fits a linear trend plus weekly and yearly Fourier seasonality
// with ridge-regularised least squares.
type Decomposition struct {
	opts DecompositionOptions
}

// NewDecomposition creates a forecaster with the given options
func NewDecomposition(opts DecompositionOptions) *Decomposition {
	return &Decomposition{opts: opts}
}

// FittedModel holds the coefficients of a fitted decomposition
type FittedModel struct {
	origin time.Time
	span   float64
	scale  float64
	weekly int
	yearly int
	coef   []float64
}

// Forecast fits the series and projects it forward from start
func (d *Decomposition) Forecast(series Series, start time.Time, horizon int) ([]Point, error) {
	if horizon <= 0 {
		return nil, ErrInvalidHorizon
	}
	fitted, err := d.Fit(series)
	if err != nil {
		return nil, err
	}

	start = Day(start)
	points := make([]Point, 0, horizon)
	for i := 1; i <= horizon; i++ {
		date := start.AddDate(0, 0, i)
		yhat := fitted.Predict(date)
		if math.IsNaN(yhat) || math.IsInf(yhat, 0) {
			return nil, fmt.Errorf("non-finite prediction for %s", date.Format(dateLayout))
		}
		points = append(points, Point{Date: date, Quantity: math.Max(yhat, 0)})
	}
	return points, nil
}

// Fit estimates the model coefficients from a series with at least two dates
func (d *Decomposition) Fit(series Series) (*FittedModel, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientHistory
	}

	span := series.Span()
	if span <= 0 {
		return nil, ErrInsufficientHistory
	}

	m := &FittedModel{
		origin: Day(series[0].Date),
		span:   float64(span),
		scale:  1,
	}
	if span >= d.opts.WeeklyMinSpanDays {
		m.weekly = d.opts.WeeklyOrder
	}
	if span >= d.opts.YearlyMinSpanDays {
		m.yearly = d.opts.YearlyOrder
	}

	maxAbs := 0.0
	for _, obs := range series {
		if math.IsNaN(obs.Quantity) || math.IsInf(obs.Quantity, 0) {
			return nil, fmt.Errorf("non-finite quantity on %s", obs.Date.Format(dateLayout))
		}
		maxAbs = math.Max(maxAbs, math.Abs(obs.Quantity))
	}
	if maxAbs > 0 {
		m.scale = maxAbs
	}

	n, p := len(series), m.width()
	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, obs := range series {
		x.SetRow(i, m.features(obs.Date))
		y.SetVec(i, obs.Quantity/m.scale)
	}

	// Normal equations with a per-column ridge penalty: (XᵀX + Λ) β = Xᵀy
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	gram := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			gram.SetSym(i, j, xtx.At(i, j))
		}
		gram.SetSym(i, i, gram.At(i, i)+d.penalty(i))
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return nil, fmt.Errorf("decomposition fit: normal equations are not positive definite")
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("decomposition fit: %w", err)
	}

	m.coef = make([]float64, p)
	for i := range m.coef {
		m.coef[i] = beta.AtVec(i)
	}
	return m, nil
}

// penalty returns the ridge weight of column i; columns 0 and 1 are the trend
func (d *Decomposition) penalty(i int) float64 {
	prior := d.opts.SeasonalityPriorScale
	if i < 2 {
		prior = d.opts.TrendPriorScale
	}
	r := d.opts.NoiseScale / prior
	return r * r
}

// Predict returns the modelled demand for date, before clamping
func (m *FittedModel) Predict(date time.Time) float64 {
	f := m.features(date)
	yhat := 0.0
	for i, v := range f {
		yhat += m.coef[i] * v
	}
	return yhat * m.scale
}

// Components reports which seasonal terms were fitted
func (m *FittedModel) Components() (weekly, yearly bool) {
	return m.weekly > 0, m.yearly > 0
}

func (m *FittedModel) width() int {
	return 2 + 2*m.weekly + 2*m.yearly
}

func (m *FittedModel) features(date time.Time) []float64 {
	day := Day(date)
	offset := float64(daysBetween(m.origin, day))
	absolute := float64(day.Unix()) / 86400

	f := make([]float64, 0, m.width())
	f = append(f, 1, offset/m.span)
	f = appendFourier(f, absolute, weeklyPeriod, m.weekly)
	f = appendFourier(f, absolute, yearlyPeriod, m.yearly)
	return f
}

func appendFourier(f []float64, t, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * t / period
		f = append(f, math.Sin(arg), math.Cos(arg))
	}
	return f
}
