package forecast

import (
	"fmt"
	"time"

	"forecast-service/internal/model"
)

// Outcome identifies which terminal state a per-product forecast reached
type Outcome string

const (
	OutcomeNotFound            Outcome = "not_found"
	OutcomeAlreadyOutOfStock   Outcome = "already_out_of_stock"
	OutcomeNoHistory           Outcome = "no_history"
	OutcomeInsufficientHistory Outcome = "insufficient_history"
	OutcomeDepleted            Outcome = "depleted"
	OutcomeNotDepleted         Outcome = "not_depleted"
	OutcomeError               Outcome = "error"
)

// Success reports whether the outcome is a successful forecast
func (o Outcome) Success() bool {
	switch o {
	case OutcomeAlreadyOutOfStock, OutcomeDepleted, OutcomeNotDepleted:
		return true
	}
	return false
}

// Result is the per-product forecast response.
// Build it with the constructors below so that the date, days and message
// always agree with the outcome.
type Result struct {
	Success          bool    `json:"success"`
	Status           Outcome `json:"status"`
	Barcode          string  `json:"barcode"`
	ProductName      string  `json:"productName,omitempty"`
	Stock            int     `json:"stock"`
	MinimumStock     int     `json:"minimumStock"`
	HorizonDays      int     `json:"forecastHorizonDays"`
	OutOfStockDate   *string `json:"outOfStockDate"`
	DaysToOutOfStock *int    `json:"daysToOutOfStock"`
	Message          string  `json:"message,omitempty"`
}

// Batch is the catalog-wide forecast response
type Batch struct {
	HorizonDays   int      `json:"forecastHorizonDays"`
	TotalProducts int      `json:"totalProducts"`
	Results       []Result `json:"data"`
}

func newResult(outcome Outcome, p model.Product, horizon int) Result {
	return Result{
		Success:      outcome.Success(),
		Status:       outcome,
		Barcode:      p.Barcode.String(),
		ProductName:  p.Name,
		Stock:        p.Stock.Int(),
		MinimumStock: p.MinimumStock.Int(),
		HorizonDays:  horizon,
	}
}

func notFoundResult(barcode model.Barcode, horizon int) Result {
	r := newResult(OutcomeNotFound, model.Product{Barcode: barcode}, horizon)
	r.Message = fmt.Sprintf("product with barcode %s not found", barcode)
	return r
}

func alreadyOutOfStockResult(p model.Product, horizon int, today time.Time) Result {
	r := newResult(OutcomeAlreadyOutOfStock, p, horizon)
	r.OutOfStockDate = formatDate(today)
	r.DaysToOutOfStock = intPtr(0)
	r.Message = "already out of stock (stock <= 0)"
	return r
}

func noHistoryResult(p model.Product, horizon int) Result {
	r := newResult(OutcomeNoHistory, p, horizon)
	r.Message = fmt.Sprintf("product %s has no sales history, cannot forecast", p.Barcode)
	return r
}

func insufficientHistoryResult(p model.Product, horizon int) Result {
	r := newResult(OutcomeInsufficientHistory, p, horizon)
	r.Message = "insufficient data: at least 2 days of sales are required to forecast"
	return r
}

func depletedResult(p model.Product, horizon int, d Depletion) Result {
	r := newResult(OutcomeDepleted, p, horizon)
	r.OutOfStockDate = formatDate(d.Date)
	r.DaysToOutOfStock = intPtr(d.Days)
	return r
}

func notDepletedResult(p model.Product, horizon int) Result {
	r := newResult(OutcomeNotDepleted, p, horizon)
	r.Message = "not out of stock within the forecast horizon"
	return r
}

// ErrorResult converts a failed computation into a diagnostic result for p
func ErrorResult(p model.Product, horizon int, err error) Result {
	r := newResult(OutcomeError, p, horizon)
	r.Message = fmt.Sprintf("forecast failed: %v", err)
	return r
}

func formatDate(t time.Time) *string {
	s := t.Format(dateLayout)
	return &s
}

func intPtr(v int) *int {
	return &v
}
