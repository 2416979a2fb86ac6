package forecast

import (
	"fmt"
	"sort"
	"time"

	"forecast-service/internal/model"
)

const dateLayout = "2006-01-02"

// DailyDemand is the total quantity of one product sold on one calendar date
type DailyDemand struct {
	Date     time.Time
	Quantity float64
}

// Series is a daily demand history with strictly increasing dates.
// Days without sales are not present.
type Series []DailyDemand

// Span returns the number of days between the first and last observation
func (s Series) Span() int {
	if len(s) < 2 {
		return 0
	}
	return daysBetween(s[0].Date, s[len(s)-1].Date)
}

// BuildHistory aggregates the order lines of one barcode into a daily series
func BuildHistory(orders []model.Order, barcode model.Barcode) (Series, error) {
	totals := make(map[time.Time]float64)

	for i, order := range orders {
		var (
			date   time.Time
			parsed bool
		)
		for _, item := range order.Items {
			if item.Barcode != barcode {
				continue
			}
			if !parsed {
				d, err := ParseOrderDate(order.CreatedAt)
				if err != nil {
					return nil, fmt.Errorf("order %d: %w", i, err)
				}
				date, parsed = d, true
			}
			totals[date] += item.Quantity.Float()
		}
	}

	series := make(Series, 0, len(totals))
	for date, qty := range totals {
		series = append(series, DailyDemand{Date: date, Quantity: qty})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series, nil
}

// ParseOrderDate truncates an order timestamp to its calendar date.
// Only the leading YYYY-MM-DD part is read, so any time-of-day or offset suffix is ignored.
func ParseOrderDate(createdAt string) (time.Time, error) {
	if len(createdAt) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, createdAt)
	}
	d, err := time.Parse(dateLayout, createdAt[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, createdAt)
	}
	return d, nil
}

// Day returns midnight UTC of the calendar date t falls on in its own location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}
