package forecast

import (
	"math"
	"time"
)

// Depletion is the outcome of running stock down against a forecast
type Depletion struct {
	Depleted bool
	Date     time.Time
	Days     int
}

// Simulate consumes the forecast day by day and returns the first date on which
// cumulative demand meets or exceeds stock. Days counts from start.
func Simulate(stock int, start time.Time, points []Point) Depletion {
	cum := 0.0
	for _, p := range points {
		cum += math.Max(p.Quantity, 0)
		if float64(stock)-cum <= 0 {
			return Depletion{
				Depleted: true,
				Date:     Day(p.Date),
				Days:     daysBetween(start, p.Date),
			}
		}
	}
	return Depletion{}
}
