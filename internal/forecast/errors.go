package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHorizon is returned when the horizon is not a positive number of days
	ErrInvalidHorizon = errors.New("forecast horizon must be a positive number of days")

	// ErrInsufficientHistory is returned when a series has fewer than two distinct dates
	ErrInsufficientHistory = errors.New("at least 2 distinct sale dates are required")

	// ErrMalformedDate is returned when an order carries an unreadable creation date
	ErrMalformedDate = errors.New("malformed order date")
)

// ComputationError reports an unexpected failure while forecasting one product
type ComputationError struct {
	Barcode string
	Err     error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("forecast for barcode %s failed: %v", e.Barcode, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
