package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is a non-negative whole quantity such as stock on hand.
// null, missing and negative values decode to 0; values beyond math.MaxInt saturate.
type Count int

// Int returns the count as an int
func (c Count) Int() int {
	return int(c)
}

// UnmarshalJSON accepts a number, a numeric string or null
func (c *Count) UnmarshalJSON(data []byte) error {
	v, err := decodeNumber(data)
	if err != nil {
		return err
	}
	*c = toCount(v)
	return nil
}

// toCount truncates v and saturates it to [0, math.MaxInt]
func toCount(v float64) Count {
	v = clampNonNegative(math.Trunc(v))
	// float64(math.MaxInt) rounds up to 2^63, which does not fit in an int
	if v >= float64(math.MaxInt) {
		return Count(math.MaxInt)
	}
	return Count(v)
}

// Quantity is a non-negative amount sold on an order line.
// null, missing and negative values decode to 0.
type Quantity float64

// Float returns the quantity as a float64
func (q Quantity) Float() float64 {
	return float64(q)
}

// UnmarshalJSON accepts a number, a numeric string or null
func (q *Quantity) UnmarshalJSON(data []byte) error {
	v, err := decodeNumber(data)
	if err != nil {
		return err
	}
	*q = Quantity(clampNonNegative(v))
	return nil
}

func decodeNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, fmt.Errorf("invalid number %s: %w", raw, err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		raw = s
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %s", string(data))
	}
	return v, nil
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
