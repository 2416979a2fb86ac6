package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Barcode is the canonical string form of a product barcode.
// Upstream services send barcodes either as JSON strings or as JSON numbers,
// so decoding normalises both into the same value.
type Barcode string

// String returns the barcode as a plain string
func (b Barcode) String() string {
	return string(b)
}

// IsEmpty reports whether the barcode carries no value
func (b Barcode) IsEmpty() bool {
	return b == ""
}

// UnmarshalJSON accepts a string, a number or null
func (b *Barcode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid barcode: %w", err)
		}
		*b = Barcode(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid barcode %s: %w", string(data), err)
	}
	*b = Barcode(n.String())
	return nil
}
