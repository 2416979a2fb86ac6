package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarcode_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want Barcode
	}{
		{"string", `"8935001871453"`, "8935001871453"},
		{"number", `8935001871453`, "8935001871453"},
		{"padded string", `" ABC-1 "`, "ABC-1"},
		{"null", `null`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var b Barcode
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &b))
			assert.Equal(t, tc.want, b)
		})
	}

	var b Barcode
	assert.Error(t, json.Unmarshal([]byte(`{"code":1}`), &b))
}

func TestProduct_DecodeUpstreamPayload(t *testing.T) {
	raw := `[
		{"barcode": 8935001871453, "productName": "Milk", "quantityInStock": 12, "minimumStock": null},
		{"barcode": "8935001871453", "productName": "Milk copy", "quantityInStock": -4},
		{"barcode": null, "productName": "Unlabelled", "quantityInStock": "7", "minimumStock": 2.9}
	]`

	var products []Product
	require.NoError(t, json.Unmarshal([]byte(raw), &products))
	require.Len(t, products, 3)

	assert.Equal(t, products[0].Barcode, products[1].Barcode)
	assert.Equal(t, 12, products[0].Stock.Int())
	assert.Equal(t, 0, products[0].MinimumStock.Int())
	assert.Equal(t, 0, products[1].Stock.Int())
	assert.Equal(t, 0, products[1].MinimumStock.Int())
	assert.True(t, products[2].Barcode.IsEmpty())
	assert.Equal(t, 7, products[2].Stock.Int())
	assert.Equal(t, 2, products[2].MinimumStock.Int())
}

func TestOrder_DecodeUpstreamPayload(t *testing.T) {
	raw := `{
		"createdAt": "2024-05-01T10:15:00",
		"orderItemDTOs": [
			{"barcode": 123, "quantity": 2.5},
			{"barcode": "456", "quantity": null},
			{"barcode": "789"}
		]
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	require.Len(t, o.Items, 3)

	assert.Equal(t, "2024-05-01T10:15:00", o.CreatedAt)
	assert.Equal(t, Barcode("123"), o.Items[0].Barcode)
	assert.InDelta(t, 2.5, o.Items[0].Quantity.Float(), 1e-9)
	assert.Zero(t, o.Items[1].Quantity.Float())
	assert.Zero(t, o.Items[2].Quantity.Float())
}

func TestCount_RejectsNonNumeric(t *testing.T) {
	var c Count
	assert.Error(t, json.Unmarshal([]byte(`"many"`), &c))
	assert.Error(t, json.Unmarshal([]byte(`true`), &c))
}

func TestCount_SaturatesLargeValues(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want int
	}{
		{"exponent", `1e20`, math.MaxInt},
		{"string exponent", `"1e300"`, math.MaxInt},
		{"large but representable", `4503599627370496`, 4503599627370496},
		{"negative exponent", `-1e20`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c Count
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &c))
			assert.Equal(t, tc.want, c.Int())
		})
	}

	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"barcode":"A","quantityInStock":1e20}`), &p))
	assert.Positive(t, p.Stock.Int())
}
