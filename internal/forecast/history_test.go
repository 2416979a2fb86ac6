package forecast

import (
	"testing"
	"time"

	"forecast-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func order(createdAt string, items ...model.OrderItem) model.Order {
	return model.Order{CreatedAt: createdAt, Items: items}
}

func item(barcode string, qty float64) model.OrderItem {
	return model.OrderItem{Barcode: model.Barcode(barcode), Quantity: model.Quantity(qty)}
}

func TestBuildHistory_AggregatesByDate(t *testing.T) {
	orders := []model.Order{
		order("2024-03-02T18:45:00", item("A", 1), item("B", 7)),
		order("2024-03-01T09:00:00", item("A", 2)),
		order("2024-03-01T17:30:12.123Z", item("A", 3), item("A", 0.5)),
		order("2024-03-04", item("B", 1)),
	}

	series, err := BuildHistory(orders, "A")
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, date("2024-03-01"), series[0].Date)
	assert.InDelta(t, 5.5, series[0].Quantity, 1e-9)
	assert.Equal(t, date("2024-03-02"), series[1].Date)
	assert.InDelta(t, 1.0, series[1].Quantity, 1e-9)
}

func TestBuildHistory_NoMatchingItems(t *testing.T) {
	orders := []model.Order{
		order("2024-03-01", item("B", 2)),
		order("not a date", item("C", 1)),
	}

	series, err := BuildHistory(orders, "A")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestBuildHistory_OrderInsensitive(t *testing.T) {
	orders := []model.Order{
		order("2024-01-05T10:00:00", item("A", 4)),
		order("2024-01-01T10:00:00", item("A", 1)),
		order("2024-01-03T10:00:00", item("A", 2), item("X", 9)),
		order("2024-01-01T23:59:59", item("A", 3)),
	}
	reversed := make([]model.Order, len(orders))
	for i := range orders {
		reversed[len(orders)-1-i] = orders[i]
	}

	first, err := BuildHistory(orders, "A")
	require.NoError(t, err)
	second, err := BuildHistory(reversed, "A")
	require.NoError(t, err)
	again, err := BuildHistory(orders, "A")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Date.Before(first[i].Date), "dates must be strictly increasing")
	}
}

func TestBuildHistory_MalformedDateOnMatchingOrder(t *testing.T) {
	orders := []model.Order{
		order("2024-01-01", item("A", 1)),
		order("01/02/2024", item("A", 1)),
	}

	_, err := BuildHistory(orders, "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestParseOrderDate(t *testing.T) {
	testCases := []struct {
		name      string
		createdAt string
		want      string
		wantErr   bool
	}{
		{"date only", "2024-05-01", "2024-05-01", false},
		{"local timestamp", "2024-05-01T23:10:00", "2024-05-01", false},
		{"rfc3339 with offset", "2024-05-01T01:00:00+07:00", "2024-05-01", false},
		{"space separated", "2024-05-01 08:00:00", "2024-05-01", false},
		{"too short", "2024-05", "", true},
		{"empty", "", "", true},
		{"wrong layout", "05-01-2024T00:00", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOrderDate(tc.createdAt)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, date(tc.want), got)
		})
	}
}
