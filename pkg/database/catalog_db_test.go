package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"forecast-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockCatalog(t *testing.T) (*Catalog, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewCatalog(db), mock
}

func TestCatalog_FetchProducts(t *testing.T) {
	catalog, mock := newMockCatalog(t)

	rows := sqlmock.NewRows([]string{"barcode", "product_name", "quantity_in_stock", "minimum_stock"}).
		AddRow("8935001871453", "Milk", 12, 3).
		AddRow("42", "Bread", nil, -1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).WillReturnRows(rows)

	products, err := catalog.FetchProducts(context.Background(), "Bearer ignored")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, model.Barcode("8935001871453"), products[0].Barcode)
	assert.Equal(t, "Milk", products[0].Name)
	assert.Equal(t, 12, products[0].Stock.Int())
	assert.Equal(t, 3, products[0].MinimumStock.Int())
	assert.Equal(t, 0, products[1].Stock.Int())
	assert.Equal(t, 0, products[1].MinimumStock.Int())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_FetchOrdersPreloadsItems(t *testing.T) {
	catalog, mock := newMockCatalog(t)

	createdAt := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items" WHERE "order_items"."order_id" = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "barcode", "quantity"}).
			AddRow(10, 1, "A", 2.5).
			AddRow(11, 1, "B", nil))

	orders, err := catalog.FetchOrders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "2024-05-01T10:15:00", o.CreatedAt)
	require.Len(t, o.Items, 2)
	assert.Equal(t, model.Barcode("A"), o.Items[0].Barcode)
	assert.InDelta(t, 2.5, o.Items[0].Quantity.Float(), 1e-9)
	assert.Equal(t, model.Barcode("B"), o.Items[1].Barcode)
	assert.Zero(t, o.Items[1].Quantity.Float())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_FetchProductsQueryError(t *testing.T) {
	catalog, mock := newMockCatalog(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := catalog.FetchProducts(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch products")
	assert.Contains(t, err.Error(), "connection reset")
}
