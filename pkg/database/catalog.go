package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"forecast-service/internal/model"
	"forecast-service/prometheus"

	"gorm.io/gorm"
)

// ProductRecord is a row of the products table
type ProductRecord struct {
	Barcode         string `gorm:"column:barcode"`
	ProductName     string `gorm:"column:product_name"`
	QuantityInStock *int   `gorm:"column:quantity_in_stock"`
	MinimumStock    *int   `gorm:"column:minimum_stock"`
}

// TableName overrides the table name used by ProductRecord
func (ProductRecord) TableName() string {
	return "products"
}

// OrderRecord is a row of the orders table
type OrderRecord struct {
	ID        uint              `gorm:"column:id;primarykey"`
	CreatedAt time.Time         `gorm:"column:created_at"`
	Items     []OrderItemRecord `gorm:"foreignKey:OrderID"`
}

// TableName overrides the table name used by OrderRecord
func (OrderRecord) TableName() string {
	return "orders"
}

// OrderItemRecord is a row of the order_items table
type OrderItemRecord struct {
	ID       uint     `gorm:"column:id;primarykey"`
	OrderID  uint     `gorm:"column:order_id"`
	Barcode  string   `gorm:"column:barcode"`
	Quantity *float64 `gorm:"column:quantity"`
}

// TableName overrides the table name used by OrderItemRecord
func (OrderItemRecord) TableName() string {
	return "order_items"
}

// Catalog reads products and orders straight from the retail database
type Catalog struct {
	db *gorm.DB
}

// NewCatalog creates a database catalog source
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// FetchProducts returns every product. The authorization argument is not used.
func (c *Catalog) FetchProducts(ctx context.Context, _ string) (products []model.Product, err error) {
	track := prometheus.TrackUpstreamCall("products")
	start := time.Now()
	defer func() { track(start, err) }()

	var records []ProductRecord
	if err := c.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products = make([]model.Product, len(records))
	for i, r := range records {
		products[i] = r.toModel()
	}
	return products, nil
}

// FetchOrders returns every order with its items. The authorization argument is not used.
func (c *Catalog) FetchOrders(ctx context.Context, _ string) (orders []model.Order, err error) {
	track := prometheus.TrackUpstreamCall("orders")
	start := time.Now()
	defer func() { track(start, err) }()

	var records []OrderRecord
	if err := c.db.WithContext(ctx).Preload("Items").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	orders = make([]model.Order, len(records))
	for i, r := range records {
		orders[i] = r.toModel()
	}
	return orders, nil
}

func (r ProductRecord) toModel() model.Product {
	return model.Product{
		Barcode:      model.Barcode(r.Barcode),
		Name:         r.ProductName,
		Stock:        model.Count(nonNegative(r.QuantityInStock)),
		MinimumStock: model.Count(nonNegative(r.MinimumStock)),
	}
}

func (r OrderRecord) toModel() model.Order {
	items := make([]model.OrderItem, len(r.Items))
	for i, it := range r.Items {
		qty := 0.0
		if it.Quantity != nil && !math.IsNaN(*it.Quantity) {
			qty = math.Max(*it.Quantity, 0)
		}
		items[i] = model.OrderItem{
			Barcode:  model.Barcode(it.Barcode),
			Quantity: model.Quantity(qty),
		}
	}
	return model.Order{
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05"),
		Items:     items,
	}
}

func nonNegative(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
