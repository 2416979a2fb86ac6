package model

// Order is a sales transaction as reported by the order service
type Order struct {
	CreatedAt string      `json:"createdAt"`
	Items     []OrderItem `json:"orderItemDTOs"`
}

// OrderItem is a single line of an order
type OrderItem struct {
	Barcode  Barcode  `json:"barcode"`
	Quantity Quantity `json:"quantity"`
}
