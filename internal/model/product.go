package model

// Product is the catalog snapshot used by a forecast request
type Product struct {
	Barcode      Barcode `json:"barcode"`
	Name         string  `json:"productName"`
	Stock        Count   `json:"quantityInStock"`
	MinimumStock Count   `json:"minimumStock"`
}
