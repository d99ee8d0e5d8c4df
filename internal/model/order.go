package model

import "time"

// Order represents a customer order.
type Order struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LineItem links an order to one unit of a product.
type LineItem struct {
	ID        int64 `json:"-" db:"id"`
	OrderID   int64 `json:"-" db:"order_id"`
	ProductID int64 `json:"productId" db:"product_id"`

	// Product is shared between line items of the same order that reference
	// the same product, so stock changes are visible to later items.
	Product *Product `json:"-"`
}

// ProcessOrderResponse is the confirmation returned after processing an order.
type ProcessOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Products  []Product `json:"products"`
}
