package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order records a purchase of a product by a user. TotalPrice is computed
// from the product price at creation time and recomputed when the quantity
// changes. Visibility is restricted to the owning user or an admin.
type Order struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	ProductID  int64       `json:"product_id"`
	Quantity   int64       `json:"quantity"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Product carries the referenced product when the repository loads it
	// alongside the order.
	Product *Product `json:"product,omitempty"`
}
