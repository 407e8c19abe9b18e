package models

import "time"

// OrderItem is one line of an order. MenuItemID points at the catalog
// store's document id; there is no relational foreign key across the two
// databases. PriceAtTime is captured at order creation and never recomputed.
type OrderItem struct {
	OrderItemID         int              `json:"order_item_id"`
	OrderID             int              `json:"order_id"`
	MenuItemID          string           `json:"menu_item_id"`
	Quantity            int              `json:"quantity"`
	PriceAtTime         float64          `json:"price_at_time"`
	SpecialInstructions *string          `json:"special_instructions"`
	CreatedAt           time.Time        `json:"created_at"`
	MenuItem            *MenuItemSummary `json:"menu_item"`
}

type Order struct {
	OrderID    int         `json:"order_id"`
	UserID     int         `json:"user_id"`
	TotalPrice float64     `json:"total_price"`
	Status     string      `json:"status"`
	PickupTime *time.Time  `json:"pickup_time"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	User       *User       `json:"user,omitempty"`
	OrderItems []OrderItem `json:"order_items"`
}

const OrderStatusPending = "pending"
