package models

import (
	"database/sql"
	"time"
)

// Order statuses. Orders move pending -> pending_approval -> paid ->
// processing -> shipped -> delivered; cancelled is terminal. Transitions
// are set directly by the admin panel, no guard is enforced here.
const (
	OrderPending         = "pending"
	OrderPendingApproval = "pending_approval"
	OrderPaid            = "paid"
	OrderProcessing      = "processing"
	OrderShipped         = "shipped"
	OrderDelivered       = "delivered"
	OrderCancelled       = "cancelled"
)

// Order is the model for the 'orders' table.
// UserID is nullable: guest checkouts carry no customer reference.
type Order struct {
	ID           int64          `json:"id" db:"id"`
	UserID       *int64         `json:"userId,omitempty" db:"user_id"`
	Status       string         `json:"status" db:"status"`
	TotalPrice   float64        `json:"totalPrice" db:"total_price"`
	Discount     float64        `json:"discount" db:"discount"`
	ShippingCost float64        `json:"shippingCost" db:"shipping_cost"`
	CouponCode   sql.NullString `json:"couponCode,omitempty" db:"coupon_code"`
	PaymentRef   sql.NullString `json:"paymentRef,omitempty" db:"payment_ref"`
	TrackingCode sql.NullString `json:"trackingCode,omitempty" db:"tracking_code"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`

	// Joined rows (populated manually, not a DB column)
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table.
// PriceAtPurchase snapshots the product price when the order was placed,
// so later rate-driven price changes never rewrite history.
type OrderItem struct {
	ID              int64     `json:"id" db:"id"`
	OrderID         int64     `json:"orderId" db:"order_id"`
	ProductID       int64     `json:"productId" db:"product_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	PriceAtPurchase float64   `json:"priceAtPurchase" db:"price_at_purchase"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	// Flattened product fields for the admin panel (joined manually)
	ProductTitle    string `json:"productTitle,omitempty" db:"-"`
	ProductCategory string `json:"productCategory,omitempty" db:"-"`
}
