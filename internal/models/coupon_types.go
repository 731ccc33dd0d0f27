package models

import "time"

// Discount types for coupons.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Coupon is the model for the 'coupons' table.
// Code is unique and compared case-insensitively (stored uppercased).
// ExpiresAt nil means the code never expires; UsageLimit nil means
// unlimited uses.
type Coupon struct {
	ID             int64      `json:"id" db:"id"`
	Code           string     `json:"code" db:"code"`
	DiscountType   string     `json:"discountType" db:"discount_type"` // percent | fixed
	Amount         float64    `json:"amount" db:"amount"`
	MinOrderAmount float64    `json:"minOrderAmount" db:"min_order_amount"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	UsageLimit     *int       `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount      int        `json:"usedCount" db:"used_count"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// DiscountOn returns the discount this coupon grants on the given order
// amount, capped at the order amount itself.
func (c *Coupon) DiscountOn(orderAmount float64) float64 {
	var d float64
	switch c.DiscountType {
	case DiscountPercent:
		d = orderAmount * c.Amount / 100
	case DiscountFixed:
		d = c.Amount
	}
	if d > orderAmount {
		d = orderAmount
	}
	return d
}
