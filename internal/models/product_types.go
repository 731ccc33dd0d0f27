package models

import (
	"time"
)

// Product is the model for the 'products' table.
// Price is the display price in toman. For products priced against a
// currency (PricingMethod = usd/eur/gold), Price is derived:
// Price = round(BasePrice * rate) and is rewritten whenever the
// referenced exchange rate changes.
type Product struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`

	// --- Pricing ---
	Price         float64 `json:"price" db:"price"`
	BasePrice     float64 `json:"basePrice" db:"base_price"`
	PricingMethod string  `json:"pricingMethod" db:"pricing_method"` // usd | eur | gold | manual

	// --- Order Quantity Bounds ---
	// MinOrder 0 means "not set" and is treated as 1.
	// MaxOrder 0 means unbounded.
	MinOrder int `json:"minOrder" db:"min_order"`
	MaxOrder int `json:"maxOrder" db:"max_order"`

	// --- Media ---
	Image      string   `json:"image" db:"image"`
	Gallery    []string `json:"gallery,omitempty" db:"-"`
	VideoURL   *string  `json:"video,omitempty" db:"video"`
	IsFeatured bool     `json:"isFeatured" db:"is_featured"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EffectiveMinOrder returns the lower quantity bound for a cart line.
func (p *Product) EffectiveMinOrder() int {
	if p.MinOrder <= 0 {
		return 1
	}
	return p.MinOrder
}

// EffectiveMaxOrder returns the upper quantity bound, 0 meaning unbounded.
func (p *Product) EffectiveMaxOrder() int {
	if p.MaxOrder <= 0 {
		return 0
	}
	return p.MaxOrder
}
