package models

import "time"

// ExchangeRate is the model for the 'exchange_rates' table.
// CurrencyCode is the unique key (usd, eur, gold). Rate is the value of
// one unit of the currency in toman.
type ExchangeRate struct {
	ID           int64     `json:"id" db:"id"`
	CurrencyCode string    `json:"currencyCode" db:"currency_code"`
	Rate         float64   `json:"rate" db:"rate"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
