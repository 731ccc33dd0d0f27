package models

// SiteSettings is the single-row model for the 'site_settings' table.
// It holds the payment details shown at checkout (card-to-card transfer
// plus an optional Zarinpal merchant ID).
type SiteSettings struct {
	ID               int64  `json:"id" db:"id"`
	ZarinpalMerchant string `json:"zarinpalMerchant" db:"zarinpal_merchant"`
	CardNumber       string `json:"cardNumber" db:"card_number"`
	CardOwner        string `json:"cardOwner" db:"card_owner"`
	CardShaba        string `json:"cardShaba" db:"card_shaba"`
	BankName         string `json:"bankName" db:"bank_name"`
}

// ShippingMethod is the model for the 'shipping_methods' table.
type ShippingMethod struct {
	ID    int64   `json:"id" db:"id"`
	Title string  `json:"title" db:"title"`
	Cost  float64 `json:"cost" db:"cost"`
}
