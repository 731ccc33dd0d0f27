package handlers

import (
	"database/sql"

	"github.com/mhnazari/zarshop-golang/internal/cart"
	"github.com/mhnazari/zarshop-golang/internal/coupons"
	"github.com/mhnazari/zarshop-golang/internal/rates"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB      *sql.DB
	Rates   *rates.Store
	Market  *rates.MarketClient
	Coupons *coupons.Service
	Carts   *cart.Registry
}
