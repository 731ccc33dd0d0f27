package coupons

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mhnazari/zarshop-golang/internal/models"
)

// Reasons a coupon code can be rejected. Checks run in a fixed order and
// the first failing check wins; reasons are never aggregated.
const (
	ReasonNotFound       = "not_found"
	ReasonExpired        = "expired"
	ReasonUsageExhausted = "usage_exhausted"
	ReasonBelowMinimum   = "below_minimum"
)

// Result is the outcome of validating a coupon code. Invalid codes are a
// normal result, not an error, so callers can render inline feedback.
type Result struct {
	Valid   bool           `json:"valid"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message,omitempty"`
	Coupon  *models.Coupon `json:"coupon,omitempty"`
}

// Service validates and manages discount codes.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const couponColumns = "id, code, discount_type, amount, min_order_amount, expires_at, usage_limit, used_count, created_at"

func scanCoupon(row interface{ Scan(...any) error }) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.Amount, &c.MinOrderAmount,
		&c.ExpiresAt, &c.UsageLimit, &c.UsedCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate looks a code up case-insensitively and checks it against the
// given order amount. Check order: not-found, expired, usage-exhausted,
// below-minimum. The minimum-order boundary is inclusive: an order amount
// equal to min_order_amount is valid.
func (s *Service) Validate(code string, orderAmount float64) (Result, error) {
	row := s.db.QueryRow(
		"SELECT "+couponColumns+" FROM coupons WHERE code = ?",
		strings.ToUpper(strings.TrimSpace(code)),
	)

	c, err := scanCoupon(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Result{Valid: false, Reason: ReasonNotFound, Message: "Invalid discount code"}, nil
		}
		return Result{}, err
	}

	now := time.Now()
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return Result{Valid: false, Reason: ReasonExpired, Message: "This code has expired"}, nil
	}

	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Result{Valid: false, Reason: ReasonUsageExhausted, Message: "This code has reached its usage limit"}, nil
	}

	if c.MinOrderAmount > 0 && orderAmount < c.MinOrderAmount {
		return Result{
			Valid:   false,
			Reason:  ReasonBelowMinimum,
			Message: fmt.Sprintf("Minimum order amount for this code is %.0f toman", c.MinOrderAmount),
		}, nil
	}

	return Result{Valid: true, Coupon: c}, nil
}

// IncrementUsage bumps used_count by 1 after a successful checkout.
// This is a read-then-write: two concurrent checkouts can both read N and
// both write N+1, losing one increment. A coupon overrun is a business
// nuisance rather than a correctness problem, so the behavior is kept;
// a server-side `used_count = used_count + 1` would close the race.
func (s *Service) IncrementUsage(id int64) error {
	var usedCount int
	err := s.db.QueryRow("SELECT used_count FROM coupons WHERE id = ?", id).Scan(&usedCount)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE coupons SET used_count = ? WHERE id = ?", usedCount+1, id)
	return err
}

// List returns all coupons, newest first.
func (s *Service) List() ([]models.Coupon, error) {
	rows, err := s.db.Query("SELECT " + couponColumns + " FROM coupons ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

// Create inserts a new coupon. The code is stored uppercased so lookups
// stay case-insensitive; uniqueness is enforced by the DB index.
func (s *Service) Create(c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.CreatedAt = time.Now()

	result, err := s.db.Exec(`
		INSERT INTO coupons (code, discount_type, amount, min_order_amount, expires_at, usage_limit, used_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		c.Code, c.DiscountType, c.Amount, c.MinOrderAmount, c.ExpiresAt, c.UsageLimit, c.CreatedAt,
	)
	if err != nil {
		return err
	}
	c.ID, err = result.LastInsertId()
	return err
}

// Delete removes a coupon by ID.
func (s *Service) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM coupons WHERE id = ?", id)
	return err
}
