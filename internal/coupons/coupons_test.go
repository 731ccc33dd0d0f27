package coupons

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

const selectByCode = "SELECT " + couponColumns + " FROM coupons WHERE code = ?"

var couponCols = []string{
	"id", "code", "discount_type", "amount", "min_order_amount",
	"expires_at", "usage_limit", "used_count", "created_at",
}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db), mock
}

// couponRow builds a full row for the coupon query. expiresAt and
// usageLimit may be nil.
func couponRow(id int64, code string, minOrder float64, expiresAt any, usageLimit any, usedCount int) *sqlmock.Rows {
	return sqlmock.NewRows(couponCols).
		AddRow(id, code, "percent", 10.0, minOrder, expiresAt, usageLimit, usedCount, time.Now())
}

func TestValidateNotFound(t *testing.T) {
	s, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(couponCols))

	result, err := s.Validate("nope", 100)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonNotFound, result.Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateLookupIsCaseInsensitive(t *testing.T) {
	s, mock := newService(t)

	// Codes are stored uppercased; any input casing must hit the same row.
	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("GOLD10").
		WillReturnRows(couponRow(1, "GOLD10", 0, nil, nil, 0))

	result, err := s.Validate("  gOLd10 ", 100)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Coupon)
	assert.Equal(t, "GOLD10", result.Coupon.Code)
}

func TestValidateExpiredWinsOverOtherChecks(t *testing.T) {
	s, mock := newService(t)

	// Expired AND exhausted AND below minimum: expiry is checked first.
	past := time.Now().Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("OLD").
		WillReturnRows(couponRow(1, "OLD", 500000, past, 5, 5))

	result, err := s.Validate("OLD", 100)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonExpired, result.Reason)
}

func TestValidateUsageExhausted(t *testing.T) {
	s, mock := newService(t)

	future := time.Now().Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("FULL").
		WillReturnRows(couponRow(1, "FULL", 0, future, 3, 3))

	result, err := s.Validate("FULL", 1000000)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonUsageExhausted, result.Reason)
}

func TestValidateMinOrderBoundaryIsInclusive(t *testing.T) {
	s, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("MIN").
		WillReturnRows(couponRow(1, "MIN", 500000, nil, nil, 0))

	result, err := s.Validate("MIN", 499999)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonBelowMinimum, result.Reason)

	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("MIN").
		WillReturnRows(couponRow(1, "MIN", 500000, nil, nil, 0))

	result, err = s.Validate("MIN", 500000)
	require.NoError(t, err)
	assert.True(t, result.Valid, "order amount equal to the minimum is valid")
}

func TestValidateNullLimitsNeverExhaust(t *testing.T) {
	s, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectByCode)).
		WithArgs("FREE").
		WillReturnRows(couponRow(1, "FREE", 0, nil, nil, 123456))

	result, err := s.Validate("FREE", 1)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestIncrementUsageReadsThenWrites(t *testing.T) {
	s, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT used_count FROM coupons WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"used_count"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE coupons SET used_count = ? WHERE id = ?")).
		WithArgs(5, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.IncrementUsage(7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUppercasesCode(t *testing.T) {
	s, mock := newService(t)

	mock.ExpectExec("INSERT INTO coupons").
		WithArgs("SPRING", "fixed", 50000.0, 0.0, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	c := &models.Coupon{Code: "spring", DiscountType: "fixed", Amount: 50000}
	require.NoError(t, s.Create(c))
	assert.Equal(t, "SPRING", c.Code)
	assert.Equal(t, int64(11), c.ID)
}
