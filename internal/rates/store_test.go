package rates

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

const selectRates = "SELECT id, currency_code, rate, updated_at FROM exchange_rates ORDER BY currency_code"

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func rateRows(rates ...models.ExchangeRate) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "currency_code", "rate", "updated_at"})
	for _, r := range rates {
		rows.AddRow(r.ID, r.CurrencyCode, r.Rate, r.UpdatedAt)
	}
	return rows
}

func TestFetchRatesPopulatesCache(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectRates)).
		WillReturnRows(rateRows(
			models.ExchangeRate{ID: 1, CurrencyCode: "eur", Rate: 105000},
			models.ExchangeRate{ID: 2, CurrencyCode: "gold", Rate: 7200000},
			models.ExchangeRate{ID: 3, CurrencyCode: "usd", Rate: 98500},
		))

	snapshot, err := s.FetchRates()
	require.NoError(t, err)
	require.Len(t, snapshot, 3)
	assert.Equal(t, "eur", snapshot[0].CurrencyCode)
	assert.Equal(t, "gold", snapshot[1].CurrencyCode)
	assert.Equal(t, "usd", snapshot[2].CurrencyCode)
	assert.Equal(t, 98500.0, s.Rate("usd"))
	assert.Equal(t, 0.0, s.Rate("gbp"), "unknown code reads as zero")
}

func TestFetchRatesKeepsCacheOnFailure(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectRates)).
		WillReturnRows(rateRows(models.ExchangeRate{ID: 1, CurrencyCode: "usd", Rate: 98500}))
	_, err := s.FetchRates()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(selectRates)).
		WillReturnError(errors.New("connection refused"))

	snapshot, err := s.FetchRates()
	require.Error(t, err)
	require.Len(t, snapshot, 1, "stale snapshot still served")
	assert.Equal(t, 98500.0, snapshot[0].Rate)
	assert.Equal(t, 98500.0, s.Rate("usd"))
}

func TestUpdateRateRewritesProductPrices(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE exchange_rates SET rate = ?, updated_at = ? WHERE currency_code = ?")).
		WithArgs(60000.0, sqlmock.AnyArg(), "usd").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, base_price FROM products WHERE pricing_method = ?")).
		WithArgs("usd").
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_price"}).
			AddRow(int64(10), 2.0).
			AddRow(int64(11), 1.5))

	// Product updates run concurrently, so their order is not fixed.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET price = ? WHERE id = ?")).
		WithArgs(120000.0, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET price = ? WHERE id = ?")).
		WithArgs(90000.0, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdateRate("usd", 60000))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 60000.0, s.Rate("usd"), "cache reflects the new rate")
}

func TestUpdateRateSurvivesPartialProductFailure(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE exchange_rates SET rate = ?, updated_at = ? WHERE currency_code = ?")).
		WithArgs(7000000.0, sqlmock.AnyArg(), "gold").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, base_price FROM products WHERE pricing_method = ?")).
		WithArgs("gold").
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_price"}).
			AddRow(int64(20), 1.0).
			AddRow(int64(21), 2.0))

	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET price = ? WHERE id = ?")).
		WithArgs(7000000.0, int64(20)).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET price = ? WHERE id = ?")).
		WithArgs(14000000.0, int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// One product failing does not fail the rate update
	require.NoError(t, s.UpdateRate("gold", 7000000))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRateUnknownCodeIsNoop(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE exchange_rates SET rate = ?, updated_at = ? WHERE currency_code = ?")).
		WithArgs(5.0, sqlmock.AnyArg(), "gbp").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, base_price FROM products WHERE pricing_method = ?")).
		WithArgs("gbp").
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_price"}))

	require.NoError(t, s.UpdateRate("gbp", 5))
	require.NoError(t, mock.ExpectationsWereMet())
}
