package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"98,500", 98500},
		{"1,234,500", 1234500},
		{" 7200000 ", 7200000},
		{"98500.5", 98500.5},
		{"", 0},
		{"n/a", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParsePrice(tc.in), tc.in)
	}
}

func marketServer(t *testing.T, body string) *MarketClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := NewMarketClient("secret")
	client.URL = srv.URL
	return client
}

func TestFetchDecodesQuotes(t *testing.T) {
	client := marketServer(t, `{
		"currency": [
			{"symbol": "USD", "price": "98,500"},
			{"symbol": "EUR", "price": "105,200"}
		],
		"gold": [
			{"symbol": "IR_GOLD_18K", "price": "7,250,000"}
		]
	}`)

	doc, err := client.Fetch(context.Background())
	require.NoError(t, err)

	usd := doc.find("currency", "USD")
	require.NotNil(t, usd)
	assert.Equal(t, "98,500", usd.Price)

	gold := doc.find("gold", "IR_GOLD_18K")
	require.NotNil(t, gold)

	assert.Nil(t, doc.find("currency", "GBP"))
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := NewMarketClient("")
	client.URL = srv.URL

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestSyncLiveRatesUpdatesMatchedSymbols(t *testing.T) {
	s, mock := newStore(t)
	client := marketServer(t, `{
		"currency": [
			{"symbol": "USD", "price": "98,500"},
			{"symbol": "EUR", "price": "0"}
		],
		"gold": []
	}`)

	// EUR parses to zero and gold is absent, so only usd gets written.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE exchange_rates SET rate = ?, updated_at = ? WHERE currency_code = ?")).
		WithArgs(98500.0, sqlmock.AnyArg(), "usd").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, base_price FROM products WHERE pricing_method = ?")).
		WithArgs("usd").
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_price"}))

	// Cache refresh after the sync
	mock.ExpectQuery(regexp.QuoteMeta(selectRates)).
		WillReturnRows(rateRows())

	updated, err := s.SyncLiveRates(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncLiveRatesNoMatchesIsNotAnError(t *testing.T) {
	s, mock := newStore(t)
	client := marketServer(t, `{"currency": [], "gold": []}`)

	mock.ExpectQuery(regexp.QuoteMeta(selectRates)).
		WillReturnRows(rateRows())

	updated, err := s.SyncLiveRates(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestSyncLiveRatesTransportErrorPropagates(t *testing.T) {
	s, _ := newStore(t)

	client := NewMarketClient("")
	client.URL = "http://127.0.0.1:0"

	_, err := s.SyncLiveRates(context.Background(), client)
	require.Error(t, err)
}
