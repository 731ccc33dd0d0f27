package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultMarketURL is the BRS gold & currency endpoint. The API key is
// appended as a query parameter.
const DefaultMarketURL = "https://brsapi.ir/Api/Market/Gold_Currency.php"

// Market symbols of interest and the currency codes they update.
var marketSymbols = []struct {
	list   string // which array of the response to search
	symbol string
	code   string
}{
	{"currency", "USD", "usd"},
	{"currency", "EUR", "eur"},
	{"gold", "IR_GOLD_18K", "gold"},
}

// marketQuote is one entry of the BRS response. Prices arrive as
// locale-formatted strings with thousands separators ("98,500").
type marketQuote struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type marketResponse struct {
	Currency []marketQuote `json:"currency"`
	Gold     []marketQuote `json:"gold"`
}

func (r *marketResponse) find(list, symbol string) *marketQuote {
	quotes := r.Currency
	if list == "gold" {
		quotes = r.Gold
	}
	for i := range quotes {
		if quotes[i].Symbol == symbol {
			return &quotes[i]
		}
	}
	return nil
}

// MarketClient fetches live quotes from the market-data endpoint.
type MarketClient struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

func NewMarketClient(apiKey string) *MarketClient {
	return &MarketClient{
		URL:    DefaultMarketURL,
		APIKey: apiKey,
		HTTP:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch performs the GET and decodes the quote document.
func (c *MarketClient) Fetch(ctx context.Context) (*marketResponse, error) {
	url := c.URL
	if c.APIKey != "" {
		url = fmt.Sprintf("%s?key=%s", c.URL, c.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market endpoint unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market endpoint returned status %d", res.StatusCode)
	}

	var doc marketResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding market response: %w", err)
	}
	return &doc, nil
}

// ParsePrice converts a locale-formatted price string ("1,234,500") to a
// number. Returns 0 for empty or unparseable input.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// SyncLiveRates pulls live quotes and applies each successfully parsed
// value through UpdateRate (which also recalculates product prices).
// It returns how many rates were updated. A transport failure is returned
// as an error; "no matching symbol found" is simply a zero count.
func (s *Store) SyncLiveRates(ctx context.Context, client *MarketClient) (int, error) {
	doc, err := client.Fetch(ctx)
	if err != nil {
		log.Printf("rates: live sync failed: %v", err)
		return 0, err
	}

	updated := 0
	for _, m := range marketSymbols {
		quote := doc.find(m.list, m.symbol)
		if quote == nil {
			continue
		}
		price := ParsePrice(quote.Price)
		if price <= 0 {
			continue
		}
		if err := s.UpdateRate(m.code, price); err == nil {
			updated++
		}
	}

	// Refresh the cache so readers see exactly what was persisted.
	if _, err := s.FetchRates(); err != nil {
		log.Printf("rates: refresh after live sync failed: %v", err)
	}

	return updated, nil
}
