package rates

import (
	"database/sql"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/mhnazari/zarshop-golang/internal/models"
)

// Store holds the current exchange/metal rates and pushes rate changes
// into stored product prices. Reads are served from an in-memory cache
// that survives a failed refresh.
type Store struct {
	db *sql.DB

	mu    sync.RWMutex
	cache map[string]models.ExchangeRate
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		cache: make(map[string]models.ExchangeRate),
	}
}

// FetchRates loads all exchange_rates rows and repopulates the cache.
// On a transport error the previous cache is left intact and the cached
// snapshot is returned alongside the error, so callers can keep showing
// the last known rates.
func (s *Store) FetchRates() ([]models.ExchangeRate, error) {
	rows, err := s.db.Query("SELECT id, currency_code, rate, updated_at FROM exchange_rates ORDER BY currency_code")
	if err != nil {
		log.Printf("rates: fetch failed, keeping cached rates: %v", err)
		return s.Snapshot(), err
	}
	defer rows.Close()

	fresh := make(map[string]models.ExchangeRate)
	for rows.Next() {
		var r models.ExchangeRate
		if err := rows.Scan(&r.ID, &r.CurrencyCode, &r.Rate, &r.UpdatedAt); err != nil {
			log.Printf("rates: scan failed, keeping cached rates: %v", err)
			return s.Snapshot(), err
		}
		fresh[r.CurrencyCode] = r
	}
	if err := rows.Err(); err != nil {
		log.Printf("rates: fetch failed, keeping cached rates: %v", err)
		return s.Snapshot(), err
	}

	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// Snapshot returns the cached rates sorted by currency code.
func (s *Store) Snapshot() []models.ExchangeRate {
	s.mu.RLock()
	out := make([]models.ExchangeRate, 0, len(s.cache))
	for _, r := range s.cache {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out
}

// Rate returns the cached rate for a currency code, 0 if unknown.
func (s *Store) Rate(code string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[code].Rate
}

// UpdateRate persists the new rate for a currency code and then rewrites
// the price of every product denominated in that currency:
// price = round(base_price * rate).
func (s *Store) UpdateRate(code string, newRate float64) error {
	now := time.Now()
	result, err := s.db.Exec(
		"UPDATE exchange_rates SET rate = ?, updated_at = ? WHERE currency_code = ?",
		newRate, now, code,
	)
	if err != nil {
		log.Printf("rates: error updating %s: %v", code, err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// Unknown code. Treat as a no-op rather than an error; the admin
		// panel only offers known codes.
		log.Printf("rates: no exchange_rates row for %q", code)
	}

	s.updateProductPrices(code, newRate)

	s.mu.Lock()
	if r, ok := s.cache[code]; ok {
		r.Rate = newRate
		r.UpdatedAt = now
		s.cache[code] = r
	} else {
		s.cache[code] = models.ExchangeRate{CurrencyCode: code, Rate: newRate, UpdatedAt: now}
	}
	s.mu.Unlock()

	return nil
}

// updateProductPrices recalculates the display price of every product
// whose pricing_method matches the currency code. Each product is updated
// independently and concurrently, best-effort: a failure on one product
// does not roll back the others. Failures are counted and logged.
func (s *Store) updateProductPrices(code string, rate float64) {
	rows, err := s.db.Query("SELECT id, base_price FROM products WHERE pricing_method = ?", code)
	if err != nil {
		log.Printf("rates: loading products for %s failed: %v", code, err)
		return
	}
	defer rows.Close()

	type productRow struct {
		id        int64
		basePrice float64
	}
	var products []productRow
	for rows.Next() {
		var p productRow
		if err := rows.Scan(&p.id, &p.basePrice); err != nil {
			log.Printf("rates: scanning product row failed: %v", err)
			return
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		log.Printf("rates: iterating products failed: %v", err)
		return
	}
	if len(products) == 0 {
		return
	}

	var wg sync.WaitGroup
	var failed int64
	var failedMu sync.Mutex

	for _, p := range products {
		wg.Add(1)
		go func(p productRow) {
			defer wg.Done()
			newPrice := math.Round(p.basePrice * rate)
			if _, err := s.db.Exec("UPDATE products SET price = ? WHERE id = ?", newPrice, p.id); err != nil {
				failedMu.Lock()
				failed++
				failedMu.Unlock()
				log.Printf("rates: price update for product %d failed: %v", p.id, err)
			}
		}(p)
	}
	wg.Wait()

	if failed > 0 {
		log.Printf("rates: %d of %d product price updates failed for %s", failed, len(products), code)
	}
}
