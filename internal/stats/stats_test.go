package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

func order(userID int64, status string, total float64, createdAt time.Time) models.Order {
	o := models.Order{Status: status, TotalPrice: total, CreatedAt: createdAt}
	if userID != 0 {
		o.UserID = &userID
	}
	return o
}

func TestRevenueCounted(t *testing.T) {
	for _, status := range []string{models.OrderPaid, models.OrderProcessing, models.OrderShipped, models.OrderDelivered} {
		assert.True(t, RevenueCounted(status), status)
	}
	for _, status := range []string{models.OrderPending, models.OrderPendingApproval, models.OrderCancelled, ""} {
		assert.False(t, RevenueCounted(status), status)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		order(1, models.OrderPaid, 100, now),
		order(1, models.OrderShipped, 200, now),  // same customer twice
		order(2, models.OrderPending, 500, now),  // not revenue, pending
		order(0, models.OrderDelivered, 50, now), // guest order, counts toward revenue
		order(3, models.OrderPendingApproval, 70, now),
		order(4, models.OrderCancelled, 999, now),
	}

	s := Summarize(orders, 12)

	assert.Equal(t, 12, s.TotalProducts)
	assert.Equal(t, 6, s.TotalOrders)
	assert.Equal(t, 350.0, s.TotalRevenue)
	assert.Equal(t, 2, s.PendingOrders)
	assert.Equal(t, 4, s.UniqueCustomers, "distinct non-null user IDs")
}

func TestDailySeriesShape(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)
	orders := []models.Order{
		order(1, models.OrderPaid, 1000, now.Add(-2*time.Hour)),                  // today
		order(1, models.OrderDelivered, 3000, now.AddDate(0, 0, -1)),             // yesterday
		order(2, models.OrderPending, 9999, now.AddDate(0, 0, -1)),               // not revenue counted
		order(2, models.OrderShipped, 1500, now.AddDate(0, 0, -6)),               // oldest bucket
		order(3, models.OrderPaid, 800, now.AddDate(0, 0, -7)),                   // outside the window
		order(3, models.OrderPaid, 500, now.AddDate(0, 0, -1).Add(5*time.Hour)),  // still yesterday by calendar day
	}

	series := DailySeries(orders, now)
	require.Len(t, series, 7)

	// Oldest first, today last
	assert.Equal(t, 1500.0, series[0].Value)
	assert.Equal(t, 3500.0, series[5].Value)
	assert.Equal(t, 2, series[5].Count)
	assert.Equal(t, 1000.0, series[6].Value)

	for _, p := range series {
		assert.GreaterOrEqual(t, p.Height, 0)
		assert.LessOrEqual(t, p.Height, 100)
	}

	// The maximum day normalizes to exactly 100
	assert.Equal(t, 100, series[5].Height)
	assert.Equal(t, 43, series[0].Height, "round(1500/3500*100)")
	assert.Equal(t, 29, series[6].Height, "round(1000/3500*100)")
}

func TestDailySeriesAllZeroUsesFlooredMax(t *testing.T) {
	series := DailySeries(nil, time.Now())
	require.Len(t, series, 7)
	for _, p := range series {
		assert.Equal(t, 0.0, p.Value)
		assert.Equal(t, 0, p.Height, "max floored at 1, no division by zero")
	}
}

func item(category string, price float64, qty int) models.OrderItem {
	return models.OrderItem{ProductCategory: category, PriceAtPurchase: price, Quantity: qty}
}

func TestCategorySeries(t *testing.T) {
	now := time.Now()
	paid := order(1, models.OrderPaid, 0, now)
	paid.Items = []models.OrderItem{
		item("rings", 1000, 2), // 2000
		item("", 500, 1),       // unspecified bucket
	}
	shipped := order(2, models.OrderShipped, 0, now)
	shipped.Items = []models.OrderItem{
		item("rings", 500, 2),     // rings -> 3000 total
		item("necklaces", 4000, 1), // 4000
	}
	pending := order(3, models.OrderPending, 0, now)
	pending.Items = []models.OrderItem{
		item("rings", 99999, 5), // ignored, not revenue counted
	}

	series := CategorySeries([]models.Order{paid, shipped, pending})
	require.Len(t, series, 3)

	// Ordered by value descending
	assert.Equal(t, "necklaces", series[0].Label)
	assert.Equal(t, 4000.0, series[0].Value)
	assert.Equal(t, 100, series[0].Height)

	assert.Equal(t, "rings", series[1].Label)
	assert.Equal(t, 3000.0, series[1].Value)
	assert.Equal(t, 4, series[1].Count)
	assert.Equal(t, 75, series[1].Height)

	assert.Equal(t, UncategorizedLabel, series[2].Label)
	assert.Equal(t, 500.0, series[2].Value)
	assert.Equal(t, 1, series[2].Count)
}

func TestCategorySeriesEmpty(t *testing.T) {
	assert.Empty(t, CategorySeries(nil))
}
