// Package stats derives the admin dashboard figures from the full order
// history. Everything here is a pure function over a snapshot: the
// handlers fetch the orders (with nested items and product category) and
// recompute on demand, there is no incremental state.
package stats

import (
	"math"
	"time"

	"github.com/mhnazari/zarshop-golang/internal/models"
)

// UncategorizedLabel is the bucket for order items whose product carries
// no category (fa: "unspecified", matching the storefront locale).
const UncategorizedLabel = "نامشخص"

// Persian weekday names used as daily-series labels.
var weekdayNames = map[time.Weekday]string{
	time.Saturday:  "شنبه",
	time.Sunday:    "یکشنبه",
	time.Monday:    "دوشنبه",
	time.Tuesday:   "سه‌شنبه",
	time.Wednesday: "چهارشنبه",
	time.Thursday:  "پنجشنبه",
	time.Friday:    "جمعه",
}

// RevenueCounted reports whether an order status counts toward revenue
// and category statistics.
func RevenueCounted(status string) bool {
	switch status {
	case models.OrderPaid, models.OrderProcessing, models.OrderShipped, models.OrderDelivered:
		return true
	}
	return false
}

// Summary is the scalar KPI block of the admin dashboard.
type Summary struct {
	TotalProducts   int     `json:"totalProducts"`
	TotalOrders     int     `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingOrders   int     `json:"pendingOrders"`
	UniqueCustomers int     `json:"uniqueCustomers"`
}

// Summarize computes the scalar summary. Revenue sums total_price over
// revenue-counted orders; pending counts pending and pending_approval;
// customers are distinct non-null user IDs across all orders.
func Summarize(orders []models.Order, productCount int) Summary {
	s := Summary{
		TotalProducts: productCount,
		TotalOrders:   len(orders),
	}

	customers := make(map[int64]struct{})
	for _, o := range orders {
		if RevenueCounted(o.Status) {
			s.TotalRevenue += o.TotalPrice
		}
		if o.Status == models.OrderPending || o.Status == models.OrderPendingApproval {
			s.PendingOrders++
		}
		if o.UserID != nil {
			customers[*o.UserID] = struct{}{}
		}
	}
	s.UniqueCustomers = len(customers)
	return s
}

// Point is one bar of a dashboard chart. Height is the value normalized
// against the series maximum, as an integer percentage in [0,100].
type Point struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
	Height int     `json:"height"`
}

// DailySeries returns revenue for each of the trailing 7 calendar days,
// today included. Orders are matched by calendar day (year/month/day), not
// by a rolling 24h window, and only revenue-counted statuses contribute.
func DailySeries(orders []models.Order, now time.Time) []Point {
	const days = 7
	series := make([]Point, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		y, m, d := day.Date()

		p := Point{Label: weekdayNames[day.Weekday()]}
		for _, o := range orders {
			oy, om, od := o.CreatedAt.Date()
			if oy == y && om == m && od == d && RevenueCounted(o.Status) {
				p.Value += o.TotalPrice
				p.Count++
			}
		}
		series = append(series, p)
	}

	normalizeHeights(series)
	return series
}

// CategorySeries accumulates revenue-counted order items per product
// category: value += price_at_purchase * quantity, count += quantity.
// Items without a category fall into the "unspecified" bucket. The result
// is ordered by value descending.
func CategorySeries(orders []models.Order) []Point {
	type bucket struct {
		value float64
		count int
	}
	byCategory := make(map[string]*bucket)
	var labels []string // first-seen order, for a stable sort

	for _, o := range orders {
		if !RevenueCounted(o.Status) {
			continue
		}
		for _, item := range o.Items {
			cat := item.ProductCategory
			if cat == "" {
				cat = UncategorizedLabel
			}
			b, ok := byCategory[cat]
			if !ok {
				b = &bucket{}
				byCategory[cat] = b
				labels = append(labels, cat)
			}
			b.value += item.PriceAtPurchase * float64(item.Quantity)
			b.count += item.Quantity
		}
	}

	series := make([]Point, 0, len(labels))
	for _, label := range labels {
		b := byCategory[label]
		series = append(series, Point{Label: label, Value: b.value, Count: b.count})
	}

	// Largest category first
	for i := 1; i < len(series); i++ {
		for j := i; j > 0 && series[j].Value > series[j-1].Value; j-- {
			series[j], series[j-1] = series[j-1], series[j]
		}
	}

	normalizeHeights(series)
	return series
}

// normalizeHeights sets each point's height to round(value/max*100). The
// maximum is floored at 1 so an all-zero series divides cleanly.
func normalizeHeights(series []Point) {
	maxVal := 1.0
	for _, p := range series {
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	for i := range series {
		series[i].Height = int(math.Round(series[i].Value / maxVal * 100))
	}
}
