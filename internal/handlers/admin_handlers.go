package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/models"
	"github.com/mhnazari/zarshop-golang/internal/stats"
)

//
// --- Admin Dashboard Handlers ---
//

// fetchOrderHistory loads every order with its items (joined with the
// product category) for the statistics aggregator. The dashboard always
// recomputes from this full snapshot rather than keeping running totals.
func (h *Handlers) fetchOrderHistory() ([]models.Order, error) {
	rows, err := h.DB.Query("SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	byID := make(map[int64]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		byID[o.ID] = len(orders)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// A product can be deleted after being ordered, so the join is LEFT
	// and the category may come back NULL.
	itemRows, err := h.DB.Query(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase, oi.created_at,
		       COALESCE(p.title, ''), COALESCE(p.category, '')
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id`,
	)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.OrderItem
		if err := itemRows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase, &item.CreatedAt,
			&item.ProductTitle, &item.ProductCategory,
		); err != nil {
			return nil, err
		}
		if i, ok := byID[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return orders, itemRows.Err()
}

// GetAdminStats is the handler for GET /v1/admin/stats. Returns the
// scalar summary, the trailing-7-day revenue series, and the per-category
// series, all derived on demand from the full order history.
func (h *Handlers) GetAdminStats(c *gin.Context) {
	var productCount int
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&productCount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}

	orders, err := h.fetchOrderHistory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":         stats.Summarize(orders, productCount),
		"chartData":     stats.DailySeries(orders, time.Now()),
		"categoryStats": stats.CategorySeries(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusInput struct {
	Status       string  `json:"status" binding:"required,oneof=pending pending_approval paid processing shipped delivered cancelled"`
	TrackingCode *string `json:"trackingCode"`
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id/status.
// The status is set directly (no transition guard) along with an optional
// tracking code; the admin panel refetches the full stats afterwards.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(
		"UPDATE orders SET status = ?, tracking_code = ?, updated_at = ? WHERE id = ?",
		input.Status, input.TrackingCode, time.Now(), c.Param("id"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": input.Status})
}
