package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

//
// --- Order Handlers (Customer) ---
//

type CheckoutInput struct {
	ShippingMethodID int64  `json:"shippingMethodId" binding:"required"`
	CouponCode       string `json:"couponCode"`
}

// Checkout is the handler for POST /v1/checkout. It turns the in-memory
// cart into a persisted order: validates the optional coupon against the
// cart total, adds the shipping cost, snapshots each line into
// order_items with its price at purchase, and clears the cart. New orders
// start as 'pending' until the customer submits a payment reference.
func (h *Handlers) Checkout(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCart := h.Carts.Get(userID)
	items := userCart.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}
	subtotal := userCart.TotalPrice()

	// 1. --- Shipping Method ---
	var shippingCost float64
	err := h.DB.QueryRow("SELECT cost FROM shipping_methods WHERE id = ?", input.ShippingMethodID).Scan(&shippingCost)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown shipping method"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shipping method"})
		return
	}

	// 2. --- Optional Coupon ---
	var discount float64
	var coupon *models.Coupon
	if input.CouponCode != "" {
		result, err := h.Coupons.Validate(input.CouponCode, subtotal)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
			return
		}
		if !result.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Message, "reason": result.Reason})
			return
		}
		coupon = result.Coupon
		discount = coupon.DiscountOn(subtotal)
	}

	total := subtotal - discount + shippingCost

	// 3. --- Create Order + Items in one transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	now := time.Now()
	paymentRef := uuid.NewString()
	var couponCode any
	if coupon != nil {
		couponCode = coupon.Code
	}

	result, err := tx.Exec(`
		INSERT INTO orders (user_id, status, total_price, discount, shipping_cost, coupon_code, payment_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, models.OrderPending, total, discount, shippingCost, couponCode, paymentRef, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new order ID"})
		return
	}

	for _, item := range items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			orderID, item.Product.ID, item.Quantity, item.Product.Price, now,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order item"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// 4. --- Post-commit side effects (best effort) ---
	if coupon != nil {
		if err := h.Coupons.IncrementUsage(coupon.ID); err != nil {
			log.Printf("Failed to increment usage for coupon %d: %v", coupon.ID, err)
		}
	}
	userCart.Clear()

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Order placed",
		"orderId":    orderID,
		"status":     models.OrderPending,
		"totalPrice": total,
		"discount":   discount,
		"paymentRef": paymentRef,
	})
}

type SubmitPaymentInput struct {
	PaymentRef string `json:"paymentRef" binding:"required"`
}

// SubmitPayment is the handler for POST /v1/orders/:id/payment. The
// customer reports the card-transfer reference; the order moves to
// 'pending_approval' for the admin to confirm.
func (h *Handlers) SubmitPayment(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input SubmitPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE orders SET status = ?, payment_ref = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND status = ?`,
		models.OrderPendingApproval, input.PaymentRef, time.Now(),
		c.Param("id"), userID, models.OrderPending,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or not awaiting payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment submitted for review", "status": models.OrderPendingApproval})
}

const orderColumns = "id, user_id, status, total_price, discount, shipping_cost, coupon_code, payment_ref, tracking_code, created_at, updated_at"

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.Discount, &o.ShippingCost,
		&o.CouponCode, &o.PaymentRef, &o.TrackingCode, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetMyOrders is the handler for GET /v1/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	rows, err := h.DB.Query(
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, *o)
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id. Only the owner
// can read an order.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	row := h.DB.QueryRow(
		"SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ?",
		c.Param("id"), userID,
	)
	o, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	items, err := h.queryOrderItems(o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	o.Items = items

	c.JSON(http.StatusOK, o)
}

// queryOrderItems loads an order's items joined with product title and
// category. The join is a LEFT JOIN so lines survive product deletion;
// a missing product falls back to a placeholder title and an empty
// category.
func (h *Handlers) queryOrderItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := h.DB.Query(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase, oi.created_at,
		       COALESCE(p.title, 'محصول حذف‌شده'), COALESCE(p.category, '')
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase, &item.CreatedAt,
			&item.ProductTitle, &item.ProductCategory,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
