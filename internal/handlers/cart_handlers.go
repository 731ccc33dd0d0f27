package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/cart"
)

//
// --- Cart Handlers ---
//
// Carts live in memory per user (no persistence); the aggregator in
// internal/cart enforces the min/max quantity bounds.
//

func (h *Handlers) userCart(c *gin.Context) *cart.Cart {
	userIDRaw, _ := c.Get("userID")
	return h.Carts.Get(userIDRaw.(int64))
}

func cartResponse(userCart *cart.Cart) gin.H {
	items := userCart.Items()
	return gin.H{
		"items":      items,
		"totalItems": userCart.TotalItems(),
		"totalPrice": userCart.TotalPrice(),
	}
}

// GetCart is the handler for GET /v1/cart.
func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.userCart(c)))
}

type AddCartItemInput struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// AddCartItem is the handler for POST /v1/cart/items. A new line starts
// at the product's minimum order quantity; an existing line is bumped by
// one. Hitting the maximum is a warning, not an error, and the cart is
// returned unchanged.
func (h *Handlers) AddCartItem(c *gin.Context) {
	var input AddCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := h.DB.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", input.ProductID)
	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	userCart := h.userCart(c)
	if err := userCart.AddItem(*product); err != nil {
		if errors.Is(err, cart.ErrMaxOrderReached) {
			resp := cartResponse(userCart)
			resp["warning"] = "Maximum order quantity reached for this product"
			c.JSON(http.StatusOK, resp)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(userCart))
}

// DecreaseCartItem is the handler for POST /v1/cart/items/:product_id/decrease.
// Dropping below the minimum order quantity removes the line.
func (h *Handlers) DecreaseCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	userCart := h.userCart(c)
	userCart.DecreaseItem(productID)
	c.JSON(http.StatusOK, cartResponse(userCart))
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:product_id.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	userCart := h.userCart(c)
	userCart.RemoveItem(productID)
	c.JSON(http.StatusOK, cartResponse(userCart))
}

// ClearCart is the handler for DELETE /v1/cart.
func (h *Handlers) ClearCart(c *gin.Context) {
	userCart := h.userCart(c)
	userCart.Clear()
	c.JSON(http.StatusOK, cartResponse(userCart))
}
