package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

//
// --- Coupon Handlers ---
//

// GetCoupons is the handler for GET /v1/admin/coupons.
func (h *Handlers) GetCoupons(c *gin.Context) {
	coupons, err := h.Coupons.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

type CreateCouponInput struct {
	Code           string  `json:"code" binding:"required"`
	DiscountType   string  `json:"discountType" binding:"required,oneof=percent fixed"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	MinOrderAmount float64 `json:"minOrderAmount" binding:"gte=0"`
	ExpiresAt      *string `json:"expiresAt"` // RFC3339, optional
	UsageLimit     *int    `json:"usageLimit" binding:"omitempty,gt=0"`
}

// CreateCoupon is the handler for POST /v1/admin/coupons.
func (h *Handlers) CreateCoupon(c *gin.Context) {
	var input CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon := models.Coupon{
		Code:           input.Code,
		DiscountType:   input.DiscountType,
		Amount:         input.Amount,
		MinOrderAmount: input.MinOrderAmount,
		UsageLimit:     input.UsageLimit,
	}

	if input.ExpiresAt != nil && *input.ExpiresAt != "" {
		t, err := parseRFC3339(*input.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be an RFC3339 timestamp"})
			return
		}
		coupon.ExpiresAt = &t
	}

	if err := h.Coupons.Create(&coupon); err != nil {
		// The unique index on code trips here for duplicates
		c.JSON(http.StatusConflict, gin.H{"error": "A coupon with this code already exists"})
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

// DeleteCoupon is the handler for DELETE /v1/admin/coupons/:id.
func (h *Handlers) DeleteCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	if err := h.Coupons.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

type ValidateCouponInput struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"orderAmount" binding:"gte=0"`
}

// ValidateCoupon is the handler for POST /v1/coupons/validate. Invalid
// codes come back as 200 with valid=false and a reason, so the cart can
// show inline feedback.
func (h *Handlers) ValidateCoupon(c *gin.Context) {
	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Coupons.Validate(input.Code, input.OrderAmount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}

	c.JSON(http.StatusOK, result)
}
