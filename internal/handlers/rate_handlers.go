package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Exchange Rate Handlers ---
//

// GetRates is the handler for GET /v1/rates. Serves the cached snapshot
// after a best-effort refresh; a failed refresh still returns the last
// known rates.
func (h *Handlers) GetRates(c *gin.Context) {
	rates, _ := h.Rates.FetchRates()
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

type UpdateRateInput struct {
	Rate float64 `json:"rate" binding:"required,gt=0"`
}

// UpdateRate is the handler for PATCH /v1/admin/rates/:code. Persists the
// rate and pushes the change into every product priced in that currency.
func (h *Handlers) UpdateRate(c *gin.Context) {
	var input UpdateRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := c.Param("code")
	if err := h.Rates.UpdateRate(code, input.Rate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rate updated and product prices recalculated", "currencyCode": code, "rate": input.Rate})
}

// SyncLiveRates is the handler for POST /v1/admin/rates/sync. Pulls live
// market quotes and reports how many rates were updated. A transport
// failure and "no matching symbol" are reported differently.
func (h *Handlers) SyncLiveRates(c *gin.Context) {
	updated, err := h.Rates.SyncLiveRates(c.Request.Context(), h.Market)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the market data service"})
		return
	}

	if updated == 0 {
		c.JSON(http.StatusOK, gin.H{"updated": 0, "message": "No matching symbols found in the market response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated, "message": "Rates updated and product prices recalculated"})
}
