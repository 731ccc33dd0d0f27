package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

//
// --- Site Settings Handlers ---
//

// GetSettings is the handler for GET /v1/settings. site_settings holds a
// single row; a missing row comes back as empty defaults.
func (h *Handlers) GetSettings(c *gin.Context) {
	var s models.SiteSettings
	err := h.DB.QueryRow(
		"SELECT id, zarinpal_merchant, card_number, card_owner, card_shaba, bank_name FROM site_settings LIMIT 1",
	).Scan(&s.ID, &s.ZarinpalMerchant, &s.CardNumber, &s.CardOwner, &s.CardShaba, &s.BankName)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, s)
}

type SettingsInput struct {
	ZarinpalMerchant string `json:"zarinpalMerchant"`
	CardNumber       string `json:"cardNumber"`
	CardOwner        string `json:"cardOwner"`
	CardShaba        string `json:"cardShaba"`
	BankName         string `json:"bankName"`
}

// UpdateSettings is the handler for PATCH /v1/admin/settings. Upserts the
// single settings row.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var input SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM site_settings LIMIT 1").Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		_, err = h.DB.Exec(`
			INSERT INTO site_settings (zarinpal_merchant, card_number, card_owner, card_shaba, bank_name)
			VALUES (?, ?, ?, ?, ?)`,
			input.ZarinpalMerchant, input.CardNumber, input.CardOwner, input.CardShaba, input.BankName,
		)
	case err == nil:
		_, err = h.DB.Exec(`
			UPDATE site_settings
			SET zarinpal_merchant = ?, card_number = ?, card_owner = ?, card_shaba = ?, bank_name = ?
			WHERE id = ?`,
			input.ZarinpalMerchant, input.CardNumber, input.CardOwner, input.CardShaba, input.BankName, existingID,
		)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}

//
// --- Shipping Method Handlers ---
//

// GetShippingMethods is the handler for GET /v1/shipping-methods.
func (h *Handlers) GetShippingMethods(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, title, cost FROM shipping_methods ORDER BY cost")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping methods"})
		return
	}
	defer rows.Close()

	var methods []models.ShippingMethod
	for rows.Next() {
		var m models.ShippingMethod
		if err := rows.Scan(&m.ID, &m.Title, &m.Cost); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan shipping method"})
			return
		}
		methods = append(methods, m)
	}
	if methods == nil {
		methods = []models.ShippingMethod{}
	}

	c.JSON(http.StatusOK, gin.H{"shippingMethods": methods})
}

type ShippingMethodInput struct {
	Title string  `json:"title" binding:"required"`
	Cost  float64 `json:"cost" binding:"gte=0"`
}

// CreateShippingMethod is the handler for POST /v1/admin/shipping-methods.
func (h *Handlers) CreateShippingMethod(c *gin.Context) {
	var input ShippingMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec("INSERT INTO shipping_methods (title, cost) VALUES (?, ?)", input.Title, input.Cost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shipping method"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "Shipping method created", "id": id})
}

// DeleteShippingMethod is the handler for DELETE /v1/admin/shipping-methods/:id.
func (h *Handlers) DeleteShippingMethod(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM shipping_methods WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shipping method"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shipping method not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipping method deleted"})
}
