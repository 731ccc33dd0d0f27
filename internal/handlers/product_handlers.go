package handlers

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

//
// --- Product Handlers ---
//

const productColumns = "id, title, slug, description, category, price, base_price, pricing_method, min_order, max_order, image, gallery, video, is_featured, created_at"

// scanProduct reads one product row, unpacking the gallery JSON column.
func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var gallery sql.NullString
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Category,
		&p.Price, &p.BasePrice, &p.PricingMethod, &p.MinOrder, &p.MaxOrder,
		&p.Image, &gallery, &p.VideoURL, &p.IsFeatured, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if gallery.Valid && gallery.String != "" {
		_ = json.Unmarshal([]byte(gallery.String), &p.Gallery)
	}
	return &p, nil
}

func (h *Handlers) queryProducts(query string, args ...any) ([]models.Product, error) {
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProducts is the handler for GET /v1/products (newest first).
func (h *Handlers) GetProducts(c *gin.Context) {
	products, err := h.queryProducts("SELECT " + productColumns + " FROM products ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetFeaturedProducts is the handler for GET /v1/products/featured.
func (h *Handlers) GetFeaturedProducts(c *gin.Context) {
	products, err := h.queryProducts("SELECT " + productColumns + " FROM products WHERE is_featured = 1 LIMIT 4")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch featured products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	row := h.DB.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", c.Param("id"))
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type ProductInput struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Price         float64  `json:"price" binding:"gte=0"`
	BasePrice     float64  `json:"basePrice" binding:"gte=0"`
	PricingMethod string   `json:"pricingMethod" binding:"required,oneof=usd eur gold manual"`
	MinOrder      int      `json:"minOrder" binding:"gte=0"`
	MaxOrder      int      `json:"maxOrder" binding:"gte=0"`
	Image         string   `json:"image"`
	Gallery       []string `json:"gallery"`
	VideoURL      *string  `json:"video"`
	IsFeatured    bool     `json:"isFeatured"`
}

// displayPrice resolves the stored price for an input: currency-linked
// products derive it from the cached rate, manual products keep the given
// price as-is.
func (h *Handlers) displayPrice(input *ProductInput) float64 {
	if input.PricingMethod == "manual" {
		return input.Price
	}
	rate := h.Rates.Rate(input.PricingMethod)
	if rate <= 0 {
		// No rate known yet; keep whatever the admin typed until the next sync.
		return input.Price
	}
	return math.Round(input.BasePrice * rate)
}

// CreateProduct is the handler for POST /v1/admin/products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.MaxOrder > 0 && input.MinOrder > input.MaxOrder {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minOrder cannot exceed maxOrder"})
		return
	}

	galleryJSON, _ := json.Marshal(input.Gallery)

	result, err := h.DB.Exec(`
		INSERT INTO products (title, slug, description, category, price, base_price, pricing_method, min_order, max_order, image, gallery, video, is_featured, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Title, slug.Make(input.Title), input.Description, input.Category,
		h.displayPrice(&input), input.BasePrice, input.PricingMethod,
		input.MinOrder, input.MaxOrder,
		input.Image, string(galleryJSON), input.VideoURL, input.IsFeatured, time.Now(),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "id": id})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.MaxOrder > 0 && input.MinOrder > input.MaxOrder {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minOrder cannot exceed maxOrder"})
		return
	}

	galleryJSON, _ := json.Marshal(input.Gallery)

	result, err := h.DB.Exec(`
		UPDATE products
		SET title = ?, slug = ?, description = ?, category = ?, price = ?, base_price = ?, pricing_method = ?,
		    min_order = ?, max_order = ?, image = ?, gallery = ?, video = ?, is_featured = ?
		WHERE id = ?`,
		input.Title, slug.Make(input.Title), input.Description, input.Category,
		h.displayPrice(&input), input.BasePrice, input.PricingMethod,
		input.MinOrder, input.MaxOrder,
		input.Image, string(galleryJSON), input.VideoURL, input.IsFeatured,
		c.Param("id"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
