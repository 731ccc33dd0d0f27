package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

//
// --- Category Handlers ---
//

// GetCategories is the handler for GET /v1/categories (newest first).
func (h *Handlers) GetCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, title, slug, image, created_at FROM categories ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Title, &cat.Slug, &cat.Image, &cat.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category"})
			return
		}
		categories = append(categories, cat)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type CategoryInput struct {
	Title string `json:"title" binding:"required"`
	Image string `json:"image"`
}

// CreateCategory is the handler for POST /v1/admin/categories.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(
		"INSERT INTO categories (title, slug, image, created_at) VALUES (?, ?, ?, ?)",
		input.Title, slug.Make(input.Title), input.Image, time.Now(),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "id": id})
}

// UpdateCategory is the handler for PUT /v1/admin/categories/:id.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(
		"UPDATE categories SET title = ?, slug = ?, image = ? WHERE id = ?",
		input.Title, slug.Make(input.Title), input.Image, c.Param("id"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// DeleteCategory is the handler for DELETE /v1/admin/categories/:id.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM categories WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
