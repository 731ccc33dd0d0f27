package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

//
// --- Comment Handlers ---
//

// GetProductComments is the handler for GET /v1/products/:id/comments.
// Only approved comments are visible on the product page.
func (h *Handlers) GetProductComments(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT cm.id, cm.user_id, cm.product_id, cm.content, cm.rating, cm.status, cm.created_at, p.full_name
		FROM comments cm
		JOIN profiles p ON cm.user_id = p.id
		WHERE cm.product_id = ? AND cm.status = 'approved'
		ORDER BY cm.created_at DESC`,
		c.Param("id"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.ProductID, &cm.Content, &cm.Rating, &cm.Status, &cm.CreatedAt, &cm.UserFullName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan comment"})
			return
		}
		comments = append(comments, cm)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type AddCommentInput struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

// AddComment is the handler for POST /v1/products/:id/comments.
// New comments always start as 'pending' and wait for moderation.
func (h *Handlers) AddComment(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input AddCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO comments (user_id, product_id, content, rating, status, created_at)
		VALUES (?, ?, ?, ?, 'pending', ?)`,
		userID, c.Param("id"), input.Content, input.Rating, time.Now(),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "Comment submitted for review", "id": id})
}

// GetAllComments is the handler for GET /v1/admin/comments.
func (h *Handlers) GetAllComments(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT cm.id, cm.user_id, cm.product_id, cm.content, cm.rating, cm.status, cm.created_at, p.full_name, pr.title
		FROM comments cm
		JOIN profiles p ON cm.user_id = p.id
		JOIN products pr ON cm.product_id = pr.id
		ORDER BY cm.created_at DESC`,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.ProductID, &cm.Content, &cm.Rating, &cm.Status, &cm.CreatedAt, &cm.UserFullName, &cm.ProductTitle); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan comment"})
			return
		}
		comments = append(comments, cm)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type CommentStatusInput struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// UpdateCommentStatus is the handler for PATCH /v1/admin/comments/:id.
func (h *Handlers) UpdateCommentStatus(c *gin.Context) {
	var input CommentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec("UPDATE comments SET status = ? WHERE id = ?", input.Status, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment status updated"})
}

// DeleteComment is the handler for DELETE /v1/admin/comments/:id.
func (h *Handlers) DeleteComment(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM comments WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
