package models

import "time"

// Comment statuses for moderation.
const (
	CommentPending  = "pending"
	CommentApproved = "approved"
	CommentRejected = "rejected"
)

// Comment is the model for the 'comments' table. New comments always
// start as 'pending' and only show on the product page once approved.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Content   string    `json:"content" db:"content"`
	Rating    int       `json:"rating" db:"rating"` // 1..5
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Flattened join fields for listings
	UserFullName string `json:"userFullName,omitempty" db:"-"`
	ProductTitle string `json:"productTitle,omitempty" db:"-"`
}
