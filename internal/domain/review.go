package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a product review by one authenticated user. A user reviews a
// given product at most once.
type Review struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ProductID        uuid.UUID `json:"product_id" db:"product_id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	Rating           int       `json:"rating" db:"rating"`
	Title            string    `json:"title" db:"title"`
	Comment          string    `json:"comment" db:"comment"`
	VerifiedPurchase bool      `json:"is_verified_purchase" db:"is_verified_purchase"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// RatingBucket is one bar of a product's rating histogram.
type RatingBucket struct {
	Rating int `json:"rating" db:"rating"`
	Count  int `json:"count" db:"count"`
}
