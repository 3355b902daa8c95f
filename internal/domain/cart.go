package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart groups the line items of one session. A session has at most one
// cart; it is created lazily on first access.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartItem is a single line item, keyed by (cart, product, size). Two
// entries with the same product but different sizes are distinct lines;
// the same product+size pair always merges into one line.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Size      string    `json:"size,omitempty" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Product is the resolved product record, populated on reads.
	Product *Product `json:"product,omitempty" db:"-"`
}

// WishlistItem is one saved product for a session. Wishlists have set
// semantics: (session, product) is unique.
type WishlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}
