package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. Rating and NumReviews are
// maintained by the review service; Stock by inventory updates. Cart and
// order code never writes these fields.
type Product struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Description   string           `json:"description" db:"description"`
	Price         decimal.Decimal  `json:"price" db:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" db:"original_price"`
	CategoryID    uuid.UUID        `json:"category_id" db:"category_id"`
	ImageURL      string           `json:"image_url" db:"image_url"`
	Stock         int              `json:"stock" db:"stock"`
	Sizes         []string         `json:"sizes" db:"sizes"`
	Featured      bool             `json:"featured" db:"featured"`
	Rating        decimal.Decimal  `json:"rating" db:"rating"`
	NumReviews    int              `json:"num_reviews" db:"num_reviews"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// OnSale reports whether the product carries a discount, i.e. an original
// price strictly above the current price.
func (p *Product) OnSale() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}

// HasSize reports whether size is one of the product's size labels. A
// product with an empty size set is sizeless and no size is valid for it.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
