package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrWishlistDuplicate = errors.New("product already in wishlist")
)

// WishlistRepository stores one row per (session, product) pair with a
// unique index enforcing the set semantics.
type WishlistRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]*domain.WishlistItem, error)
	Add(ctx context.Context, sessionID string, productID uuid.UUID) error
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error
}

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// ListBySession returns the session's saved products with product data
// resolved. A fresh session gets an empty list.
func (r *wishlistRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.WishlistItem, error) {
	query := fmt.Sprintf(`
		SELECT wi.id, wi.session_id, wi.product_id, wi.created_at,
		       %s
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.session_id = $1
		ORDER BY wi.created_at ASC
	`, prefixedProductColumns("p"))

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer rows.Close()

	items := []*domain.WishlistItem{}
	for rows.Next() {
		item := &domain.WishlistItem{}
		var ps productScan
		dest := []any{&item.ID, &item.SessionID, &item.ProductID, &item.CreatedAt}
		dest = append(dest, ps.fields()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		item.Product = ps.product()
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return items, nil
}

// Add inserts the (session, product) pair. A product already present
// fails with ErrWishlistDuplicate, never silently no-ops.
func (r *wishlistRepository) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	query := `
		INSERT INTO wishlist_items (id, session_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), sessionID, productID, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrWishlistDuplicate
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// Remove deletes the pair if present; removing an absent product is not
// an error.
func (r *wishlistRepository) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	query := `DELETE FROM wishlist_items WHERE session_id = $1 AND product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, sessionID, productID); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	return nil
}
