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
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
)

// CartRepository stores carts as one row per session plus one row per
// line item, keyed by (cart, product, size). The keyed-row layout means
// a merge touches exactly one record instead of rewriting a whole
// per-session document.
type CartRepository interface {
	GetOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error)
	Find(ctx context.Context, sessionID string) (*domain.Cart, error)
	Items(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID, size string) (*domain.CartItem, error)
	AddItem(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error
	SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItems(ctx context.Context, cartID, productID uuid.UUID, size *string) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreate returns the session's cart, inserting an empty one on
// first access. The upsert keys on session_id, so repeated calls never
// create a second cart.
func (r *cartRepository) GetOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	query := `
		INSERT INTO carts (id, session_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id, session_id, created_at
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), sessionID, time.Now()).
		Scan(&cart.ID, &cart.SessionID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return cart, nil
}

// Find returns the session's cart without creating one.
func (r *cartRepository) Find(ctx context.Context, sessionID string) (*domain.Cart, error) {
	query := `SELECT id, session_id, created_at FROM carts WHERE session_id = $1`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&cart.ID, &cart.SessionID, &cart.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	return cart, nil
}

// Items returns the cart's line items with their products resolved.
func (r *cartRepository) Items(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT ci.id, ci.cart_id, ci.product_id, ci.size, ci.quantity, ci.created_at, ci.updated_at,
		       %s
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`, prefixedProductColumns("p"))

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item := &domain.CartItem{}
		var ps productScan
		dest := []any{&item.ID, &item.CartID, &item.ProductID, &item.Size, &item.Quantity, &item.CreatedAt, &item.UpdatedAt}
		dest = append(dest, ps.fields()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Product = ps.product()
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// FindItem returns the line item for the exact (product, size) key.
func (r *cartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size string) (*domain.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, size, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND size = $3
	`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, cartID, productID, size).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Size, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

// AddItem merges quantity into the (cart, product, size) line item,
// inserting the line when it does not exist yet. The merge is a single
// upsert statement, so concurrent adds cannot lose an increment.
func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, size, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (cart_id, product_id, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), cartID, productID, size, quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// SetItemQuantity replaces a line item's quantity (absolute set).
func (r *cartRepository) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// RemoveItems deletes all lines for the product, or only the exact
// (product, size) line when size is non-nil. Removing nothing is fine.
func (r *cartRepository) RemoveItems(ctx context.Context, cartID, productID uuid.UUID, size *string) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`
	args := []interface{}{cartID, productID}

	if size != nil {
		query += ` AND size = $3`
		args = append(args, *size)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove cart items: %w", err)
	}

	return nil
}

// Clear deletes every line item of the cart.
func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
