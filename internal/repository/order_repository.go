package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/database"
	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository persists immutable order snapshots. An order and its
// items are written in one transaction; after that only the two
// fulfillment flags and their timestamps ever change.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Order, error)
	SaveFulfillment(ctx context.Context, order *domain.Order) error
	HasPaidOrderWithProduct(ctx context.Context, sessionID string, productID uuid.UUID) (bool, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, session_id, payment_method, items_price, tax_price, shipping_price, total_price,
	is_paid, paid_at, is_delivered, delivered_at,
	ship_name, ship_phone, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
	created_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(
		&o.ID, &o.SessionID, &o.PaymentMethod,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
		&o.ShippingAddress.Name, &o.ShippingAddress.Phone,
		&o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts the order and all of its items in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO orders (id, session_id, payment_method, items_price, tax_price, shipping_price, total_price,
				is_paid, paid_at, is_delivered, delivered_at,
				ship_name, ship_phone, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
				created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		`

		_, err := tx.ExecContext(ctx, query,
			order.ID, order.SessionID, order.PaymentMethod,
			order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
			order.IsPaid, order.PaidAt, order.IsDelivered, order.DeliveredAt,
			order.ShippingAddress.Name, order.ShippingAddress.Phone,
			order.ShippingAddress.Line1, order.ShippingAddress.Line2,
			order.ShippingAddress.City, order.ShippingAddress.State,
			order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
			order.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity, size)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		for i := range order.Items {
			item := &order.Items[i]
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.OrderID = order.ID

			_, err := tx.ExecContext(ctx, itemQuery,
				item.ID, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Size)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

// FindByID retrieves an order with its items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

// ListBySession returns the session's orders, newest first.
func (r *orderRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE session_id = $1 ORDER BY created_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	ids := []uuid.UUID{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, order := range orders {
			order.Items = items[order.ID]
		}
	}

	return orders, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, price, quantity, size
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, uuidArray(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := map[uuid.UUID][]domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Size); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// SaveFulfillment writes the fulfillment flags and timestamps. The
// first-write-wins rule is applied by the order service before calling
// this; COALESCE guards the timestamps a second time at the store.
func (r *orderRepository) SaveFulfillment(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET is_paid = $2,
		    paid_at = COALESCE(paid_at, $3),
		    is_delivered = $4,
		    delivered_at = COALESCE(delivered_at, $5)
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, order.ID, order.IsPaid, order.PaidAt, order.IsDelivered, order.DeliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update order fulfillment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// HasPaidOrderWithProduct reports whether the session has any paid
// order containing the product. Drives the verified-purchase flag.
func (r *orderRepository) HasPaidOrderWithProduct(ctx context.Context, sessionID string, productID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.session_id = $1 AND o.is_paid = TRUE AND oi.product_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, sessionID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check paid orders: %w", err)
	}

	return exists, nil
}

// uuidArray renders ids as a Postgres array literal. The stdlib driver
// has no native []uuid.UUID support.
func uuidArray(ids []uuid.UUID) string {
	out := "{"
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id.String()
	}
	return out + "}"
}
