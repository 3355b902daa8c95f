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
	ErrAddressNotFound = errors.New("address not found")
)

// AddressRepository stores each address as its own row scoped by
// session. Default-clearing runs in the same transaction as the write,
// so at most one address per session is the default.
type AddressRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Address, error)
	FindByID(ctx context.Context, sessionID string, id uuid.UUID) (*domain.Address, error)
	Create(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, sessionID string, id uuid.UUID) error
}

type addressRepository struct {
	db *sql.DB
}

// NewAddressRepository creates a new instance of AddressRepository
func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{db: db}
}

const addressColumns = `id, session_id, name, phone, address_line1, address_line2, city, state, postal_code, country, is_default, created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }) (*domain.Address, error) {
	a := &domain.Address{}
	err := row.Scan(
		&a.ID, &a.SessionID, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListBySession returns the session's address book, default first. A
// fresh session simply gets an empty list.
func (r *addressRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Address, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM addresses
		WHERE session_id = $1
		ORDER BY is_default DESC, created_at ASC
	`, addressColumns)

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*domain.Address{}
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

func (r *addressRepository) FindByID(ctx context.Context, sessionID string, id uuid.UUID) (*domain.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1 AND session_id = $2`, addressColumns)

	address, err := scanAddress(r.db.QueryRowContext(ctx, query, id, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to find address by ID: %w", err)
	}

	return address, nil
}

// Create inserts the address; when it is the new default, all other
// defaults for the session are cleared in the same transaction.
func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if address.IsDefault {
			if err := clearDefaults(ctx, tx, address.SessionID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO addresses (id, session_id, name, phone, address_line1, address_line2, city, state, postal_code, country, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`

		_, err := tx.ExecContext(ctx, query,
			address.ID, address.SessionID, address.Name, address.Phone,
			address.Line1, address.Line2, address.City, address.State,
			address.PostalCode, address.Country, address.IsDefault,
			address.CreatedAt, address.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}

		return nil
	})
}

// Update overwrites the address fields, applying the same
// default-clearing rule as Create.
func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if address.IsDefault {
			if err := clearDefaults(ctx, tx, address.SessionID); err != nil {
				return err
			}
		}

		query := `
			UPDATE addresses
			SET name = $3, phone = $4, address_line1 = $5, address_line2 = $6,
			    city = $7, state = $8, postal_code = $9, country = $10,
			    is_default = $11, updated_at = NOW()
			WHERE id = $1 AND session_id = $2
		`

		result, err := tx.ExecContext(ctx, query,
			address.ID, address.SessionID, address.Name, address.Phone,
			address.Line1, address.Line2, address.City, address.State,
			address.PostalCode, address.Country, address.IsDefault,
		)
		if err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return ErrAddressNotFound
		}

		return nil
	})
}

// Delete removes the address if present. Deleting an absent address is
// not an error.
func (r *addressRepository) Delete(ctx context.Context, sessionID string, id uuid.UUID) error {
	query := `DELETE FROM addresses WHERE id = $1 AND session_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, sessionID); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}

	return nil
}

func clearDefaults(ctx context.Context, tx *sql.Tx, sessionID string) error {
	query := `UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE session_id = $1 AND is_default = TRUE`

	if _, err := tx.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to clear default addresses: %w", err)
	}

	return nil
}
