package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Catalog sort keys accepted at the boundary. Anything else falls back
// to SortDefault.
const (
	SortPriceLowHigh    = "price_low_high"
	SortPriceHighLow    = "price_high_low"
	SortRatingHighLow   = "rating_high_low"
	SortNewest          = "newest"
	SortDiscountHighLow = "discount_high_low"
	SortDefault         = "default"
)

// ProductFilter describes a catalog listing query: filters, ordering
// and the pagination window.
type ProductFilter struct {
	CategoryIDs  []uuid.UUID
	MinRating    *decimal.Decimal
	FeaturedOnly bool
	OnSaleOnly   bool
	Search       string
	Sort         string
	Page         int
	Limit        int
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
	Recommended(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, original_price, category_id, image_url, stock, sizes, featured, rating, num_reviews, created_at, updated_at`

// prefixedProductColumns qualifies productColumns with a table alias
// for join queries.
func prefixedProductColumns(alias string) string {
	cols := strings.Split(productColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// productScan collects the scan targets for one product row. Sizes are
// stored as a comma-joined text column and split after scanning.
type productScan struct {
	p     domain.Product
	sizes string
}

func (s *productScan) fields() []any {
	return []any{
		&s.p.ID,
		&s.p.Name,
		&s.p.Description,
		&s.p.Price,
		&s.p.OriginalPrice,
		&s.p.CategoryID,
		&s.p.ImageURL,
		&s.p.Stock,
		&s.sizes,
		&s.p.Featured,
		&s.p.Rating,
		&s.p.NumReviews,
		&s.p.CreatedAt,
		&s.p.UpdatedAt,
	}
}

func (s *productScan) product() *domain.Product {
	if s.sizes != "" {
		s.p.Sizes = strings.Split(s.sizes, ",")
	}
	return &s.p
}

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var s productScan
	if err := row.Scan(s.fields()...); err != nil {
		return nil, err
	}
	return s.product(), nil
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, original_price, category_id, image_url, stock, sizes, featured, rating, num_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.CategoryID,
		product.ImageURL,
		product.Stock,
		strings.Join(product.Sizes, ","),
		product.Featured,
		product.Rating,
		product.NumReviews,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// orderClause maps a sort key onto a safe ORDER BY expression. Sort
// keys are whitelisted here; user input never reaches the SQL text.
func orderClause(sort string) string {
	switch sort {
	case SortPriceLowHigh:
		return "price ASC"
	case SortPriceHighLow:
		return "price DESC"
	case SortRatingHighLow:
		return "rating DESC"
	case SortNewest:
		return "created_at DESC"
	case SortDiscountHighLow:
		return "(COALESCE(original_price, price) - price) DESC"
	default:
		return "created_at DESC"
	}
}

// List retrieves a page of products matching the filter plus the total
// match count. An out-of-range page yields an empty slice, not an error.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if len(filter.CategoryIDs) > 0 {
		placeholders := make([]string, len(filter.CategoryIDs))
		for i, id := range filter.CategoryIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, id)
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("category_id IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIndex))
		args = append(args, *filter.MinRating)
		argIndex++
	}

	if filter.FeaturedOnly {
		conditions = append(conditions, "featured = TRUE")
	}

	if filter.OnSaleOnly {
		conditions = append(conditions, "original_price IS NOT NULL AND original_price > price")
	}

	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, orderClause(filter.Sort), argIndex, argIndex+1)

	args = append(args, filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// Recommended returns up to limit products sharing a category,
// excluding the product itself. Category match is the only criterion.
func (r *productRepository) Recommended(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE category_id = $1 AND id <> $2
		LIMIT $3
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, categoryID, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommended products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommended products: %w", err)
	}

	return products, nil
}
