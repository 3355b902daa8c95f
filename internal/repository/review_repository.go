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
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this product and user")
)

// Review sort keys.
const (
	ReviewSortNewest     = "newest"
	ReviewSortOldest     = "oldest"
	ReviewSortRatingHigh = "rating_high"
	ReviewSortRatingLow  = "rating_low"
)

// ReviewRepository stores reviews and maintains the product rating
// aggregates. Every mutation recomputes rating and num_reviews over the
// full review set inside the same transaction as the write.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID, sort string, page, limit int) ([]*domain.Review, int, error)
	Histogram(ctx context.Context, productID uuid.UUID) ([]domain.RatingBucket, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, product_id, user_id, rating, title, comment, is_verified_purchase, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	rev := &domain.Review{}
	err := row.Scan(
		&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Title, &rev.Comment,
		&rev.VerifiedPurchase, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// recomputeAggregates rewrites the product's rating (mean over all
// reviews, 0 when none remain) and review count from the full set.
func recomputeAggregates(ctx context.Context, tx *sql.Tx, productID uuid.UUID) error {
	query := `
		UPDATE products
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = $1), 0),
		    num_reviews = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("failed to recompute product rating: %w", err)
	}

	return nil
}

// Create inserts the review and refreshes the product aggregates. The
// (product, user) unique index backs the pre-insert existence check
// made by the service, so a racing duplicate still fails.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO reviews (id, product_id, user_id, rating, title, comment, is_verified_purchase, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.ExecContext(ctx, query,
			review.ID, review.ProductID, review.UserID, review.Rating, review.Title, review.Comment,
			review.VerifiedPurchase, review.CreatedAt, review.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrReviewAlreadyExists
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		return recomputeAggregates(ctx, tx, review.ProductID)
	})
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE product_id = $1 AND user_id = $2`, reviewColumns)

	review, err := scanReview(r.db.QueryRowContext(ctx, query, productID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return review, nil
}

// Update overwrites rating, title and comment, then refreshes the
// product aggregates.
func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE reviews
			SET rating = $2, title = $3, comment = $4, updated_at = NOW()
			WHERE id = $1
		`

		result, err := tx.ExecContext(ctx, query, review.ID, review.Rating, review.Title, review.Comment)
		if err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return ErrReviewNotFound
		}

		return recomputeAggregates(ctx, tx, review.ProductID)
	})
}

// Delete removes the review and refreshes the product aggregates over
// the remaining set.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		var productID uuid.UUID
		err := tx.QueryRowContext(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrReviewNotFound
			}
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return recomputeAggregates(ctx, tx, productID)
	})
}

func reviewOrderClause(sort string) string {
	switch sort {
	case ReviewSortOldest:
		return "created_at ASC"
	case ReviewSortRatingHigh:
		return "rating DESC"
	case ReviewSortRatingLow:
		return "rating ASC"
	default:
		return "created_at DESC"
	}
}

// ListByProduct returns a page of the product's reviews plus the total
// count.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, sort string, page, limit int) ([]*domain.Review, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE product_id = $1
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, reviewColumns, reviewOrderClause(sort))

	rows, err := r.db.QueryContext(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, total, nil
}

// Histogram returns per-rating review counts, descending by rating.
func (r *reviewRepository) Histogram(ctx context.Context, productID uuid.UUID) ([]domain.RatingBucket, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE product_id = $1
		GROUP BY rating
		ORDER BY rating DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating distribution: %w", err)
	}
	defer rows.Close()

	buckets := []domain.RatingBucket{}
	for rows.Next() {
		var b domain.RatingBucket
		if err := rows.Scan(&b.Rating, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan rating bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating buckets: %w", err)
	}

	return buckets, nil
}
