package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrNotReviewOwner = errors.New("not authorized to modify this review")
)

// ReviewPageSize is the default number of reviews per page.
const ReviewPageSize = 10

// ReviewInput carries the caller-editable review fields.
type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// ReviewListQuery holds the raw query values for a review listing.
type ReviewListQuery struct {
	Sort  string
	Page  string
	Limit string
}

// ReviewPage is a page of reviews plus the product's rating histogram.
type ReviewPage struct {
	Reviews    []*domain.Review      `json:"reviews"`
	Pagination Pagination            `json:"pagination"`
	Histogram  []domain.RatingBucket `json:"rating_breakdown"`
}

// ReviewService manages product reviews. Each mutation flows through the
// repository, which keeps the product rating aggregates in step.
type ReviewService interface {
	Create(ctx context.Context, sessionID string, userID, productID uuid.UUID, in ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, in ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	ListForProduct(ctx context.Context, productID uuid.UUID, q ReviewListQuery) (*ReviewPage, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      *zap.Logger
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// Create adds a review for the product. The verified-purchase badge is
// set when the caller's session has a paid order containing the
// product.
func (s *reviewService) Create(ctx context.Context, sessionID string, userID, productID uuid.UUID, in ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	// One review per user per product. The unique index in the
	// repository backstops a racing duplicate.
	if _, err := s.reviewRepo.FindByProductAndUser(ctx, productID, userID); err == nil {
		return nil, repository.ErrReviewAlreadyExists
	} else if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, err
	}

	verified, err := s.orderRepo.HasPaidOrderWithProduct(ctx, sessionID, productID)
	if err != nil {
		s.logger.Error("Failed to check purchase history for review",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return nil, err
	}

	now := time.Now()
	review := &domain.Review{
		ID:               uuid.New(),
		ProductID:        productID,
		UserID:           userID,
		Rating:           in.Rating,
		Title:            in.Title,
		Comment:          in.Comment,
		VerifiedPurchase: verified,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Update rewrites an existing review. Only the author may update it.
func (s *reviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, in ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != userID {
		return nil, ErrNotReviewOwner
	}

	review.Rating = in.Rating
	review.Title = in.Title
	review.Comment = in.Comment
	review.UpdatedAt = time.Now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review. Only the author may delete it.
func (s *reviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

// ListForProduct returns one page of a product's reviews together with
// its rating histogram.
func (s *reviewService) ListForProduct(ctx context.Context, productID uuid.UUID, q ReviewListQuery) (*ReviewPage, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	page := parsePositiveInt(q.Page, 1)
	limit := parsePositiveInt(q.Limit, ReviewPageSize)

	sort := q.Sort
	switch sort {
	case repository.ReviewSortNewest, repository.ReviewSortOldest,
		repository.ReviewSortRatingHigh, repository.ReviewSortRatingLow:
	default:
		sort = repository.ReviewSortNewest
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, sort, page, limit)
	if err != nil {
		return nil, err
	}

	histogram, err := s.reviewRepo.Histogram(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ReviewPage{
		Reviews:    reviews,
		Pagination: NewPagination(page, limit, total),
		Histogram:  histogram,
	}, nil
}
