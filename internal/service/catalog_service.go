package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultPageSize is the catalog page size when the caller supplies
	// none.
	DefaultPageSize = 12

	// RecommendationLimit caps the same-category recommendation list.
	RecommendationLimit = 4
)

// ListQuery carries the raw catalog query parameters as they arrive at
// the boundary. Everything is string-typed; coercion happens here.
type ListQuery struct {
	Category string // single id or comma-separated list
	Rating   string // inclusive minimum rating
	Sort     string
	Search   string
	Featured string // "true" to restrict to featured products
	Page     string
	Limit    string
}

// CatalogService exposes catalog browsing: filtered/sorted/paginated
// listings, fixed-filter sale and featured views, same-category
// recommendations and category lookups.
type CatalogService interface {
	ListProducts(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	SaleProducts(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error)
	FeaturedProducts(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error)
	Recommended(ctx context.Context, productID uuid.UUID) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// buildFilter coerces the raw query into a storage filter. Invalid
// category ids and non-numeric ratings are dropped, not errors.
func buildFilter(q ListQuery) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: q.Search,
		Sort:   q.Sort,
		Page:   parsePositiveInt(q.Page, 1),
		Limit:  parsePositiveInt(q.Limit, DefaultPageSize),
	}

	for _, raw := range strings.Split(q.Category, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	if q.Rating != "" {
		if min, err := decimal.NewFromString(q.Rating); err == nil {
			filter.MinRating = &min
		}
	}

	if strings.EqualFold(q.Featured, "true") {
		filter.FeaturedOnly = true
	}

	return filter
}

func (s *catalogService) list(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, Pagination, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list products: %w", err)
	}
	return products, NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *catalogService) ListProducts(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error) {
	return s.list(ctx, buildFilter(q))
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// SaleProducts is the fixed-filter discounted view, ordered by discount
// descending unless the caller picks another sort.
func (s *catalogService) SaleProducts(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error) {
	filter := buildFilter(q)
	filter.OnSaleOnly = true
	if filter.Sort == "" || filter.Sort == repository.SortDefault {
		filter.Sort = repository.SortDiscountHighLow
	}
	return s.list(ctx, filter)
}

// FeaturedProducts is the fixed-filter featured view.
func (s *catalogService) FeaturedProducts(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error) {
	filter := buildFilter(q)
	filter.FeaturedOnly = true
	return s.list(ctx, filter)
}

// Recommended returns up to four products from the same category,
// excluding the product itself. Category match is the only criterion.
func (s *catalogService) Recommended(ctx context.Context, productID uuid.UUID) ([]*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.productRepo.Recommended(ctx, product.CategoryID, product.ID, RecommendationLimit)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}
