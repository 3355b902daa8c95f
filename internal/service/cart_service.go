package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrSizeUnavailable   = errors.New("size not available for this product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartView is a cart with its line items resolved.
type CartView struct {
	Cart  *domain.Cart       `json:"cart"`
	Items []*domain.CartItem `json:"items"`
}

// CartService implements the session-scoped cart. Line items are keyed
// by (product, size): adding the same key merges quantities into one
// line, different sizes of the same product stay distinct lines.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*CartView, error)
	Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int, size string) (*CartView, error)
	Update(ctx context.Context, sessionID string, productID uuid.UUID, size string, quantity int) (*CartView, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID, size *string) (*CartView, error)
	Clear(ctx context.Context, sessionID string) (*CartView, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// Get returns the session's cart, creating an empty one on first
// access. Repeated calls never create a second cart.
func (s *cartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// Add puts quantity of (productID, size) into the cart, merging into an
// existing line with the same key. The merged total is validated
// against current stock before anything is written, so a rejected add
// leaves the existing line untouched.
func (s *cartService) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int, size string) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if size != "" && len(product.Sizes) > 0 && !product.HasSize(size) {
		return nil, ErrSizeUnavailable
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := quantity
	existing, err := s.cartRepo.FindItem(ctx, cart.ID, productID, size)
	if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, err
	}
	if existing != nil {
		merged += existing.Quantity
	}

	if merged > product.Stock {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, merged, product.Stock)
	}

	if err := s.cartRepo.AddItem(ctx, cart.ID, productID, size, quantity); err != nil {
		return nil, err
	}

	return s.view(ctx, cart)
}

// Update replaces the quantity of an existing line item (absolute set,
// not an increment).
func (s *cartService) Update(ctx context.Context, sessionID string, productID uuid.UUID, size string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, productID, size)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, product.Stock)
	}

	if err := s.cartRepo.SetItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}

	return s.view(ctx, cart)
}

// Remove deletes every line for the product, or only the exact
// (product, size) line when size is given. A missing match is not an
// error.
func (s *cartService) Remove(ctx context.Context, sessionID string, productID uuid.UUID, size *string) (*CartView, error) {
	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItems(ctx, cart.ID, productID, size); err != nil {
		return nil, err
	}

	return s.view(ctx, cart)
}

// Clear empties the cart. A session that never had a cart gets
// ErrCartNotFound.
func (s *cartService) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.view(ctx, cart)
}

func (s *cartService) view(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	items, err := s.cartRepo.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Items: items}, nil
}
