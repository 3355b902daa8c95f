package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// WishlistService manages a session's wishlist, a flat set of saved
// products with no quantity or size.
type WishlistService interface {
	List(ctx context.Context, sessionID string) ([]*domain.WishlistItem, error)
	Add(ctx context.Context, sessionID string, productID uuid.UUID) ([]*domain.WishlistItem, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) ([]*domain.WishlistItem, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService creates a new instance of WishlistService
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *wishlistService) List(ctx context.Context, sessionID string) ([]*domain.WishlistItem, error) {
	return s.wishlistRepo.ListBySession(ctx, sessionID)
}

// Add saves a product to the wishlist. Saving a product already on the
// list fails with ErrWishlistDuplicate.
func (s *wishlistService) Add(ctx context.Context, sessionID string, productID uuid.UUID) ([]*domain.WishlistItem, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.wishlistRepo.Add(ctx, sessionID, productID); err != nil {
		return nil, err
	}

	return s.wishlistRepo.ListBySession(ctx, sessionID)
}

// Remove drops a product from the wishlist. Removing a product that is
// not on the list is not an error.
func (s *wishlistService) Remove(ctx context.Context, sessionID string, productID uuid.UUID) ([]*domain.WishlistItem, error) {
	if err := s.wishlistRepo.Remove(ctx, sessionID, productID); err != nil {
		return nil, err
	}

	return s.wishlistRepo.ListBySession(ctx, sessionID)
}
