package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var ErrMissingAddressFields = errors.New("name, phone, address line, city, state, postal code and country are required")

// AddressInput carries the caller-editable address fields.
type AddressInput struct {
	Name       string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

func (in AddressInput) complete() bool {
	return in.Name != "" && in.Phone != "" && in.Line1 != "" &&
		in.City != "" && in.State != "" && in.PostalCode != "" && in.Country != ""
}

// AddressService manages a session's address book. At most one address
// per session is the default; marking one clears the others.
type AddressService interface {
	List(ctx context.Context, sessionID string) ([]*domain.Address, error)
	Get(ctx context.Context, sessionID string, id uuid.UUID) (*domain.Address, error)
	Create(ctx context.Context, sessionID string, in AddressInput) (*domain.Address, error)
	Update(ctx context.Context, sessionID string, id uuid.UUID, in AddressInput) (*domain.Address, error)
	Delete(ctx context.Context, sessionID string, id uuid.UUID) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService creates a new instance of AddressService
func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

// List returns the session's addresses, default first.
func (s *addressService) List(ctx context.Context, sessionID string) ([]*domain.Address, error) {
	return s.addressRepo.ListBySession(ctx, sessionID)
}

func (s *addressService) Get(ctx context.Context, sessionID string, id uuid.UUID) (*domain.Address, error) {
	return s.addressRepo.FindByID(ctx, sessionID, id)
}

func (s *addressService) Create(ctx context.Context, sessionID string, in AddressInput) (*domain.Address, error) {
	if !in.complete() {
		return nil, ErrMissingAddressFields
	}

	now := time.Now()
	address := &domain.Address{
		ID:         uuid.New(),
		SessionID:  sessionID,
		Name:       in.Name,
		Phone:      in.Phone,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		IsDefault:  in.IsDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}

	return address, nil
}

func (s *addressService) Update(ctx context.Context, sessionID string, id uuid.UUID, in AddressInput) (*domain.Address, error) {
	if !in.complete() {
		return nil, ErrMissingAddressFields
	}

	address, err := s.addressRepo.FindByID(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	address.Name = in.Name
	address.Phone = in.Phone
	address.Line1 = in.Line1
	address.Line2 = in.Line2
	address.City = in.City
	address.State = in.State
	address.PostalCode = in.PostalCode
	address.Country = in.Country
	address.IsDefault = in.IsDefault
	address.UpdatedAt = time.Now()

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}

	return address, nil
}

// Delete removes an address. Deleting an address that does not exist is
// not an error.
func (s *addressService) Delete(ctx context.Context, sessionID string, id uuid.UUID) error {
	return s.addressRepo.Delete(ctx, sessionID, id)
}
