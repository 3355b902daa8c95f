package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrOrderAccessDenied = errors.New("not authorized to access this order")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
)

// DefaultPaymentMethod applies when the caller names none.
const DefaultPaymentMethod = "COD"

// PricingRules are the server-side pricing constants for direct
// purchases: flat tax rate on the item subtotal, and free shipping
// above a subtotal threshold.
type PricingRules struct {
	TaxRate           decimal.Decimal
	FreeShippingAbove decimal.Decimal
	ShippingFee       decimal.Decimal
}

// DefaultPricingRules returns the stock rules: 10% tax, free shipping
// strictly above 1000, flat fee of 100 otherwise.
func DefaultPricingRules() PricingRules {
	return PricingRules{
		TaxRate:           decimal.RequireFromString("0.10"),
		FreeShippingAbove: decimal.NewFromInt(1000),
		ShippingFee:       decimal.NewFromInt(100),
	}
}

// PricingFromConfig parses the configured rules, falling back to the
// defaults for any value that does not parse.
func PricingFromConfig(cfg config.PricingConfig) PricingRules {
	rules := DefaultPricingRules()
	if v, err := decimal.NewFromString(cfg.TaxRate); err == nil {
		rules.TaxRate = v
	}
	if v, err := decimal.NewFromString(cfg.FreeShippingAbove); err == nil {
		rules.FreeShippingAbove = v
	}
	if v, err := decimal.NewFromString(cfg.ShippingFee); err == nil {
		rules.ShippingFee = v
	}
	return rules
}

// OrderItemInput is one caller-priced line for a cart checkout.
type OrderItemInput struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Size      string
}

// CheckoutInput is a cart checkout: the caller supplies the priced
// items and price parts. There is no server-side repricing on this
// path; only total = items+tax+shipping is computed here.
type CheckoutInput struct {
	Items           []OrderItemInput
	ShippingAddress domain.AddressSnapshot
	PaymentMethod   string
	ItemsPrice      decimal.Decimal
	TaxPrice        decimal.Decimal
	ShippingPrice   decimal.Decimal
}

// DirectPurchaseInput is a single-product buy-now order. Pricing is
// computed server-side from the current product price.
type DirectPurchaseInput struct {
	ProductID       uuid.UUID
	Quantity        int
	Size            string
	ShippingAddress domain.AddressSnapshot
	PaymentMethod   string
}

// FulfillmentUpdate carries the optional fulfillment transitions. Each
// flag is independent; a nil pointer leaves the flag untouched.
type FulfillmentUpdate struct {
	IsPaid      *bool
	PaidAt      *time.Time
	IsDelivered *bool
	DeliveredAt *time.Time
}

// OrderService turns priced line items into immutable order snapshots
// and tracks their fulfillment state.
type OrderService interface {
	CreateFromCart(ctx context.Context, sessionID string, in CheckoutInput) (*domain.Order, error)
	CreateDirect(ctx context.Context, sessionID string, in DirectPurchaseInput) (*domain.Order, error)
	Get(ctx context.Context, sessionID string, orderID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, sessionID string) ([]*domain.Order, error)
	UpdateFulfillment(ctx context.Context, orderID uuid.UUID, in FulfillmentUpdate) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	pricing     PricingRules
	logger      *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	pricing PricingRules,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		pricing:     pricing,
		logger:      logger,
	}
}

// CreateFromCart persists the order, then empties the session's cart as
// a follow-up step. The two steps are deliberately not one transaction:
// if the cart clear fails the order is already durable, so the failure
// is logged and the order returned anyway.
func (s *orderService) CreateFromCart(ctx context.Context, sessionID string, in CheckoutInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	order := &domain.Order{
		ID:              uuid.New(),
		SessionID:       sessionID,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      in.ItemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.ItemsPrice.Add(in.TaxPrice).Add(in.ShippingPrice),
		CreatedAt:       time.Now(),
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.clearCart(ctx, sessionID)

	return order, nil
}

// clearCart empties the session's cart after checkout. Failures are
// logged, never surfaced: the order already exists.
func (s *orderService) clearCart(ctx context.Context, sessionID string) {
	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			s.logger.Error("Failed to look up cart after order creation",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return
	}

	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		s.logger.Error("Failed to clear cart after order creation",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

// CreateDirect prices a single-product order server-side from the
// current product record. The cart is not touched.
func (s *orderService) CreateDirect(ctx context.Context, sessionID string, in DirectPurchaseInput) (*domain.Order, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	if in.Size != "" && len(product.Sizes) > 0 && !product.HasSize(in.Size) {
		return nil, ErrSizeUnavailable
	}

	itemsPrice := product.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	taxPrice := itemsPrice.Mul(s.pricing.TaxRate)
	shippingPrice := s.pricing.ShippingFee
	if itemsPrice.GreaterThan(s.pricing.FreeShippingAbove) {
		shippingPrice = decimal.Zero
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	order := &domain.Order{
		ID:        uuid.New(),
		SessionID: sessionID,
		Items: []domain.OrderItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  in.Quantity,
			Size:      in.Size,
		}},
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      itemsPrice.Add(taxPrice).Add(shippingPrice),
		CreatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Get returns the order if it belongs to the caller's session.
func (s *orderService) Get(ctx context.Context, sessionID string, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.SessionID != sessionID {
		return nil, ErrOrderAccessDenied
	}

	return order, nil
}

// List returns the session's orders, newest first.
func (s *orderService) List(ctx context.Context, sessionID string) ([]*domain.Order, error) {
	return s.orderRepo.ListBySession(ctx, sessionID)
}

// UpdateFulfillment applies the requested flag transitions. A
// fulfillment timestamp is set the first time its flag becomes true
// (to the supplied value, or to now) and is never overwritten by later
// calls, even when the flag is toggled true again.
func (s *orderService) UpdateFulfillment(ctx context.Context, orderID uuid.UUID, in FulfillmentUpdate) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if in.IsPaid != nil {
		order.IsPaid = *in.IsPaid
		if order.IsPaid && order.PaidAt == nil {
			t := time.Now()
			if in.PaidAt != nil {
				t = *in.PaidAt
			}
			order.PaidAt = &t
		}
	}

	if in.IsDelivered != nil {
		order.IsDelivered = *in.IsDelivered
		if order.IsDelivered && order.DeliveredAt == nil {
			t := time.Now()
			if in.DeliveredAt != nil {
				t = *in.DeliveredAt
			}
			order.DeliveredAt = &t
		}
	}

	if err := s.orderRepo.SaveFulfillment(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}
