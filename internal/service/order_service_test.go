package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func testSnapshot() domain.AddressSnapshot {
	return domain.AddressSnapshot{
		Name:       "R. Mehta",
		Phone:      "5550100",
		Line1:      "12 Hill Road",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
		Country:    "IN",
	}
}

func newTestOrderService(products ...*domain.Product) (OrderService, *mockOrderRepository, *mockCartRepository) {
	orderRepo := newMockOrderRepository()
	cartRepo := newMockCartRepository()
	svc := NewOrderService(orderRepo, cartRepo, newMockProductRepository(products...),
		DefaultPricingRules(), zap.NewNop())
	return svc, orderRepo, cartRepo
}

func TestCheckoutUsesSuppliedTotalsAndClearsCart(t *testing.T) {
	product := testProduct(10)
	svc, orderRepo, cartRepo := newTestOrderService(product)
	ctx := context.Background()

	cart, _ := cartRepo.GetOrCreate(ctx, "s1")
	if err := cartRepo.AddItem(ctx, cart.ID, product.ID, "", 2); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	in := CheckoutInput{
		Items: []OrderItemInput{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     decimal.NewFromInt(250),
			Quantity:  2,
		}},
		ShippingAddress: testSnapshot(),
		ItemsPrice:      decimal.NewFromInt(500),
		TaxPrice:        decimal.NewFromInt(50),
		ShippingPrice:   decimal.NewFromInt(100),
	}

	order, err := svc.CreateFromCart(ctx, "s1", in)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !order.TotalPrice.Equal(decimal.NewFromInt(650)) {
		t.Errorf("expected total 650, got %s", order.TotalPrice)
	}
	if order.PaymentMethod != DefaultPaymentMethod {
		t.Errorf("expected default payment method, got %q", order.PaymentMethod)
	}
	if len(orderRepo.orders) != 1 {
		t.Fatalf("expected 1 stored order, got %d", len(orderRepo.orders))
	}

	items, _ := cartRepo.Items(ctx, cart.ID)
	if len(items) != 0 {
		t.Errorf("cart should be empty after checkout, got %d lines", len(items))
	}
}

func TestCheckoutSurvivesCartClearFailure(t *testing.T) {
	product := testProduct(10)
	svc, orderRepo, cartRepo := newTestOrderService(product)
	ctx := context.Background()

	cart, _ := cartRepo.GetOrCreate(ctx, "s1")
	if err := cartRepo.AddItem(ctx, cart.ID, product.ID, "", 1); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
	cartRepo.clearErr = errors.New("connection reset")

	in := CheckoutInput{
		Items: []OrderItemInput{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     decimal.NewFromInt(250),
			Quantity:  1,
		}},
		ShippingAddress: testSnapshot(),
		ItemsPrice:      decimal.NewFromInt(250),
	}

	order, err := svc.CreateFromCart(ctx, "s1", in)
	if err != nil {
		t.Fatalf("checkout must succeed even if the cart clear fails: %v", err)
	}
	if _, ok := orderRepo.orders[order.ID]; !ok {
		t.Error("order was not persisted")
	}
	if cartRepo.clearSeen != 1 {
		t.Errorf("expected one clear attempt, got %d", cartRepo.clearSeen)
	}
}

func TestCheckoutRejectsEmptyOrder(t *testing.T) {
	svc, _, _ := newTestOrderService()

	_, err := svc.CreateFromCart(context.Background(), "s1", CheckoutInput{
		ShippingAddress: testSnapshot(),
	})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestDirectOrderPricing(t *testing.T) {
	tests := []struct {
		name         string
		price        int64
		quantity     int
		wantItems    string
		wantTax      string
		wantShipping string
		wantTotal    string
	}{
		{"below free shipping threshold", 250, 2, "500", "50", "100", "650"},
		{"above free shipping threshold", 600, 2, "1200", "120", "0", "1320"},
		{"exactly at threshold still pays shipping", 500, 2, "1000", "100", "100", "1200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := testProduct(100)
			product.Price = decimal.NewFromInt(tt.price)
			svc, _, _ := newTestOrderService(product)

			order, err := svc.CreateDirect(context.Background(), "s1", DirectPurchaseInput{
				ProductID:       product.ID,
				Quantity:        tt.quantity,
				ShippingAddress: testSnapshot(),
			})
			if err != nil {
				t.Fatalf("direct order failed: %v", err)
			}

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"items_price", order.ItemsPrice, tt.wantItems},
				{"tax_price", order.TaxPrice, tt.wantTax},
				{"shipping_price", order.ShippingPrice, tt.wantShipping},
				{"total_price", order.TotalPrice, tt.wantTotal},
			}
			for _, c := range checks {
				if !c.got.Equal(decimal.RequireFromString(c.want)) {
					t.Errorf("%s: expected %s, got %s", c.field, c.want, c.got)
				}
			}
		})
	}
}

func TestDirectOrderDoesNotTouchCart(t *testing.T) {
	product := testProduct(10)
	svc, _, cartRepo := newTestOrderService(product)
	ctx := context.Background()

	cart, _ := cartRepo.GetOrCreate(ctx, "s1")
	if err := cartRepo.AddItem(ctx, cart.ID, product.ID, "", 3); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	if _, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
		ProductID:       product.ID,
		Quantity:        1,
		ShippingAddress: testSnapshot(),
	}); err != nil {
		t.Fatalf("direct order failed: %v", err)
	}

	items, _ := cartRepo.Items(ctx, cart.ID)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Errorf("direct order must leave the cart untouched, got %+v", items)
	}
}

func TestDirectOrderValidation(t *testing.T) {
	product := testProduct(10, "S", "M")
	svc, _, _ := newTestOrderService(product)
	ctx := context.Background()

	if _, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
		ProductID: product.ID, Quantity: 0, ShippingAddress: testSnapshot(),
	}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
		ProductID: product.ID, Quantity: 1, Size: "XL", ShippingAddress: testSnapshot(),
	}); !errors.Is(err, ErrSizeUnavailable) {
		t.Errorf("expected ErrSizeUnavailable, got %v", err)
	}
}

func TestGetOrderEnforcesSessionOwnership(t *testing.T) {
	product := testProduct(10)
	svc, _, _ := newTestOrderService(product)
	ctx := context.Background()

	order, err := svc.CreateDirect(ctx, "owner-session", DirectPurchaseInput{
		ProductID:       product.ID,
		Quantity:        1,
		ShippingAddress: testSnapshot(),
	})
	if err != nil {
		t.Fatalf("direct order failed: %v", err)
	}

	if _, err := svc.Get(ctx, "owner-session", order.ID); err != nil {
		t.Errorf("owner must be able to read the order: %v", err)
	}

	if _, err := svc.Get(ctx, "other-session", order.ID); !errors.Is(err, ErrOrderAccessDenied) {
		t.Errorf("expected ErrOrderAccessDenied, got %v", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	product := testProduct(10)
	svc, orderRepo, _ := newTestOrderService(product)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		order, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
			ProductID:       product.ID,
			Quantity:        1,
			ShippingAddress: testSnapshot(),
		})
		if err != nil {
			t.Fatalf("order %d failed: %v", i, err)
		}
		// Force distinct timestamps.
		orderRepo.orders[order.ID].CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
	}

	orders, err := svc.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Errorf("orders not sorted newest first at index %d", i)
		}
	}
}

func TestFulfillmentTimestampsAreFirstWriteWins(t *testing.T) {
	product := testProduct(10)
	svc, _, _ := newTestOrderService(product)
	ctx := context.Background()

	order, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
		ProductID:       product.ID,
		Quantity:        1,
		ShippingAddress: testSnapshot(),
	})
	if err != nil {
		t.Fatalf("direct order failed: %v", err)
	}

	paid := true
	first, err := svc.UpdateFulfillment(ctx, order.ID, FulfillmentUpdate{IsPaid: &paid})
	if err != nil {
		t.Fatalf("first fulfillment update failed: %v", err)
	}
	if !first.IsPaid || first.PaidAt == nil {
		t.Fatal("expected paid flag set with timestamp")
	}
	firstPaidAt := *first.PaidAt

	later := time.Now().Add(time.Hour)
	second, err := svc.UpdateFulfillment(ctx, order.ID, FulfillmentUpdate{IsPaid: &paid, PaidAt: &later})
	if err != nil {
		t.Fatalf("second fulfillment update failed: %v", err)
	}
	if !second.PaidAt.Equal(firstPaidAt) {
		t.Errorf("paid_at must not change once set: was %v, now %v", firstPaidAt, second.PaidAt)
	}

	delivered := true
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	third, err := svc.UpdateFulfillment(ctx, order.ID, FulfillmentUpdate{IsDelivered: &delivered, DeliveredAt: &when})
	if err != nil {
		t.Fatalf("delivered update failed: %v", err)
	}
	if third.DeliveredAt == nil || !third.DeliveredAt.Equal(when) {
		t.Errorf("expected supplied delivered_at %v, got %v", when, third.DeliveredAt)
	}
}

func TestFulfillmentFlagsAreIndependent(t *testing.T) {
	product := testProduct(10)
	svc, _, _ := newTestOrderService(product)
	ctx := context.Background()

	order, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
		ProductID:       product.ID,
		Quantity:        1,
		ShippingAddress: testSnapshot(),
	})
	if err != nil {
		t.Fatalf("direct order failed: %v", err)
	}

	delivered := true
	updated, err := svc.UpdateFulfillment(ctx, order.ID, FulfillmentUpdate{IsDelivered: &delivered})
	if err != nil {
		t.Fatalf("fulfillment update failed: %v", err)
	}
	if updated.IsPaid || updated.PaidAt != nil {
		t.Error("delivering must not mark the order paid")
	}
	if !updated.IsDelivered || updated.DeliveredAt == nil {
		t.Error("expected delivered flag set with timestamp")
	}
}
