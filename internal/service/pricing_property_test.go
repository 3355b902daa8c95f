package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestProperty_DirectOrderPriceBreakdown(t *testing.T) {
	properties := gopter.NewProperties(nil)
	rules := DefaultPricingRules()

	properties.Property("totals always reconcile and shipping follows the threshold", prop.ForAll(
		func(priceCents int, quantity int) bool {
			price := decimal.NewFromInt(int64(priceCents)).Div(decimal.NewFromInt(100))
			product := testProduct(quantity)
			product.Price = price

			svc, _, _ := newTestOrderService(product)
			order, err := svc.CreateDirect(context.Background(), "s1", DirectPurchaseInput{
				ProductID:       product.ID,
				Quantity:        quantity,
				ShippingAddress: testSnapshot(),
			})
			if err != nil {
				t.Logf("FAIL: direct order failed: %v", err)
				return false
			}

			wantItems := price.Mul(decimal.NewFromInt(int64(quantity)))
			if !order.ItemsPrice.Equal(wantItems) {
				t.Logf("FAIL: items price %s, want %s", order.ItemsPrice, wantItems)
				return false
			}

			if !order.TaxPrice.Equal(wantItems.Mul(rules.TaxRate)) {
				t.Logf("FAIL: tax %s not %s of subtotal %s", order.TaxPrice, rules.TaxRate, wantItems)
				return false
			}

			wantShipping := rules.ShippingFee
			if wantItems.GreaterThan(rules.FreeShippingAbove) {
				wantShipping = decimal.Zero
			}
			if !order.ShippingPrice.Equal(wantShipping) {
				t.Logf("FAIL: shipping %s for subtotal %s, want %s", order.ShippingPrice, wantItems, wantShipping)
				return false
			}

			total := order.ItemsPrice.Add(order.TaxPrice).Add(order.ShippingPrice)
			if !order.TotalPrice.Equal(total) {
				t.Logf("FAIL: total %s does not reconcile with parts %s", order.TotalPrice, total)
				return false
			}
			return true
		},
		gen.IntRange(1, 500000),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_OrderSnapshotsAreImmutable(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("later product price changes never alter an existing order", prop.ForAll(
		func(initialPrice, newPrice int) bool {
			product := testProduct(10)
			product.Price = decimal.NewFromInt(int64(initialPrice))

			svc, orderRepo, _ := newTestOrderService(product)
			ctx := context.Background()

			order, err := svc.CreateDirect(ctx, "s1", DirectPurchaseInput{
				ProductID:       product.ID,
				Quantity:        1,
				ShippingAddress: testSnapshot(),
			})
			if err != nil {
				t.Logf("FAIL: direct order failed: %v", err)
				return false
			}

			product.Price = decimal.NewFromInt(int64(newPrice))
			product.Name = "Renamed " + uuid.NewString()[:8]

			stored, err := orderRepo.FindByID(ctx, order.ID)
			if err != nil {
				t.Logf("FAIL: lookup failed: %v", err)
				return false
			}

			if !stored.Items[0].Price.Equal(decimal.NewFromInt(int64(initialPrice))) {
				t.Logf("FAIL: order item price changed with the product")
				return false
			}
			if stored.Items[0].Name == product.Name {
				t.Logf("FAIL: order item name changed with the product")
				return false
			}
			return true
		},
		gen.IntRange(1, 10000),
		gen.IntRange(1, 10000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
