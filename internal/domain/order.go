package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a purchase. Item names and prices
// are copied at creation time; later product edits do not affect it.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SessionID       string          `json:"session_id" db:"session_id"`
	Items           []OrderItem     `json:"items" db:"-"`
	ShippingAddress AddressSnapshot `json:"shipping_address" db:"-"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	ItemsPrice      decimal.Decimal `json:"items_price" db:"items_price"`
	TaxPrice        decimal.Decimal `json:"tax_price" db:"tax_price"`
	ShippingPrice   decimal.Decimal `json:"shipping_price" db:"shipping_price"`
	TotalPrice      decimal.Decimal `json:"total_price" db:"total_price"`
	IsPaid          bool            `json:"is_paid" db:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	IsDelivered     bool            `json:"is_delivered" db:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Size      string          `json:"size,omitempty" db:"size"`
}

// AddressSnapshot is the shipping address copied into an order.
type AddressSnapshot struct {
	Name       string `json:"name" db:"ship_name"`
	Phone      string `json:"phone" db:"ship_phone"`
	Line1      string `json:"address_line1" db:"ship_line1"`
	Line2      string `json:"address_line2,omitempty" db:"ship_line2"`
	City       string `json:"city" db:"ship_city"`
	State      string `json:"state" db:"ship_state"`
	PostalCode string `json:"postal_code" db:"ship_postal_code"`
	Country    string `json:"country" db:"ship_country"`
}
