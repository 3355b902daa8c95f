package transport

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemRequest is one priced line of a checkout payload
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Size      string          `json:"size"`
}

// ShippingAddressRequest is the shipping address of a checkout payload
type ShippingAddressRequest struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Line1      string `json:"address_line1" validate:"required"`
	Line2      string `json:"address_line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

func (req ShippingAddressRequest) snapshot() domain.AddressSnapshot {
	return domain.AddressSnapshot{
		Name:       req.Name,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}

// CheckoutRequest represents the cart checkout payload
type CheckoutRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method"`
	ItemsPrice      decimal.Decimal        `json:"items_price"`
	TaxPrice        decimal.Decimal        `json:"tax_price"`
	ShippingPrice   decimal.Decimal        `json:"shipping_price"`
}

// DirectOrderRequest represents the buy-now payload
type DirectOrderRequest struct {
	ProductID       string                 `json:"product_id" validate:"required,uuid"`
	Quantity        int                    `json:"quantity" validate:"required,gt=0"`
	Size            string                 `json:"size"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method"`
}

// FulfillmentRequest represents the fulfillment update payload
type FulfillmentRequest struct {
	IsPaid      *bool      `json:"is_paid"`
	PaidAt      *time.Time `json:"paid_at"`
	IsDelivered *bool      `json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. The fulfillment route is
// restricted to authenticated admins.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.Checkout)
		r.Post("/direct", h.DirectOrder)
		r.Get("/{orderID}", h.GetOrder)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Put("/{orderID}/fulfillment", h.UpdateFulfillment)
		})
	})
}

// Checkout creates an order from caller-priced cart items and empties
// the cart
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req CheckoutRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	in := service.CheckoutInput{
		ShippingAddress: req.ShippingAddress.snapshot(),
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		in.Items = append(in.Items, service.OrderItemInput{
			ProductID: productID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	order, err := h.orderService.CreateFromCart(r.Context(), sid, in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sid),
	)

	data := sessionEnvelope(r)
	data["order"] = order
	data["message"] = "order placed"
	respondWithData(w, http.StatusCreated, data)
}

// DirectOrder creates a single-product order priced server-side,
// leaving the cart untouched
func (h *OrderHandler) DirectOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req DirectOrderRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	order, err := h.orderService.CreateDirect(r.Context(), sid, service.DirectPurchaseInput{
		ProductID:       productID,
		Quantity:        req.Quantity,
		Size:            req.Size,
		ShippingAddress: req.ShippingAddress.snapshot(),
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Direct order created",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sid),
	)

	data := sessionEnvelope(r)
	data["order"] = order
	data["message"] = "order placed"
	respondWithData(w, http.StatusCreated, data)
}

// GetOrder returns one order, if it belongs to the caller's session
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.Get(r.Context(), sid, id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["order"] = order
	respondWithData(w, http.StatusOK, data)
}

// ListOrders returns the session's orders, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.orderService.List(r.Context(), sid)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["orders"] = orders
	respondWithData(w, http.StatusOK, data)
}

// UpdateFulfillment applies paid/delivered transitions to an order
func (h *OrderHandler) UpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req FulfillmentRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.UpdateFulfillment(r.Context(), id, service.FulfillmentUpdate{
		IsPaid:      req.IsPaid,
		PaidAt:      req.PaidAt,
		IsDelivered: req.IsDelivered,
		DeliveredAt: req.DeliveredAt,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := envelope{
		"order":   order,
		"message": "fulfillment updated",
	}
	respondWithData(w, http.StatusOK, data)
}
