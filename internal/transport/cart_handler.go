package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart request payload
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required"`
	Size      string `json:"size"`
}

// UpdateCartItemRequest represents the quantity update payload
type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required"`
	Size      string `json:"size"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/add", h.AddItem)
		r.Put("/update", h.UpdateItem)
		r.Delete("/remove/{productID}", h.RemoveItem)
		r.Delete("/clear", h.ClearCart)
	})
}

// GetCart returns the session's cart, creating it on first access
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(r.Context(), sid)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["cart"] = cart
	respondWithData(w, http.StatusOK, data)
}

// AddItem adds a product to the cart, merging with an existing line for
// the same product and size
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddToCartRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	cart, err := h.cartService.Add(r.Context(), sid, productID, req.Quantity, req.Size)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["cart"] = cart
	data["message"] = "item added to cart"
	respondWithData(w, http.StatusOK, data)
}

// UpdateItem sets the absolute quantity of an existing cart line
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	cart, err := h.cartService.Update(r.Context(), sid, productID, req.Size, req.Quantity)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["cart"] = cart
	data["message"] = "cart updated"
	respondWithData(w, http.StatusOK, data)
}

// RemoveItem deletes cart lines for a product. With a size query
// parameter only that line goes; without it, every size of the product
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var size *string
	if s := r.URL.Query().Get("size"); s != "" {
		size = &s
	}

	cart, err := h.cartService.Remove(r.Context(), sid, productID, size)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["cart"] = cart
	data["message"] = "item removed from cart"
	respondWithData(w, http.StatusOK, data)
}

// ClearCart removes every line from the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(r.Context(), sid)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["cart"] = cart
	data["message"] = "cart cleared"
	respondWithData(w, http.StatusOK, data)
}
