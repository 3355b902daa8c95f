package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToWishlistRequest represents the save-to-wishlist payload
type AddToWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// WishlistHandler handles HTTP requests for the session wishlist
type WishlistHandler struct {
	wishlistService service.WishlistService
	logger          *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService service.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// RegisterRoutes registers all wishlist routes
func (h *WishlistHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Get("/", h.GetWishlist)
		r.Post("/add", h.AddItem)
		r.Delete("/remove/{productID}", h.RemoveItem)
	})
}

// GetWishlist returns the session's saved products
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.wishlistService.List(r.Context(), sid)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["wishlist"] = items
	respondWithData(w, http.StatusOK, data)
}

// AddItem saves a product to the wishlist
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddToWishlistRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	items, err := h.wishlistService.Add(r.Context(), sid, productID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["wishlist"] = items
	data["message"] = "product added to wishlist"
	respondWithData(w, http.StatusOK, data)
}

// RemoveItem drops a product from the wishlist
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	items, err := h.wishlistService.Remove(r.Context(), sid, productID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["wishlist"] = items
	data["message"] = "product removed from wishlist"
	respondWithData(w, http.StatusOK, data)
}
