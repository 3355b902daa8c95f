package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddressRequest represents the address create/update payload
type AddressRequest struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Line1      string `json:"address_line1" validate:"required"`
	Line2      string `json:"address_line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (req AddressRequest) input() service.AddressInput {
	return service.AddressInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
}

// AddressHandler handles HTTP requests for the session address book
type AddressHandler struct {
	addressService service.AddressService
	logger         *zap.Logger
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService service.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		logger:         logger,
	}
}

// RegisterRoutes registers all address routes
func (h *AddressHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/addresses", func(r chi.Router) {
		r.Get("/", h.ListAddresses)
		r.Post("/add", h.AddAddress)
		r.Put("/{addressID}", h.UpdateAddress)
		r.Delete("/{addressID}", h.DeleteAddress)
	})
}

// ListAddresses returns the session's addresses, default first
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	addresses, err := h.addressService.List(r.Context(), sid)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["addresses"] = addresses
	respondWithData(w, http.StatusOK, data)
}

// AddAddress creates a new address in the session's book
func (h *AddressHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddressRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	address, err := h.addressService.Create(r.Context(), sid, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["address"] = address
	data["message"] = "address added"
	respondWithData(w, http.StatusCreated, data)
}

// UpdateAddress rewrites an existing address
func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid address id")
		return
	}

	var req AddressRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	address, err := h.addressService.Update(r.Context(), sid, id, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["address"] = address
	data["message"] = "address updated"
	respondWithData(w, http.StatusOK, data)
}

// DeleteAddress removes an address; removing a missing one succeeds
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid address id")
		return
	}

	if err := h.addressService.Delete(r.Context(), sid, id); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	data := sessionEnvelope(r)
	data["message"] = "address removed"
	respondWithData(w, http.StatusOK, data)
}
