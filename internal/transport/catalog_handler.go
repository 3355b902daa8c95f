package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests for product and category browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/sale", h.SaleProducts)
		r.Get("/featured", h.FeaturedProducts)
		r.Get("/{productID}", h.GetProduct)
		r.Get("/{productID}/recommendations", h.Recommendations)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{categoryID}", h.GetCategory)
	})
}

func listQuery(r *http.Request) service.ListQuery {
	q := r.URL.Query()
	return service.ListQuery{
		Category: q.Get("category"),
		Rating:   q.Get("rating"),
		Sort:     q.Get("sort"),
		Search:   q.Get("search"),
		Featured: q.Get("featured"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	}
}

// ListProducts handles the filtered, sorted, paginated product listing
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, pagination, err := h.catalogService.ListProducts(r.Context(), listQuery(r))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{
		"products":   products,
		"pagination": pagination,
	})
}

// SaleProducts lists discounted products, biggest discount first by default
func (h *CatalogHandler) SaleProducts(w http.ResponseWriter, r *http.Request) {
	products, pagination, err := h.catalogService.SaleProducts(r.Context(), listQuery(r))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{
		"products":   products,
		"pagination": pagination,
	})
}

// FeaturedProducts lists products flagged as featured
func (h *CatalogHandler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, pagination, err := h.catalogService.FeaturedProducts(r.Context(), listQuery(r))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{
		"products":   products,
		"pagination": pagination,
	})
}

// GetProduct returns a single product by id
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{"product": product})
}

// Recommendations returns other products from the same category
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	products, err := h.catalogService.Recommended(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{"products": products})
}

// ListCategories returns all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{"categories": categories})
}

// GetCategory returns a single category by id
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{"category": category})
}
