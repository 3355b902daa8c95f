package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewRequest represents the review create/update payload
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ReviewHandler handles HTTP requests for product reviews
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes. Listing is public;
// mutations require an authenticated user.
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/product/{productID}", h.ListForProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/product/{productID}", h.CreateReview)
			r.Put("/{reviewID}", h.UpdateReview)
			r.Delete("/{reviewID}", h.DeleteReview)
		})
	})
}

// userUUID pulls the authenticated user id off the context.
func userUUID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		logger.Error("User ID not found in context", zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.Error("Invalid user ID format", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	return userID, true
}

// ListForProduct returns a page of a product's reviews plus its rating
// histogram
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	q := r.URL.Query()
	page, err := h.reviewService.ListForProduct(r.Context(), productID, service.ReviewListQuery{
		Sort:  q.Get("sort"),
		Page:  q.Get("page"),
		Limit: q.Get("limit"),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{
		"reviews":          page.Reviews,
		"pagination":       page.Pagination,
		"rating_breakdown": page.Histogram,
	})
}

// CreateReview adds a review for the product by the authenticated user
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	userID, ok := userUUID(w, r, h.logger)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ReviewRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	review, err := h.reviewService.Create(r.Context(), sid, userID, productID, service.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusCreated, envelope{
		"review":  review,
		"message": "review added",
	})
}

// UpdateReview rewrites the authenticated user's review
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userUUID(w, r, h.logger)
	if !ok {
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	var req ReviewRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	review, err := h.reviewService.Update(r.Context(), userID, reviewID, service.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{
		"review":  review,
		"message": "review updated",
	})
}

// DeleteReview removes the authenticated user's review
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userUUID(w, r, h.logger)
	if !ok {
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	if err := h.reviewService.Delete(r.Context(), userID, reviewID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithData(w, http.StatusOK, envelope{"message": "review deleted"})
}
