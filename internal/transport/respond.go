package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/session"

	"go.uber.org/zap"
)

// envelope is the response body wrapper. Session-scoped handlers put
// the resolved session id inside data so first-time callers learn it;
// mutations add a human-readable message.
type envelope map[string]interface{}

func respondWithData(w http.ResponseWriter, statusCode int, data envelope) {
	middleware.RespondWithJSON(w, statusCode, map[string]interface{}{"data": data})
}

// sessionEnvelope starts an envelope carrying the request's session id.
func sessionEnvelope(r *http.Request) envelope {
	data := envelope{}
	if id, ok := session.FromContext(r.Context()); ok {
		data["sessionId"] = id
	}
	return data
}

// respondWithServiceError maps known service and repository errors onto
// HTTP statuses. Anything unrecognized is a 500 with the detail logged,
// not leaked.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, repository.ErrAddressNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrSizeUnavailable),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrMissingAddressFields),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, repository.ErrWishlistDuplicate):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, repository.ErrReviewAlreadyExists),
		errors.Is(err, repository.ErrUserAlreadyExists),
		errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrOrderAccessDenied),
		errors.Is(err, service.ErrNotReviewOwner):
		middleware.RespondWithError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		middleware.RespondWithError(w, http.StatusUnauthorized, err.Error())

	default:
		logger.Error("Unhandled service error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes and validates a JSON body, writing the error
// response itself. Returns false when the request was rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed",
			zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// sessionID pulls the resolved session id off the context. The session
// middleware always sets it; a miss means the route is wired wrong.
func sessionID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		logger.Error("Session id missing from context", zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return "", false
	}
	return id, true
}
