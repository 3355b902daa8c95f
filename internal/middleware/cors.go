package middleware

import (
	"net/http"

	"storefront/internal/session"

	"github.com/go-chi/cors"
)

// CORSMiddleware configures cross-origin access for browser storefront
// clients. The session header must be both accepted and exposed, since
// the frontend supplies it on every call and reads the minted id back
// from first responses.
func CORSMiddleware(allowedOrigins []string, isDevelopment bool) func(http.Handler) http.Handler {
	// In development, allow all origins
	if isDevelopment {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", session.Header},
		ExposedHeaders:   []string{session.Header, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}
