package middleware

import (
	"net/http"

	"storefront/internal/session"

	"go.uber.org/zap"
)

// SessionMiddleware resolves the session id for every request. A
// client-supplied X-Session-Id header is used verbatim; otherwise a
// fresh id is minted. The resolved id is placed on the request context
// and echoed back in the response header so first-time callers learn
// their id.
func SessionMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.FromRequest(r)
			if r.Header.Get(session.Header) == "" {
				logger.Debug("Minted new session", zap.String("session_id", id))
			}

			w.Header().Set(session.Header, id)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), id)))
		})
	}
}
