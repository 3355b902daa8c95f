package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// AdminRole is the role stored on staff accounts. Order fulfillment is
// the only admin-gated surface.
const AdminRole = "admin"

// RequireAdmin rejects requests whose authenticated user is not staff.
// It must run after AuthMiddleware, which puts the role on the context.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role missing from context on admin route",
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if role != AdminRole {
				logger.Warn("Admin route denied",
					zap.String("path", r.URL.Path),
					zap.String("role", role),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
