// Package session resolves the anonymous session identifier that scopes
// carts, wishlists, address books and orders.
//
// Session ids are opaque client-supplied strings with no expiry and no
// ownership proof: any caller presenting an id is treated as that
// session. This is a deliberate trust weakness carried over from the
// storefront's design; introducing signed session tokens is a policy
// decision left to the operator.
package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Header is the request header carrying the session identifier.
const Header = "X-Session-Id"

type contextKey string

const sessionKey contextKey = "session_id"

// FromRequest returns the session id supplied in the request header
// verbatim, or mints a fresh one when the header is absent. It never
// fails and persists nothing.
func FromRequest(r *http.Request) string {
	if id := r.Header.Get(Header); id != "" {
		return id
	}
	return Mint()
}

// Mint synthesizes a new session identifier. Uniqueness is
// probabilistic: millisecond timestamp plus a random suffix.
func Mint() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// NewContext returns a context carrying the resolved session id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// FromContext extracts the session id placed by the session middleware.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey).(string)
	return id, ok
}
