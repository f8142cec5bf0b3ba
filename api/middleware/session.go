package middleware

import (
	"context"
	"net/http"

	"github.com/slicehaven/storefront-backend/pkg/logger"
)

const sessionHeader = "X-Storefront-Session"

type sessionCtxKey struct{}

// SessionContext lifts the storefront session id off the request header into
// the context. Absence is not an error here; handlers that require a session
// reject on their own terms.
func SessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionHeader)
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session id set by SessionContext, empty
// when the request carried none.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return id
	}
	return ""
}
