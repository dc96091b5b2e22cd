package chi

import (
	"context"
	"net/http"
	"strings"

	authuc "github.com/moovio/moviedex/internal/usecase/auth"
)

// exemptPaths are routes that bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":        {},
	"/metrics":       {},
	"/auth/register": {},
	"/auth/login":    {},
}

type claimsContextKey struct{}

// ClaimsFromContext returns the verified token claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*authuc.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*authuc.Claims)
	return claims, ok
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*authuc.Claims, error)
}

// JWTAuthMiddleware returns a middleware that validates Bearer tokens and
// stores the verified claims on the request context.
func JWTAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			claims, err := verifier.VerifyToken(auth[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
