package auth

import (
	"net/http"
	"strings"

	"github.com/soukly/storefront/pkg/web"
)

// Middleware verifies the bearer token in the Authorization header.
// On success the subject claim (the user ID) is added to the request context,
// where handlers retrieve it via web.GetUserID. Missing or invalid tokens get
// a 401 response.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader { // no Bearer prefix
				http.Error(w, "Bearer token is required", http.StatusUnauthorized)
				return
			}

			token, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}

			// get the user ID from the token claims
			subject, ok := token.Subject()
			if !ok {
				http.Error(w, "no claim `sub`", http.StatusUnauthorized)
				return
			}
			// Enrich the request context with the user ID.
			ctx := web.WithUserID(r.Context(), subject)

			// Pass the enriched context to the next handler in the chain.
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
