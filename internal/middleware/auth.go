package middleware

import (
	"context"
	"net/http"

	"monei-be/internal/auth"
)

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	TokenClaimsKey contextKey = "jwtClaims"
)

// RequireAuth rejects requests without a valid admin token. Claims are
// stored on the context for downstream handlers.
func RequireAuth(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			http.Error(w, "missing credentials", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseJWT(secret, tokenStr)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), TokenClaimsKey, claims)
		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated operator's id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}
