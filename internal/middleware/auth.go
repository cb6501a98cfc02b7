package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finplan/advisor-service/internal/auth"
	"github.com/finplan/advisor-service/internal/config"
)

type contextKey string

const (
	userIDKey      contextKey = "userID"
	userEmailKey   contextKey = "userEmail"
	accessTokenKey contextKey = "accessToken"
)

// AuthMiddleware gates a subrouter on a valid session cookie and loads the
// session's identity into the request context.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				unauthorized(w)
				return
			}
			claims, err := auth.ParseSession(cfg.JWTSecret, cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, userEmailKey, claims.Email)
			ctx = context.WithValue(ctx, accessTokenKey, claims.AccessToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

// UserID returns the authenticated user's id, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// UserEmail returns the authenticated user's email, or "".
func UserEmail(ctx context.Context) string {
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}

// AccessToken returns the provider access token for the session, or "".
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}
