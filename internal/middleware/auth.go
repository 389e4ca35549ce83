// Package middleware provides the HTTP middleware stack: panic recovery,
// request logging, security headers, rate limiting, and session handling.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/guard"
	"inkwell/internal/models"
	"inkwell/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// LoadSession resolves the bearer token (if any) to its account and stores
// both in the request context. It does NOT enforce authentication — it just
// loads the session when one exists.
func LoadSession(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				user, err := sessions.Get(r.Context(), token)
				// A lookup failure is treated as unauthenticated rather
				// than blocking the request.
				if err == nil && user != nil {
					ctx := context.WithValue(r.Context(), userKey, user)
					ctx = context.WithValue(ctx, tokenKey, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without an authenticated session. Must be
// applied after LoadSession.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if guard.Decide(guard.RequireAuth, UserFromCtx(r.Context()) != nil) == guard.RedirectLogin {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnonymous rejects requests that already carry a session — the API
// analogue of keeping logged-in visitors off the login page. Must be applied
// after LoadSession.
func RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if guard.Decide(guard.RequireAnonymous, UserFromCtx(r.Context()) != nil) == guard.RedirectHome {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"already authenticated","redirect":"/"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 unless the authenticated account has the admin
// role. Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || !user.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"admin access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx extracts the authenticated account from the request context.
// Returns nil when the request is anonymous.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// TokenFromCtx extracts the session token from the request context.
func TokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required","redirect":"/login"}`))
}
