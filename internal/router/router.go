// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. It organizes routes into public, authenticated, and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
)

// Credential endpoints allow this many attempts per window per client IP
// before answering 429.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, posts *handlers.Posts, users *handlers.Users) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request. The logger sits after
	// session loading so its lines carry user_id for authenticated requests.
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.LoadSession(sessionStore))
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints are rate limited and refused for
			// requests that already carry a session.
			r.Group(func(r chi.Router) {
				limiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
				r.Use(limiter.Middleware)
				r.Use(middleware.RequireAnonymous)
				r.Post("/login", auth.Login)
				r.Post("/register", auth.Register)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", auth.Logout)
				r.Get("/me", auth.Me)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// Public reads. Get still sees the session, so authors and
			// admins can view drafts.
			r.Get("/", posts.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", posts.Create)
				r.Get("/mine", posts.Mine)
				r.Put("/{id}", posts.Update)
				r.Patch("/{id}/publish", posts.TogglePublish)
				r.Delete("/{id}", posts.Delete)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/all", posts.ListAll)
				})
			})

			// Registered after /mine and /all so those match first.
			r.Get("/{id}", posts.Get)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Put("/", auth.UpdateProfile)
			r.Post("/avatar", users.UploadAvatar)
		})

		// User management — admin only.
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Get("/", users.List)
			r.Delete("/{id}", users.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
