package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer converts a downstream panic into the API's standard JSON error
// response instead of tearing down the connection. The panic value and stack
// are logged with the request identity so the failing handler can be found.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []any{
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"ip", clientIP(r),
				"stack", string(debug.Stack()),
			}
			if user := UserFromCtx(r.Context()); user != nil {
				fields = append(fields, "user_id", user.ID)
			}
			slog.Error("request panicked", fields...)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"An unexpected error occurred."}`))
		}()

		next.ServeHTTP(w, r)
	})
}
