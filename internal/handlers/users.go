package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/media"
	"inkwell/internal/middleware"
)

// maxAvatarSize bounds profile image uploads (5 MiB).
const maxAvatarSize = 5 << 20

// Users groups the administrative user-management handlers plus the avatar
// upload endpoint.
type Users struct {
	service *auth.Service
	media   *media.Client // nil when object storage is not configured
}

// NewUsers creates the Users handler group.
func NewUsers(service *auth.Service, mediaClient *media.Client) *Users {
	return &Users{service: service, media: mediaClient}
}

// List returns a page of accounts, password hashes stripped. Admin only
// (enforced by the router). Query parameters: page, limit, search (matches
// email and name, case-insensitively).
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListAccounts(r.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search"))); search != "" {
		matched := users[:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Email), search) ||
				strings.Contains(strings.ToLower(u.FullName()), search) {
				matched = append(matched, u)
			}
		}
		users = matched
	}

	total := len(users)
	pageNum, limit := pagination(r)
	start := (pageNum - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":      users[start:end],
		"total":      total,
		"page":       pageNum,
		"limit":      limit,
		"totalPages": (total + limit - 1) / limit,
	})
}

// Delete removes an account. Admin only; admins cannot delete themselves.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == middleware.UserFromCtx(r.Context()).ID {
		writeError(w, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}

	removed, err := h.service.DeleteAccount(r.Context(), id)
	if err != nil {
		slog.Error("delete user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar accepts a multipart image upload, stores it in object
// storage, and points the current profile at the stored URL.
func (h *Users) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeError(w, http.StatusServiceUnavailable, "Media storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "An image file is required.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Only image uploads are accepted.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read the uploaded file.")
		return
	}

	user := middleware.UserFromCtx(r.Context())
	key := fmt.Sprintf("avatars/%s/%s", user.ID, uuid.NewString())

	url, err := h.media.Upload(r.Context(), key, contentType, data)
	if err != nil {
		slog.Error("avatar upload failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Upload failed.")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), middleware.TokenFromCtx(r.Context()), auth.ProfileUpdate{
		ProfileImage: &url,
	})
	if err != nil || updated == nil {
		slog.Error("avatar profile update failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Upload failed.")
		return
	}

	// Best-effort cleanup of the replaced avatar; an orphaned object is not
	// worth failing the request over.
	if oldKey, ok := h.media.KeyFromURL(user.ProfileImage); ok {
		if err := h.media.Delete(r.Context(), oldKey); err != nil {
			slog.Warn("stale avatar cleanup failed", "user_id", user.ID, "key", oldKey, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": updated, "profileImage": url})
}
