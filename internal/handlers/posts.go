package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/content"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
)

// Posts groups the blog post HTTP handlers.
type Posts struct {
	service *content.Service
}

// NewPosts creates the Posts handler group.
func NewPosts(service *content.Service) *Posts {
	return &Posts{service: service}
}

// postPayload is the create/update request body.
type postPayload struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"isPublished"`
}

// List returns a page of published posts. Query parameters: page, limit,
// search.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	pageNum, limit := pagination(r)

	page, err := h.service.ListPublished(r.Context(), pageNum, limit, r.URL.Query().Get("search"))
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListAll returns a page of every post, drafts included. Admin only
// (enforced by the router).
func (h *Posts) ListAll(w http.ResponseWriter, r *http.Request) {
	pageNum, limit := pagination(r)

	page, err := h.service.ListAll(r.Context(), pageNum, limit, r.URL.Query().Get("search"))
	if err != nil {
		slog.Error("list all posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Mine returns the current account's posts, drafts included.
func (h *Posts) Mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	posts, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		slog.Error("list own posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": posts, "total": len(posts)})
}

// Get returns a single post with its body rendered to HTML. Unpublished
// posts are visible only to their author and to admins.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("get post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found.")
		return
	}

	if !post.Published {
		user := middleware.UserFromCtx(r.Context())
		if user == nil || (user.ID != post.AuthorID && !user.IsAdmin()) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return
		}
	}

	html, err := markdown.ToHTML(post.Body)
	if err != nil {
		slog.Error("render post failed", "post_id", post.ID, "error", err)
		html = ""
	}

	writeJSON(w, http.StatusOK, map[string]any{"blog": post, "html": html})
}

// Create adds a new post authored by the current account.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var payload postPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if msg := validatePost(payload.Title, payload.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.service.Create(r.Context(), middleware.UserFromCtx(r.Context()), content.PostInput{
		Title:     payload.Title,
		Body:      payload.Content,
		Published: payload.Published,
	})
	if errors.Is(err, content.ErrUnauthenticated) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err != nil {
		slog.Error("create post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"blog": post})
}

// Update edits a post. Only the author may update; a foreign post answers
// 403 and a missing one 404.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var payload postPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if msg := validatePost(payload.Title, payload.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	post, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), content.PostInput{
		Title:     payload.Title,
		Body:      payload.Content,
		Published: payload.Published,
	})
	if !h.answerMutationError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blog": post})
}

// TogglePublish flips a post's publish flag, same ownership rules as
// Update.
func (h *Posts) TogglePublish(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	post, err := h.service.TogglePublish(r.Context(), user.ID, chi.URLParam(r, "id"))
	if !h.answerMutationError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blog": post})
}

// Delete removes a post. The content service deletes by id unconditionally;
// the author-or-admin policy lives here.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := middleware.UserFromCtx(r.Context())

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("delete post lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found.")
		return
	}
	if post.AuthorID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Only the author or an admin may delete this post.")
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		slog.Error("delete post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// answerMutationError maps content service errors onto HTTP responses.
// Returns true when the caller may proceed with a success response.
func (h *Posts) answerMutationError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, content.ErrNotFound):
		writeError(w, http.StatusNotFound, "Post not found.")
	case errors.Is(err, content.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Only the author may edit this post.")
	case errors.Is(err, content.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required")
	default:
		slog.Error("post mutation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
	return false
}

// pagination reads the page and limit query parameters, falling back to the
// first page and the default page size.
func pagination(r *http.Request) (pageNum, limit int) {
	q := r.URL.Query()
	pageNum, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	if pageNum <= 0 {
		pageNum = 1
	}
	if limit <= 0 {
		limit = content.DefaultPageSize
	}
	return pageNum, limit
}
