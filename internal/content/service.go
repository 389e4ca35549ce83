// Package content implements the post service: listing with pagination and
// search, creation with author snapshotting, owner-checked updates, and
// deletion. Deletion is mechanism only — the HTTP layer decides who may
// call it.
package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

var (
	// ErrUnauthenticated is returned when an operation requiring a session
	// is called without one.
	ErrUnauthenticated = errors.New("content: no authenticated account")

	// ErrNotFound is returned when no post matches the given id.
	ErrNotFound = errors.New("content: post not found")

	// ErrNotOwner is returned when the caller is not the post's author.
	ErrNotOwner = errors.New("content: account does not own this post")
)

// DefaultPageSize is used when a listing request does not specify a limit.
const DefaultPageSize = 10

// PostInput carries the editable post fields.
type PostInput struct {
	Title     string
	Body      string
	Published bool
}

// Page is one page of a post listing.
type Page struct {
	Posts      []models.Post `json:"blogs"`
	Total      int           `json:"total"`
	PageNum    int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// Service manages the post collection.
type Service struct {
	mu    sync.Mutex
	posts *store.PostStore
}

// NewService creates the content service.
func NewService(posts *store.PostStore) *Service {
	return &Service{posts: posts}
}

// List returns every post in stored order: newly created posts are
// prepended, so the first element is always the most recently created.
func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	return s.posts.Load(ctx)
}

// ListPublished returns a page of published posts matching the search term.
func (s *Service) ListPublished(ctx context.Context, pageNum, limit int, search string) (Page, error) {
	return s.listFiltered(ctx, pageNum, limit, search, true)
}

// ListAll returns a page of all posts, drafts included. Restricting this to
// administrators is the caller's job.
func (s *Service) ListAll(ctx context.Context, pageNum, limit int, search string) (Page, error) {
	return s.listFiltered(ctx, pageNum, limit, search, false)
}

// ListMine returns the posts authored by the given account, drafts included.
// An empty account id yields an empty sequence.
func (s *Service) ListMine(ctx context.Context, accountID string) ([]models.Post, error) {
	if accountID == "" {
		return []models.Post{}, nil
	}
	posts, err := s.posts.Load(ctx)
	if err != nil {
		return nil, err
	}
	mine := []models.Post{}
	for _, p := range posts {
		if p.AuthorID == accountID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

// Create prepends a new post authored by the given account, snapshotting the
// account's identity fields into the post.
func (s *Service) Create(ctx context.Context, author *models.User, in PostInput) (models.Post, error) {
	if author == nil {
		return models.Post{}, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.posts.Load(ctx)
	if err != nil {
		return models.Post{}, err
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Slug:      slug.Make(in.Title),
		Body:      in.Body,
		AuthorID:  author.ID,
		Author:    author.Snapshot(),
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Save(ctx, append([]models.Post{post}, posts...)); err != nil {
		return models.Post{}, err
	}

	slog.Info("post created", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

// Update edits the matching post. Only the authoring account may update;
// a missing post or a foreign owner is reported explicitly rather than
// silently succeeding. The creation timestamp is preserved and the
// modification timestamp refreshed.
func (s *Service) Update(ctx context.Context, accountID, id string, in PostInput) (models.Post, error) {
	return s.mutate(ctx, accountID, id, func(p *models.Post) {
		p.Title = in.Title
		p.Slug = slug.Make(in.Title)
		p.Body = in.Body
		p.Published = in.Published
	})
}

// TogglePublish flips the publish flag, with the same ownership rules as
// Update.
func (s *Service) TogglePublish(ctx context.Context, accountID, id string) (models.Post, error) {
	return s.mutate(ctx, accountID, id, func(p *models.Post) {
		p.Published = !p.Published
	})
}

// Delete removes the matching post by id. No ownership or role check is
// performed here; callers enforce policy. Returns false when nothing
// matched.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.posts.Load(ctx)
	if err != nil {
		return false, err
	}
	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		return false, nil
	}
	if err := s.posts.Save(ctx, kept); err != nil {
		return false, err
	}

	slog.Info("post deleted", "post_id", id)
	return true, nil
}

// GetByID retrieves a post by id. Returns nil when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Post, error) {
	posts, err := s.posts.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Service) mutate(ctx context.Context, accountID, id string, fn func(*models.Post)) (models.Post, error) {
	if accountID == "" {
		return models.Post{}, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.posts.Load(ctx)
	if err != nil {
		return models.Post{}, err
	}
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		if posts[i].AuthorID != accountID {
			return models.Post{}, ErrNotOwner
		}
		fn(&posts[i])
		posts[i].UpdatedAt = time.Now().UTC()
		if err := s.posts.Save(ctx, posts); err != nil {
			return models.Post{}, err
		}
		return posts[i], nil
	}
	return models.Post{}, ErrNotFound
}

func (s *Service) listFiltered(ctx context.Context, pageNum, limit int, search string, publishedOnly bool) (Page, error) {
	posts, err := s.posts.Load(ctx)
	if err != nil {
		return Page{}, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	matched := []models.Post{}
	for _, p := range posts {
		if publishedOnly && !p.Published {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		matched = append(matched, p)
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if pageNum <= 0 {
		pageNum = 1
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit

	start := (pageNum - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page{
		Posts:      matched[start:end],
		Total:      total,
		PageNum:    pageNum,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// matches reports whether the search term occurs in the post's title, body,
// or author name, case-insensitively.
func matches(p models.Post, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Body), search) {
		return true
	}
	name := strings.ToLower(p.Author.FirstName + " " + p.Author.LastName)
	return strings.Contains(name, search)
}
