package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

// PostsKey is the slot holding the post collection.
const PostsKey = "posts"

// PostStore manages the durable post collection. The content service owns
// all querying and mutation logic; this store only loads and saves the
// sequence.
type PostStore struct {
	slot *Slot[models.Post]
}

// NewPostStore creates a post store over the given storage backend. An empty
// slot is seeded with three published sample posts so a fresh install has
// something to show.
func NewPostStore(kv storage.Store) *PostStore {
	return &PostStore{slot: NewSlot(kv, PostsKey, seedPosts)}
}

// Load returns all posts, seeding the slot on first use.
func (s *PostStore) Load(ctx context.Context) ([]models.Post, error) {
	return s.slot.Load(ctx)
}

// Save replaces the post collection wholesale.
func (s *PostStore) Save(ctx context.Context, posts []models.Post) error {
	return s.slot.Save(ctx, posts)
}

func seedPosts() []models.Post {
	john := models.Author{ID: uuid.NewString(), FirstName: "John", LastName: "Doe"}
	jane := models.Author{ID: uuid.NewString(), FirstName: "Jane", LastName: "Smith"}

	at := func(day int) time.Time {
		return time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC)
	}

	return []models.Post{
		{
			ID:        uuid.NewString(),
			Title:     "Welcome to Inkwell",
			Slug:      "welcome-to-inkwell",
			Body:      "Inkwell is a small self-hosted blog platform. Register an account, write your first post, and hit publish when it is ready for the world.",
			AuthorID:  john.ID,
			Author:    john,
			Published: true,
			CreatedAt: at(15),
			UpdatedAt: at(15),
		},
		{
			ID:        uuid.NewString(),
			Title:     "Writing Posts in Markdown",
			Slug:      "writing-posts-in-markdown",
			Body:      "Post bodies are plain Markdown. Headings, lists, links, and fenced code blocks all render on the post page, with syntax highlighting for code.",
			AuthorID:  jane.ID,
			Author:    jane,
			Published: true,
			CreatedAt: at(10),
			UpdatedAt: at(10),
		},
		{
			ID:        uuid.NewString(),
			Title:     "Drafts and Publishing",
			Slug:      "drafts-and-publishing",
			Body:      "New posts start as drafts visible only to their author. Toggle the publish flag when you want a post to appear on the public listing.",
			AuthorID:  john.ID,
			Author:    john,
			Published: true,
			CreatedAt: at(8),
			UpdatedAt: at(8),
		},
	}
}
