package models

import (
	"time"
)

// Author is the denormalized identity snapshot embedded in each post.
// It is captured at creation time and intentionally not kept in sync with
// later profile edits.
type Author struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Post represents a single blog entry, owned by exactly one user.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	Author    Author    `json:"author"`
	Published bool      `json:"isPublished"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot builds the author snapshot for a new post from a user record.
func (u *User) Snapshot() Author {
	return Author{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
	}
}
