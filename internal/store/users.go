package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

// UsersKey is the slot holding the account collection.
const UsersKey = "registered_users"

// UserStore manages the durable account collection. Mutations are serialized
// in-process; across processes the slot remains last-writer-wins at
// whole-collection granularity.
type UserStore struct {
	mu   sync.Mutex
	slot *Slot[models.User]
}

// NewUserStore creates a user store over the given storage backend. The
// first Load seeds exactly one admin account with the given credentials.
func NewUserStore(kv storage.Store, adminEmail, adminPassword string) *UserStore {
	seed := func() []models.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			// bcrypt only fails on invalid cost or oversized input; neither
			// applies to configuration values.
			panic(fmt.Sprintf("store: hash seed admin password: %v", err))
		}
		return []models.User{{
			ID:           uuid.NewString(),
			Email:        adminEmail,
			FirstName:    "Admin",
			LastName:     "User",
			Role:         models.RoleAdmin,
			Verified:     true,
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			PasswordHash: string(hash),
		}}
	}
	return &UserStore{slot: NewSlot(kv, UsersKey, seed)}
}

// Load returns all accounts, seeding the slot on first use. Records include
// password hashes; callers expose only Sanitized copies.
func (s *UserStore) Load(ctx context.Context) ([]models.User, error) {
	return s.slot.Load(ctx)
}

// Save replaces the account collection wholesale.
func (s *UserStore) Save(ctx context.Context, users []models.User) error {
	return s.slot.Save(ctx, users)
}

// FindByEmail retrieves an account by email, case-sensitive as stored.
// Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// FindByID retrieves an account by id. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Create appends a new account with a bcrypt-hashed password and role user.
// Returns nil without error when the email is already registered, leaving
// the collection unchanged.
func (s *UserStore) Create(ctx context.Context, email, password, firstName, lastName, profileImage string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return nil, nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("store: hash password: %w", err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		ProfileImage: profileImage,
		Role:         models.RoleUser,
		Verified:     false,
		CreatedAt:    time.Now().UTC(),
		PasswordHash: string(hash),
	}

	if err := s.Save(ctx, append(users, u)); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies fn to the matching account and persists the collection.
// Returns the updated account, or nil if no account matched.
func (s *UserStore) Update(ctx context.Context, id string, fn func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			fn(&users[i])
			if err := s.Save(ctx, users); err != nil {
				return nil, err
			}
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Delete removes an account by id. Deleting does not reserve the email; the
// address may be re-registered afterwards. Returns true when a record was
// removed.
func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return false, nil
	}
	if err := s.Save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all accounts with password hashes stripped, for
// administrative display.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitized())
	}
	return out, nil
}

// CheckPassword verifies a plaintext password against the account's stored
// hash.
func (s *UserStore) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
