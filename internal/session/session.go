// Package session manages opaque bearer-token sessions. Each session is a
// durable storage slot holding a JSON copy of the authenticated account with
// its password hash stripped. Tokens survive a process restart because the
// slots are durable; they are revoked only by logout.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

const (
	// keyPrefix namespaces session slots to avoid collisions with record
	// collections.
	keyPrefix = "session:"

	// tokenLength is the byte length of the random token (32 bytes = 64 hex
	// chars).
	tokenLength = 32
)

// Store manages session lifecycle on top of the slot storage.
type Store struct {
	kv storage.Store
}

// NewStore creates a session store backed by the given storage.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Create issues a new opaque token and caches the account (minus its
// password hash) under it.
func (s *Store) Create(ctx context.Context, user models.User) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if err := s.write(ctx, token, user); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token to its cached account. Returns nil for an unknown or
// revoked token; that is not an error.
func (s *Store) Get(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	payload, err := s.kv.Get(ctx, keyPrefix+token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &user, nil
}

// Update replaces the cached account without changing the token. Used after
// profile edits so the session reflects the new identity fields.
func (s *Store) Update(ctx context.Context, token string, user models.User) error {
	return s.write(ctx, token, user)
}

// Destroy revokes the token. Revoking an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, token string, user models.User) error {
	payload, err := json.Marshal(user.Sanitized())
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.kv.Set(ctx, keyPrefix+token, payload); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// generateToken returns a cryptographically random hex token.
func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
