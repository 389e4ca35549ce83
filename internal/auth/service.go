// Package auth implements the account and session service: login, logout,
// registration, profile updates, and administrative account management.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

var (
	// ErrInvalidCredentials is returned when no account matches the given
	// email and password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("auth: email already registered")
)

// Service wires the user record store and the session store together.
type Service struct {
	users    *store.UserStore
	sessions *session.Store
}

// NewService creates the auth service.
func NewService(users *store.UserStore, sessions *session.Store) *Service {
	return &Service{users: users, sessions: sessions}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	ProfileImage string
}

// ProfileUpdate carries the whitelisted profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	ProfileImage *string
}

// Login authenticates an email/password pair. On success it establishes a
// session and returns the sanitized account plus the opaque token.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, "", err
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, *user)
	if err != nil {
		return models.User{}, "", err
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return user.Sanitized(), token, nil
}

// Register appends a new account with role user. It does not authenticate
// the new account. Returns ErrEmailTaken when the email already exists; the
// store is left unchanged in that case.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	user, err := s.users.Create(ctx, in.Email, in.Password, in.FirstName, in.LastName, in.ProfileImage)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, ErrEmailTaken
	}

	slog.Info("user registered", "user_id", user.ID)
	return user.Sanitized(), nil
}

// Logout revokes the session token. Always succeeds for unknown tokens.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Session resolves a token to its cached account, or nil when the token is
// unknown.
func (s *Service) Session(ctx context.Context, token string) (*models.User, error) {
	return s.sessions.Get(ctx, token)
}

// UpdateProfile merges the given fields into the session's account and the
// matching durable record. Without a valid session it is a silent no-op and
// returns nil.
func (s *Service) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error) {
	current, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	updated, err := s.users.Update(ctx, current.ID, func(u *models.User) {
		if update.FirstName != nil {
			u.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			u.LastName = *update.LastName
		}
		if update.Email != nil {
			u.Email = *update.Email
		}
		if update.ProfileImage != nil {
			u.ProfileImage = *update.ProfileImage
		}
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Session points at a record deleted since login; treat as no
		// session.
		return nil, nil
	}

	if err := s.sessions.Update(ctx, token, *updated); err != nil {
		return nil, err
	}

	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// ListAccounts returns all accounts with password hashes stripped, for
// administrative display.
func (s *Service) ListAccounts(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// DeleteAccount removes an account by id. Deletion does not reserve the
// email. Returns false when no account matched.
func (s *Service) DeleteAccount(ctx context.Context, id string) (bool, error) {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		slog.Info("user deleted", "user_id", id)
	}
	return removed, nil
}
