package auth

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	kv := storage.NewMemory()
	return NewService(
		store.NewUserStore(kv, "admin@example.com", "password123"),
		session.NewStore(kv),
	)
}

func TestLoginSeedAdmin(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	user, token, err := s.Login(ctx, "admin@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("session role: got %q, want admin", user.Role)
	}
	if user.PasswordHash != "" {
		t.Error("login result must not carry a password hash")
	}

	// The cached session account is sanitized too.
	cached, err := s.Session(ctx, token)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if cached == nil || cached.PasswordHash != "" {
		t.Errorf("cached session: got %+v", cached)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	_, _, err := s.Login(ctx, "admin@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password: got %v", err)
	}

	_, _, err = s.Login(ctx, "nobody@example.com", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with unknown email: got %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	user, err := s.Register(ctx, RegisterInput{
		Email: "a@b.com", Password: "x", FirstName: "A", LastName: "B",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("registered role: got %q", user.Role)
	}

	// Register does not authenticate — login must be a separate step.
	logged, _, err := s.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login after register: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login identity mismatch: %q vs %q", logged.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	if _, err := s.Register(ctx, RegisterInput{Email: "a@b.com", Password: "x", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := s.Register(ctx, RegisterInput{Email: "a@b.com", Password: "y", FirstName: "C", LastName: "D"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register: got %v, want ErrEmailTaken", err)
	}

	accounts, _ := s.ListAccounts(ctx)
	if len(accounts) != 2 {
		t.Errorf("account count changed on failed register: %d", len(accounts))
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	_, token, _ := s.Login(ctx, "admin@example.com", "password123")

	if err := s.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	cached, err := s.Session(ctx, token)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if cached != nil {
		t.Error("token must not resolve after logout")
	}

	// Logging out twice is fine.
	if err := s.Logout(ctx, token); err != nil {
		t.Errorf("Logout (again): %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	_, token, _ := s.Login(ctx, "admin@example.com", "password123")

	first := "Ada"
	img := "https://img.example/ada.png"
	updated, err := s.UpdateProfile(ctx, token, ProfileUpdate{FirstName: &first, ProfileImage: &img})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated == nil || updated.FirstName != "Ada" || updated.ProfileImage != img {
		t.Errorf("UpdateProfile: got %+v", updated)
	}
	if updated.LastName != "User" {
		t.Errorf("unset fields must be preserved: %+v", updated)
	}

	// Both the session cache and the durable record reflect the change.
	cached, _ := s.Session(ctx, token)
	if cached.FirstName != "Ada" {
		t.Errorf("session not updated: %+v", cached)
	}
	accounts, _ := s.ListAccounts(ctx)
	for _, a := range accounts {
		if a.Email == "admin@example.com" && a.FirstName != "Ada" {
			t.Errorf("record not updated: %+v", a)
		}
	}
}

func TestUpdateProfileWithoutSession(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	first := "Ghost"
	updated, err := s.UpdateProfile(ctx, "no-such-token", ProfileUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated != nil {
		t.Error("update without a session must be a no-op")
	}
}

func TestDeleteAccountFreesEmail(t *testing.T) {
	ctx := context.Background()
	s := testService(t)

	user, _ := s.Register(ctx, RegisterInput{Email: "a@b.com", Password: "x", FirstName: "A", LastName: "B"})

	removed, err := s.DeleteAccount(ctx, user.ID)
	if err != nil || !removed {
		t.Fatalf("DeleteAccount: removed=%v err=%v", removed, err)
	}

	if _, err := s.Register(ctx, RegisterInput{Email: "a@b.com", Password: "y", FirstName: "A", LastName: "B"}); err != nil {
		t.Errorf("email should be re-registrable after delete: %v", err)
	}
}
