package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
)

// Auth groups the authentication and profile HTTP handlers.
type Auth struct {
	service *auth.Service
}

// NewAuth creates the Auth handler group.
func NewAuth(service *auth.Service) *Auth {
	return &Auth{service: service}
}

// loginPayload is the login request body.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerPayload is the registration request body.
type registerPayload struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

// profilePayload carries the whitelisted profile fields; absent fields are
// left unchanged.
type profilePayload struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profileImage"`
}

// Login authenticates a credentials pair and returns the account plus the
// session token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	user, token, err := a.service.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"accessToken": token,
	})
}

// Register creates a new account. It does not log the account in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	if msg := validateRegistration(payload.Email, payload.Password, payload.FirstName, payload.LastName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.service.Register(r.Context(), auth.RegisterInput{
		Email:        payload.Email,
		Password:     payload.Password,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		ProfileImage: payload.ProfileImage,
	})
	if errors.Is(err, auth.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}
	if err != nil {
		slog.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Logout revokes the current session token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Logout(r.Context(), middleware.TokenFromCtx(r.Context())); err != nil {
		slog.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the account behind the current session.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": middleware.UserFromCtx(r.Context())})
}

// UpdateProfile merges the submitted fields into the current account.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	if payload.Email != nil {
		if msg := validateEmail(*payload.Email); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if payload.FirstName != nil {
		if msg := validateName(*payload.FirstName, "First name"); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if payload.LastName != nil {
		if msg := validateName(*payload.LastName, "Last name"); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	user, err := a.service.UpdateProfile(r.Context(), middleware.TokenFromCtx(r.Context()), auth.ProfileUpdate{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		ProfileImage: payload.ProfileImage,
	})
	if err != nil {
		slog.Error("profile update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
