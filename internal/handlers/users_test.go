package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
)

func TestUsersListAdminOnly(t *testing.T) {
	s := newTestServer(t)
	userToken := s.registerAndLogin("member@example.com", "Plain", "Member")
	adminToken := s.login(testAdminEmail, testAdminPassword)

	resp := s.request(http.MethodGet, "/api/users", userToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", resp.StatusCode)
	}

	resp = s.request(http.MethodGet, "/api/users", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", resp.StatusCode)
	}
	body := decodeJSON(t, resp)
	if body["total"] != float64(2) {
		t.Errorf("total = %v, want 2 (seed admin plus one member)", body["total"])
	}
	users, _ := body["users"].([]any)
	for _, u := range users {
		if m, _ := u.(map[string]any); m != nil {
			if _, leaked := m["passwordHash"]; leaked {
				t.Error("password hash leaked in user listing")
			}
		}
	}
}

func TestUsersListSearch(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin("finn@example.com", "Finn", "Drafter")
	adminToken := s.login(testAdminEmail, testAdminPassword)

	resp := s.request(http.MethodGet, "/api/users?search=finn", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeJSON(t, resp)
	if body["total"] != float64(1) {
		t.Errorf("total = %v, want 1 match for finn", body["total"])
	}
	users, _ := body["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("len(users) = %d, want 1", len(users))
	}
	first, _ := users[0].(map[string]any)
	if first["email"] != "finn@example.com" {
		t.Errorf("email = %v, want finn@example.com", first["email"])
	}
}

func TestUserDeleteSelfRejected(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(testAdminEmail, testAdminPassword)

	resp := s.request(http.MethodGet, "/api/auth/me", adminToken, nil)
	me := decodeJSON(t, resp)
	user, _ := me["user"].(map[string]any)
	id, _ := user["id"].(string)
	if id == "" {
		t.Fatal("no admin id")
	}

	resp = s.request(http.MethodDelete, "/api/users/"+id, adminToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUserDeleteFreesEmail(t *testing.T) {
	s := newTestServer(t)
	userToken := s.registerAndLogin("leaver@example.com", "Leav", "Er")
	adminToken := s.login(testAdminEmail, testAdminPassword)

	resp := s.request(http.MethodGet, "/api/auth/me", userToken, nil)
	me := decodeJSON(t, resp)
	user, _ := me["user"].(map[string]any)
	id, _ := user["id"].(string)

	resp = s.request(http.MethodDelete, "/api/users/"+id, adminToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	// The deleted account can no longer log in.
	resp = s.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "leaver@example.com",
		"password": "secret123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login after delete status = %d, want 401", resp.StatusCode)
	}

	// But the email is free to register again.
	resp = s.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "leaver@example.com",
		"password":  "secret123",
		"firstName": "Back",
		"lastName":  "Again",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("re-register status = %d, want 201", resp.StatusCode)
	}
}

func TestUserDeleteUnknown(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(testAdminEmail, testAdminPassword)

	resp := s.request(http.MethodDelete, "/api/users/no-such-id", adminToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAvatarUploadWithoutMediaStorage(t *testing.T) {
	s := newTestServer(t)
	token := s.login(testAdminEmail, testAdminPassword)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("png bytes"))
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/api/profile/avatar", &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when object storage is unconfigured", resp.StatusCode)
	}
}
