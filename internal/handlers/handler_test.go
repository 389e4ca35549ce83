// handler_test.go provides shared infrastructure for handler integration
// tests. Each test gets a fresh in-memory backend and a full router, so the
// middleware stack is exercised exactly as in production.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/content"
	"inkwell/internal/handlers"
	"inkwell/internal/router"
	"inkwell/internal/session"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "password123"
)

// testServer runs the full HTTP stack over an in-memory backend.
type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	kv := storage.NewMemory()
	users := store.NewUserStore(kv, testAdminEmail, testAdminPassword)
	posts := store.NewPostStore(kv)
	sessions := session.NewStore(kv)

	authSvc := auth.NewService(users, sessions)
	contentSvc := content.NewService(posts)

	r := router.New(sessions,
		handlers.NewAuth(authSvc),
		handlers.NewPosts(contentSvc),
		handlers.NewUsers(authSvc, nil))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{t: t, srv: srv}
}

// request performs an HTTP request against the test server. A non-empty token
// is sent as a bearer token; a non-nil payload is marshaled as JSON.
func (s *testServer) request(method, path, token string, payload any) *http.Response {
	s.t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			s.t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, body)
	if err != nil {
		s.t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.Client().Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeJSON reads and closes the response body into a generic map.
func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// login authenticates and returns the session token.
func (s *testServer) login(email, password string) string {
	s.t.Helper()

	resp := s.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		s.t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}

	body := decodeJSON(s.t, resp)
	token, _ := body["accessToken"].(string)
	if token == "" {
		s.t.Fatal("login response has no accessToken")
	}
	return token
}

// registerAndLogin creates a fresh account and returns its session token.
func (s *testServer) registerAndLogin(email, firstName, lastName string) string {
	s.t.Helper()

	resp := s.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  "secret123",
		"firstName": firstName,
		"lastName":  lastName,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		s.t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	return s.login(email, "secret123")
}

// createPost creates a post and returns its JSON representation.
func (s *testServer) createPost(token, title, body string, published bool) map[string]any {
	s.t.Helper()

	resp := s.request(http.MethodPost, "/api/posts", token, map[string]any{
		"title":       title,
		"content":     body,
		"isPublished": published,
	})
	if resp.StatusCode != http.StatusCreated {
		resp.Body.Close()
		s.t.Fatalf("create post %q: status %d", title, resp.StatusCode)
	}

	out := decodeJSON(s.t, resp)
	blog, ok := out["blog"].(map[string]any)
	if !ok {
		s.t.Fatalf("create post response missing blog: %v", out)
	}
	return blog
}

// postID extracts the id field from a post JSON object.
func postID(t *testing.T, blog map[string]any) string {
	t.Helper()
	id, _ := blog["id"].(string)
	if id == "" {
		t.Fatalf("post has no id: %v", blog)
	}
	return id
}
