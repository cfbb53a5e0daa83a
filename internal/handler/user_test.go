package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitpharm-api/internal/model"
)

func registerUser(t *testing.T, s *testServer, email string) (token, id string) {
	t.Helper()
	rec := s.do(t, "POST", "/api/users/register", map[string]any{"name": "Sam", "email": email, "password": "secret1"}, "")
	expectStatus(t, rec, http.StatusCreated)
	res := decode[struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}](t, rec)
	if _, leaked := res.User["password"]; leaked {
		t.Error("password hash in response")
	}
	return res.Token, res.User["_id"].(string)
}

func TestUserAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := registerUser(t, s, "sam@example.com")

	rec := s.do(t, "POST", "/api/users/register", map[string]any{"name": "Sam", "email": "sam@example.com", "password": "secret1"}, "")
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := decode[MessageResponse](t, rec); msg.Message != "User already exists" {
		t.Errorf("message = %q", msg.Message)
	}

	rec = s.do(t, "POST", "/api/users/login", map[string]any{"email": "sam@example.com", "password": "secret1"}, "")
	expectStatus(t, rec, http.StatusOK)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("jwt cookie not set: %v", rec.Result().Cookies())
	}

	expectStatus(t, s.do(t, "POST", "/api/users/login", map[string]any{"email": "sam@example.com", "password": "nope"}, ""), http.StatusUnauthorized)

	rec = s.do(t, "GET", "/api/users/profile", nil, token)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]any](t, rec); got["email"] != "sam@example.com" {
		t.Errorf("profile = %v", got)
	}

	// The cookie works in place of the header.
	req := httptest.NewRequest("GET", "/api/users/profile", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, "GET", "/api/users/profile", nil, "")
	expectStatus(t, rec, http.StatusUnauthorized)
	if msg := decode[MessageResponse](t, rec); msg.Message != "Not authorized, no token" {
		t.Errorf("message = %q", msg.Message)
	}
	expectStatus(t, s.do(t, "GET", "/api/users/profile", nil, "forged"), http.StatusUnauthorized)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	clientToken, clientID := registerUser(t, s, "client@example.com")
	_, staffID := registerUser(t, s, "staff@example.com")

	expectStatus(t, s.do(t, "GET", "/api/users", nil, clientToken), http.StatusForbidden)

	// An admin token can promote another account.
	rec := s.do(t, "PUT", "/api/users/"+staffID, map[string]any{"isAdmin": true}, adminToken(t, s))
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]any](t, rec); got["role"] != "admin" {
		t.Errorf("promoted user = %v", got)
	}

	// The promoted user gets admin rights on the next login.
	rec = s.do(t, "POST", "/api/users/login", map[string]any{"email": "staff@example.com", "password": "secret1"}, "")
	expectStatus(t, rec, http.StatusOK)
	staffToken := decode[struct {
		Token string `json:"token"`
	}](t, rec).Token

	rec = s.do(t, "GET", "/api/users", nil, staffToken)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]map[string]any](t, rec); len(list) != 3 {
		t.Errorf("got %d users, want 3", len(list))
	}

	expectStatus(t, s.do(t, "DELETE", "/api/users/"+clientID, nil, staffToken), http.StatusOK)
	expectStatus(t, s.do(t, "GET", "/api/users/"+clientID, nil, staffToken), http.StatusNotFound)
}

func TestAdminRightsFollowTheAccount(t *testing.T) {
	s := newTestServer(t)
	root := adminToken(t, s)
	_, staffID := registerUser(t, s, "staff@example.com")
	expectStatus(t, s.do(t, "PUT", "/api/users/"+staffID, map[string]any{"isAdmin": true}, root), http.StatusOK)

	rec := s.do(t, "POST", "/api/users/login", map[string]any{"email": "staff@example.com", "password": "secret1"}, "")
	expectStatus(t, rec, http.StatusOK)
	staffToken := decode[struct {
		Token string `json:"token"`
	}](t, rec).Token
	expectStatus(t, s.do(t, "GET", "/api/users", nil, staffToken), http.StatusOK)

	// Demotion takes effect on the token already issued.
	expectStatus(t, s.do(t, "PUT", "/api/users/"+staffID, map[string]any{"isAdmin": false}, root), http.StatusOK)
	expectStatus(t, s.do(t, "GET", "/api/users", nil, staffToken), http.StatusForbidden)

	expectStatus(t, s.do(t, "DELETE", "/api/users/"+staffID, nil, root), http.StatusOK)
	rec = s.do(t, "GET", "/api/users", nil, staffToken)
	expectStatus(t, rec, http.StatusUnauthorized)
	if msg := decode[MessageResponse](t, rec); msg.Message != "User no longer exists" {
		t.Errorf("message = %q", msg.Message)
	}
	expectStatus(t, s.do(t, "GET", "/api/users/profile", nil, staffToken), http.StatusUnauthorized)
}

// adminToken stores an admin account and signs a token for it.
func adminToken(t *testing.T, s *testServer) string {
	t.Helper()
	root := &model.User{Name: "Root", Email: "root@example.com", Role: model.UserRoleAdmin, IsAdmin: true}
	if err := s.users.Create(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	token, err := s.issuer.Issue(root)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestPasswordResetRoutes(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "sam@example.com")

	rec := s.do(t, "POST", "/api/users/forgot-password", map[string]any{"email": "sam@example.com"}, "")
	expectStatus(t, rec, http.StatusOK)
	token := decode[forgotPasswordResponse](t, rec).ResetToken
	if token == "" {
		t.Fatal("reset token not returned in development")
	}

	expectStatus(t, s.do(t, "POST", "/api/users/reset-password/"+token, map[string]any{"password": "brandnew"}, ""), http.StatusOK)
	expectStatus(t, s.do(t, "POST", "/api/users/reset-password/"+token, map[string]any{"password": "brandnew"}, ""), http.StatusBadRequest)
	expectStatus(t, s.do(t, "POST", "/api/users/login", map[string]any{"email": "sam@example.com", "password": "brandnew"}, ""), http.StatusOK)
}

func TestFeedbackRoutes(t *testing.T) {
	s := newTestServer(t)
	owner, _ := registerUser(t, s, "owner@example.com")
	other, _ := registerUser(t, s, "other@example.com")

	body := map[string]any{"packageName": "Gold", "type": "Gym", "rating": 5, "note": "Great"}
	expectStatus(t, s.do(t, "POST", "/api/package-feedback", body, ""), http.StatusUnauthorized)

	rec := s.do(t, "POST", "/api/package-feedback", body, owner)
	expectStatus(t, rec, http.StatusCreated)
	if got := decode[map[string]any](t, rec); got["pfID"] != float64(1) || got["customerEmail"] != "owner@example.com" {
		t.Errorf("feedback = %v", got)
	}

	expectStatus(t, s.do(t, "GET", "/api/package-feedback", nil, ""), http.StatusOK)
	expectStatus(t, s.do(t, "GET", "/api/package-feedback/1", nil, ""), http.StatusOK)

	rec = s.do(t, "PUT", "/api/package-feedback/1", map[string]any{"rating": 1}, other)
	expectStatus(t, rec, http.StatusForbidden)
	if msg := decode[MessageResponse](t, rec); msg.Message != "You can only change your own feedback" {
		t.Errorf("message = %q", msg.Message)
	}

	rec = s.do(t, "GET", "/api/package-feedback/mine", nil, other)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]map[string]any](t, rec); len(list) != 0 {
		t.Errorf("other user sees %d entries", len(list))
	}

	expectStatus(t, s.do(t, "DELETE", "/api/package-feedback/1", nil, owner), http.StatusOK)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthRoutes(t *testing.T) {
	for _, tt := range []struct {
		name   string
		err    error
		status int
	}{
		{"up", nil, http.StatusOK},
		{"down", errors.New("no primary"), http.StatusServiceUnavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewHealthHandler(fakePinger{tt.err}).RegisterRoutes(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
			expectStatus(t, rec, tt.status)

			rec = httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
			expectStatus(t, rec, http.StatusOK)
		})
	}
}
