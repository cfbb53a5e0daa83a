package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"fitpharm-api/internal/model"
)

func testUser(admin bool) *model.User {
	u := &model.User{ID: bson.NewObjectID(), Email: "sam@example.com", Role: model.UserRoleClient}
	if admin {
		u.Role = model.UserRoleAdmin
		u.IsAdmin = true
	}
	return u
}

// userMap is a UserLookup over fixed accounts.
type userMap map[bson.ObjectID]*model.User

func (m userMap) Get(_ context.Context, id bson.ObjectID) (*model.User, error) {
	if u, ok := m[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

type failingLookup struct{}

func (failingLookup) Get(context.Context, bson.ObjectID) (*model.User, error) {
	return nil, errors.New("connection refused")
}

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, nil)
	u := testUser(false)
	token, err := iss.Issue(u)
	if err != nil {
		t.Fatal(err)
	}

	c, err := iss.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if c.Subject != u.ID.Hex() || c.Email != u.Email || c.Admin {
		t.Errorf("claims = %+v", c)
	}

	if _, err := NewIssuer("other", time.Hour, nil).Parse(token); err == nil {
		t.Error("token accepted with the wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	iss := NewIssuer("secret", time.Hour, nil)
	iss.now = func() time.Time { return now }
	token, err := iss.Issue(testUser(false))
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := iss.Parse(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestRequireAdmin(t *testing.T) {
	client, admin := testUser(false), testUser(true)
	demoted, deleted := testUser(true), testUser(true)
	users := userMap{client.ID: client, admin.ID: admin, demoted.ID: demoted, deleted.ID: deleted}
	iss := NewIssuer("secret", time.Hour, users)

	var failed []string
	fail := func(w http.ResponseWriter, r *http.Request, status int, messageID string) {
		failed = append(failed, messageID)
		w.WriteHeader(status)
	}
	h := iss.RequireAdmin(fail, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFromContext(r.Context()); !ok || !c.Admin {
			t.Error("claims missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	clientToken, _ := iss.Issue(client)
	adminToken, _ := iss.Issue(admin)
	demotedToken, _ := iss.Issue(demoted)
	deletedToken, _ := iss.Issue(deleted)
	strangerToken, _ := iss.Issue(testUser(true))

	// Accounts change after their tokens were issued.
	users[demoted.ID].Role = model.UserRoleClient
	users[demoted.ID].IsAdmin = false
	delete(users, deleted.ID)

	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
	}
	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", bearer("x.y.z"), http.StatusUnauthorized},
		{"client", bearer(clientToken), http.StatusForbidden},
		{"admin header", bearer(adminToken), http.StatusNoContent},
		{"admin cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: adminToken}) }, http.StatusNoContent},
		{"demoted admin", bearer(demotedToken), http.StatusForbidden},
		{"deleted admin", bearer(deletedToken), http.StatusUnauthorized},
		{"unknown account", bearer(strangerToken), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
	want := []string{"auth.required", "auth.invalid_token", "auth.admin_only", "auth.admin_only", "auth.user_gone", "auth.user_gone"}
	if len(failed) != len(want) {
		t.Fatalf("failures = %v, want %v", failed, want)
	}
	for i := range want {
		if failed[i] != want[i] {
			t.Errorf("failure %d = %q, want %q", i, failed[i], want[i])
		}
	}
}

func TestRequireRefreshesClaims(t *testing.T) {
	u := testUser(false)
	users := userMap{u.ID: u}
	iss := NewIssuer("secret", time.Hour, users)
	token, _ := iss.Issue(u)
	users[u.ID].Email = "sam.new@example.com"

	var got *Claims
	h := iss.Require(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Email != "sam.new@example.com" {
		t.Errorf("claims = %+v", got)
	}
}

func TestRequireLookupFailure(t *testing.T) {
	u := testUser(false)
	iss := NewIssuer("secret", time.Hour, failingLookup{})
	token, _ := iss.Issue(u)

	var status int
	var messageID string
	h := iss.Require(func(w http.ResponseWriter, r *http.Request, s int, id string) {
		status, messageID = s, id
	}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("request passed with a failing user lookup")
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if status != http.StatusInternalServerError || messageID != "error.internal" {
		t.Errorf("fail(%d, %q)", status, messageID)
	}
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearCookie(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v", cookies)
	}
}
