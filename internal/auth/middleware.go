package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CookieName is the cookie that carries the access token for browser clients.
const CookieName = "jwt"

type ctxKey struct{}

// FailFunc writes the response for a rejected request.
type FailFunc func(w http.ResponseWriter, r *http.Request, status int, messageID string)

// WithClaims returns a context carrying the authenticated claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext returns the claims set by Require, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// Require rejects requests without a valid token from the Authorization
// header or the jwt cookie. The token's account is reloaded on every request;
// the claims passed on carry its current email and role.
func (i *Issuer) Require(fail FailFunc, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			fail(w, r, http.StatusUnauthorized, "auth.required")
			return
		}
		claims, err := i.Parse(token)
		if err != nil {
			fail(w, r, http.StatusUnauthorized, "auth.invalid_token")
			return
		}
		oid, err := bson.ObjectIDFromHex(claims.Subject)
		if err != nil {
			fail(w, r, http.StatusUnauthorized, "auth.invalid_token")
			return
		}
		u, err := i.users.Get(r.Context(), oid)
		if err != nil {
			log.Printf("ERROR auth: load user %s: %v", claims.Subject, err)
			fail(w, r, http.StatusInternalServerError, "error.internal")
			return
		}
		if u == nil {
			fail(w, r, http.StatusUnauthorized, "auth.user_gone")
			return
		}
		claims.Email = u.Email
		claims.Role = u.Role
		claims.Admin = u.Admin()
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin is Require plus an admin role check.
func (i *Issuer) RequireAdmin(fail FailFunc, next http.Handler) http.Handler {
	return i.Require(fail, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, _ := ClaimsFromContext(r.Context()); c == nil || !c.Admin {
			fail(w, r, http.StatusForbidden, "auth.admin_only")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// SetCookie stores the token in an HttpOnly cookie.
func (i *Issuer) SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  i.now().Add(i.ttl),
	})
}

// ClearCookie expires the token cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
