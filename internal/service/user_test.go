package service

import (
	"context"
	"testing"
	"time"

	"fitpharm-api/internal/model"
	"fitpharm-api/internal/store/memstore"
)

type stubIssuer struct{}

func (stubIssuer) Issue(u *model.User) (string, error) { return "token-" + u.ID.Hex(), nil }

func register(t *testing.T, svc *UserService, email string) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{Name: "Sam", Email: email, Password: "secret1"})
	mustNoErr(t, err)
	return res
}

func TestUserRegisterAndLogin(t *testing.T) {
	svc := NewUserService(memstore.NewUserStore(), stubIssuer{})
	ctx := context.Background()

	res := register(t, svc, " Sam@Example.com ")
	if res.User.Email != "sam@example.com" || res.User.Role != model.UserRoleClient || res.Token == "" {
		t.Errorf("unexpected result: %+v", res.User)
	}
	if res.User.Password == "secret1" {
		t.Error("password stored in plain text")
	}

	_, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "sam@example.com", Password: "secret2"})
	requireError(t, err, KindValidation, "user.email_taken")

	_, err = svc.Login(ctx, LoginInput{Email: "SAM@example.com", Password: "secret1"})
	mustNoErr(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "sam@example.com", Password: "wrong"})
	requireError(t, err, KindUnauthorized, "auth.invalid_credentials")
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	requireError(t, err, KindUnauthorized, "auth.invalid_credentials")
}

func TestUserRegisterValidation(t *testing.T) {
	svc := NewUserService(memstore.NewUserStore(), stubIssuer{})
	_, err := svc.Register(context.Background(), RegisterInput{Name: "Sam", Email: "sam@example.com", Password: "123", Mobile: "12"})
	se := requireError(t, err, KindValidation, "error.validation")
	for _, f := range []string{"password", "mobile"} {
		if _, ok := se.Fields[f]; !ok {
			t.Errorf("fields = %v, missing %s", se.Fields, f)
		}
	}
}

func TestUserAdminUpdateKeepsRoleAndFlagInSync(t *testing.T) {
	svc := NewUserService(memstore.NewUserStore(), stubIssuer{})
	ctx := context.Background()
	res := register(t, svc, "sam@example.com")

	u, err := svc.AdminUpdate(ctx, res.User.ID.Hex(), AdminUserInput{Role: ptr(model.UserRoleAdmin)})
	mustNoErr(t, err)
	if !u.IsAdmin || !u.Admin() {
		t.Errorf("role admin did not set IsAdmin: %+v", u)
	}

	u, err = svc.AdminUpdate(ctx, res.User.ID.Hex(), AdminUserInput{IsAdmin: ptr(false)})
	mustNoErr(t, err)
	if u.IsAdmin || u.Role != model.UserRoleClient {
		t.Errorf("clearing IsAdmin left %+v", u)
	}
}

func TestUserPasswordReset(t *testing.T) {
	svc := NewUserService(memstore.NewUserStore(), stubIssuer{})
	ctx := context.Background()
	register(t, svc, "sam@example.com")

	token, err := svc.ForgotPassword(ctx, "sam@example.com")
	mustNoErr(t, err)
	if token == "" {
		t.Fatal("no token issued")
	}

	unknown, err := svc.ForgotPassword(ctx, "ghost@example.com")
	mustNoErr(t, err)
	if unknown != "" {
		t.Error("token issued for unknown email")
	}

	requireError(t, svc.ResetPassword(ctx, "garbage", ResetPasswordInput{Password: "newpass"}), KindValidation, "user.reset_token_invalid")

	mustNoErr(t, svc.ResetPassword(ctx, token, ResetPasswordInput{Password: "newpass"}))
	_, err = svc.Login(ctx, LoginInput{Email: "sam@example.com", Password: "newpass"})
	mustNoErr(t, err)

	// Tokens are single use.
	requireError(t, svc.ResetPassword(ctx, token, ResetPasswordInput{Password: "again1"}), KindValidation, "user.reset_token_invalid")
}

func TestUserPasswordResetExpires(t *testing.T) {
	svc := NewUserService(memstore.NewUserStore(), stubIssuer{})
	ctx := context.Background()
	register(t, svc, "sam@example.com")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	token, err := svc.ForgotPassword(ctx, "sam@example.com")
	mustNoErr(t, err)

	now = now.Add(61 * time.Minute)
	requireError(t, svc.ResetPassword(ctx, token, ResetPasswordInput{Password: "newpass"}), KindValidation, "user.reset_token_invalid")
}

func TestUserProfileEmailTaken(t *testing.T) {
	svc := NewUserService(memstore.NewUserStore(), stubIssuer{})
	ctx := context.Background()
	register(t, svc, "a@example.com")
	b := register(t, svc, "b@example.com")

	_, err := svc.UpdateProfile(ctx, b.User.ID.Hex(), ProfileInput{Email: ptr("A@example.com")})
	requireError(t, err, KindValidation, "user.email_taken")

	u, err := svc.UpdateProfile(ctx, b.User.ID.Hex(), ProfileInput{Height: ptr(180.0), Birthday: ptr("1995-03-04")})
	mustNoErr(t, err)
	if u.Height != 180 || u.Birthday == nil || u.Birthday.Year() != 1995 {
		t.Errorf("unexpected profile: %+v", u)
	}
}
