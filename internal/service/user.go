package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fitpharm-api/internal/model"
	"fitpharm-api/internal/store"
)

const resetTokenTTL = time.Hour

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

type UserService struct {
	store  UserStore
	tokens TokenIssuer
	now    func() time.Time
}

func NewUserService(store UserStore, tokens TokenIssuer) *UserService {
	return &UserService{store: store, tokens: tokens, now: time.Now}
}

type RegisterInput struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Mobile   string   `json:"mobile" validate:"omitempty,phone10"`
	Address  string   `json:"address"`
	Height   *float64 `json:"height" validate:"omitnil,gt=0"`
	Weight   *float64 `json:"weight" validate:"omitnil,gt=0"`
	Birthday string   `json:"birthday"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Name     *string  `json:"name" validate:"omitnil,min=1"`
	Email    *string  `json:"email" validate:"omitnil,email"`
	Password *string  `json:"password" validate:"omitnil,min=6"`
	Mobile   *string  `json:"mobile" validate:"omitnil,omitempty,phone10"`
	Address  *string  `json:"address"`
	Height   *float64 `json:"height" validate:"omitnil,gt=0"`
	Weight   *float64 `json:"weight" validate:"omitnil,gt=0"`
	Birthday *string  `json:"birthday"`
}

// AdminUserInput is what an admin may change on another account.
type AdminUserInput struct {
	ProfileInput
	Role    *string `json:"role" validate:"omitnil,oneof=client admin"`
	IsAdmin *bool   `json:"isAdmin"`
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if existing != nil {
		return nil, invalid("user.email_taken")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     model.UserRoleClient,
		Mobile:   in.Mobile,
		Address:  in.Address,
	}
	if in.Height != nil {
		u.Height = *in.Height
	}
	if in.Weight != nil {
		u.Weight = *in.Weight
	}
	if in.Birthday != "" {
		if err := setBirthday(u, in.Birthday); err != nil {
			return nil, err
		}
	}

	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, invalid("user.email_taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.authResult(u)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.store.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return nil, newError(KindUnauthorized, "auth.invalid_credentials", nil)
	}
	return s.authResult(u)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseObjectID(id, "user.not_found")
	if err != nil {
		return nil, err
	}
	u, err := s.store.Get(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, notFound("user.not_found", map[string]any{"ID": id})
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.store.List(ctx)
}

// UpdateProfile applies the caller's own changes. The password is re-hashed when set.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*model.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(u, in); err != nil {
		return nil, err
	}
	return u, s.save(ctx, u)
}

func (s *UserService) AdminUpdate(ctx context.Context, id string, in AdminUserInput) (*model.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(u, in.ProfileInput); err != nil {
		return nil, err
	}
	if in.Role != nil {
		u.Role = *in.Role
		u.IsAdmin = u.Role == model.UserRoleAdmin
	}
	if in.IsAdmin != nil {
		u.IsAdmin = *in.IsAdmin
		if u.IsAdmin {
			u.Role = model.UserRoleAdmin
		} else if u.Role == model.UserRoleAdmin {
			u.Role = model.UserRoleClient
		}
	}
	return u, s.save(ctx, u)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "user.not_found")
	if err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, oid)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return notFound("user.not_found", map[string]any{"ID": id})
	}
	return nil
}

// ForgotPassword issues a one-hour reset token for the account, if any.
// It returns "" without error for unknown emails so callers cannot probe accounts.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fieldError("email", "required")
	}
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return "", nil
	}

	token := uuid.NewString()
	expiry := s.now().Add(resetTokenTTL)
	u.ResetTokenHash = hashToken(token)
	u.ResetTokenExpiry = &expiry
	if err := s.store.Update(ctx, u); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

func (s *UserService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if _, err := uuid.Parse(token); err != nil {
		return invalid("user.reset_token_invalid")
	}
	u, err := s.store.GetByResetToken(ctx, hashToken(token), s.now())
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return invalid("user.reset_token_invalid")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	if err := s.store.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserService) save(ctx context.Context, u *model.User) error {
	if err := s.store.Update(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return invalid("user.email_taken")
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserService) authResult(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func applyProfile(u *model.User, in ProfileInput) error {
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return err
		}
		u.Password = hash
	}
	if in.Mobile != nil {
		u.Mobile = *in.Mobile
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.Height != nil {
		u.Height = *in.Height
	}
	if in.Weight != nil {
		u.Weight = *in.Weight
	}
	if in.Birthday != nil {
		if *in.Birthday == "" {
			u.Birthday = nil
		} else if err := setBirthday(u, *in.Birthday); err != nil {
			return err
		}
	}
	return nil
}

func setBirthday(u *model.User, s string) error {
	t, ok := parseDate(s)
	if !ok {
		return fieldError("birthday", "date")
	}
	t = t.UTC()
	u.Birthday = &t
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
