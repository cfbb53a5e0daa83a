package service

import (
	"context"
	"fmt"
	"strings"

	"fitpharm-api/internal/model"
)

// Actor is the authenticated caller of an operation. UserID is the
// user's ObjectID in hex.
type Actor struct {
	UserID string
	Admin  bool
}

type FeedbackService struct {
	store FeedbackStore
	users UserStore
}

func NewFeedbackService(store FeedbackStore, users UserStore) *FeedbackService {
	return &FeedbackService{store: store, users: users}
}

type CreateFeedbackInput struct {
	PackageName string `json:"packageName" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Note        string `json:"note" validate:"required"`
	Date        string `json:"date"`
}

type UpdateFeedbackInput struct {
	PackageName *string `json:"packageName" validate:"omitnil,min=1"`
	Type        *string `json:"type" validate:"omitnil,min=1"`
	Rating      *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	Note        *string `json:"note" validate:"omitnil,min=1"`
}

// Create records feedback under the caller's own name and email.
func (s *FeedbackService) Create(ctx context.Context, actor Actor, in CreateFeedbackInput) (*model.Feedback, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	oid, err := parseObjectID(actor.UserID, "user.not_found")
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, newError(KindUnauthorized, "auth.user_gone", nil)
	}

	f := &model.Feedback{
		CustomerID:    u.ID,
		CustomerName:  u.Name,
		CustomerEmail: u.Email,
		PackageName:   strings.TrimSpace(in.PackageName),
		Type:          strings.TrimSpace(in.Type),
		Rating:        in.Rating,
		Note:          in.Note,
	}
	if in.Date != "" {
		d, ok := parseDate(in.Date)
		if !ok {
			return nil, fieldError("date", "date")
		}
		f.Date = d.UTC()
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

func (s *FeedbackService) List(ctx context.Context) ([]*model.Feedback, error) {
	return s.store.List(ctx)
}

func (s *FeedbackService) ListMine(ctx context.Context, actor Actor) ([]*model.Feedback, error) {
	oid, err := parseObjectID(actor.UserID, "user.not_found")
	if err != nil {
		return nil, err
	}
	return s.store.ListByCustomer(ctx, oid)
}

func (s *FeedbackService) Get(ctx context.Context, feedbackID int64) (*model.Feedback, error) {
	f, err := s.store.Get(ctx, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if f == nil {
		return nil, notFound("feedback.not_found", map[string]any{"ID": feedbackID})
	}
	return f, nil
}

func (s *FeedbackService) Update(ctx context.Context, actor Actor, feedbackID int64, in UpdateFeedbackInput) (*model.Feedback, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	f, err := s.owned(ctx, actor, feedbackID)
	if err != nil {
		return nil, err
	}
	if in.PackageName != nil {
		f.PackageName = strings.TrimSpace(*in.PackageName)
	}
	if in.Type != nil {
		f.Type = strings.TrimSpace(*in.Type)
	}
	if in.Rating != nil {
		f.Rating = *in.Rating
	}
	if in.Note != nil {
		f.Note = *in.Note
	}
	if err := s.store.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("update feedback: %w", err)
	}
	return f, nil
}

func (s *FeedbackService) Delete(ctx context.Context, actor Actor, feedbackID int64) error {
	if _, err := s.owned(ctx, actor, feedbackID); err != nil {
		return err
	}
	if _, err := s.store.Delete(ctx, feedbackID); err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return nil
}

// owned loads the feedback and checks that the actor wrote it or is an admin.
func (s *FeedbackService) owned(ctx context.Context, actor Actor, feedbackID int64) (*model.Feedback, error) {
	f, err := s.Get(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if actor.Admin {
		return f, nil
	}
	if f.CustomerID.IsZero() || f.CustomerID.Hex() != actor.UserID {
		return nil, newError(KindForbidden, "feedback.forbidden", nil)
	}
	return f, nil
}
