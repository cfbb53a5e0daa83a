package service

import (
	"context"
	"testing"

	"fitpharm-api/internal/store/memstore"
)

func newFeedbackFixture(t *testing.T) (*FeedbackService, Actor, Actor) {
	t.Helper()
	users := memstore.NewUserStore()
	usvc := NewUserService(users, stubIssuer{})
	owner := register(t, usvc, "owner@example.com").User
	other := register(t, usvc, "other@example.com").User
	return NewFeedbackService(memstore.NewFeedbackStore(), users),
		Actor{UserID: owner.ID.Hex()},
		Actor{UserID: other.ID.Hex()}
}

func TestFeedbackCreateUsesCallerIdentity(t *testing.T) {
	svc, owner, _ := newFeedbackFixture(t)
	f, err := svc.Create(context.Background(), owner, CreateFeedbackInput{PackageName: "Gold", Type: "Gym", Rating: 5, Note: "Great"})
	mustNoErr(t, err)
	if f.FeedbackID != 1 || f.CustomerID.Hex() != owner.UserID || f.CustomerEmail != "owner@example.com" || f.CustomerName != "Sam" || f.Date.IsZero() {
		t.Errorf("unexpected feedback: %+v", f)
	}

	_, err = svc.Create(context.Background(), owner, CreateFeedbackInput{PackageName: "Gold", Type: "Gym", Rating: 6, Note: "Too good"})
	requireError(t, err, KindValidation, "error.validation")
}

func TestFeedbackOwnership(t *testing.T) {
	svc, owner, other := newFeedbackFixture(t)
	ctx := context.Background()
	f, err := svc.Create(ctx, owner, CreateFeedbackInput{PackageName: "Gold", Type: "Gym", Rating: 4, Note: "Good"})
	mustNoErr(t, err)

	_, err = svc.Update(ctx, other, f.FeedbackID, UpdateFeedbackInput{Rating: ptr(1)})
	requireError(t, err, KindForbidden, "feedback.forbidden")
	requireError(t, svc.Delete(ctx, other, f.FeedbackID), KindForbidden, "feedback.forbidden")

	got, err := svc.Update(ctx, owner, f.FeedbackID, UpdateFeedbackInput{Rating: ptr(5)})
	mustNoErr(t, err)
	if got.Rating != 5 {
		t.Errorf("rating = %d, want 5", got.Rating)
	}

	mine, err := svc.ListMine(ctx, owner)
	mustNoErr(t, err)
	if len(mine) != 1 {
		t.Errorf("mine = %d, want 1", len(mine))
	}

	admin := Actor{UserID: other.UserID, Admin: true}
	mustNoErr(t, svc.Delete(ctx, admin, f.FeedbackID))
	_, err = svc.Get(ctx, f.FeedbackID)
	requireError(t, err, KindNotFound, "feedback.not_found")
}

func TestFeedbackOwnershipSurvivesEmailReuse(t *testing.T) {
	ctx := context.Background()
	users := memstore.NewUserStore()
	usvc := NewUserService(users, stubIssuer{})
	svc := NewFeedbackService(memstore.NewFeedbackStore(), users)

	alice := register(t, usvc, "alice@example.com").User
	aliceActor := Actor{UserID: alice.ID.Hex()}
	f, err := svc.Create(ctx, aliceActor, CreateFeedbackInput{PackageName: "Gold", Type: "Gym", Rating: 4, Note: "Good"})
	mustNoErr(t, err)

	_, err = usvc.UpdateProfile(ctx, alice.ID.Hex(), ProfileInput{Email: ptr("alice2@example.com")})
	mustNoErr(t, err)
	mallory := register(t, usvc, "alice@example.com").User
	malloryActor := Actor{UserID: mallory.ID.Hex()}

	_, err = svc.Update(ctx, malloryActor, f.FeedbackID, UpdateFeedbackInput{Rating: ptr(1)})
	requireError(t, err, KindForbidden, "feedback.forbidden")
	requireError(t, svc.Delete(ctx, malloryActor, f.FeedbackID), KindForbidden, "feedback.forbidden")
	mine, err := svc.ListMine(ctx, malloryActor)
	mustNoErr(t, err)
	if len(mine) != 0 {
		t.Errorf("new holder of the old email sees %d feedback rows", len(mine))
	}

	got, err := svc.Update(ctx, aliceActor, f.FeedbackID, UpdateFeedbackInput{Rating: ptr(5)})
	mustNoErr(t, err)
	if got.Rating != 5 {
		t.Errorf("rating = %d, want 5", got.Rating)
	}
	mine, err = svc.ListMine(ctx, aliceActor)
	mustNoErr(t, err)
	if len(mine) != 1 || mine[0].FeedbackID != f.FeedbackID {
		t.Errorf("mine = %+v", mine)
	}
}
