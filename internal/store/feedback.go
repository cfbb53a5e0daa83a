package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fitpharm-api/internal/model"
)

type FeedbackStore struct {
	coll     *mongo.Collection
	counters *Counters
}

func NewFeedbackStore(ctx context.Context, db *MongoDB, counters *Counters) (*FeedbackStore, error) {
	coll := db.Collection("package_feedback")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pf_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create feedback indexes: %w", err)
	}

	return &FeedbackStore{coll: coll, counters: counters}, nil
}

func (s *FeedbackStore) Create(ctx context.Context, f *model.Feedback) error {
	id, err := s.counters.Next(ctx, "pf_id")
	if err != nil {
		return err
	}
	f.FeedbackID = id
	f.UpdatedAt = time.Now()
	if f.Date.IsZero() {
		f.Date = f.UpdatedAt
	}
	res, err := s.coll.InsertOne(ctx, f)
	if err != nil {
		return wrapWriteErr("insert feedback", err)
	}
	f.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *FeedbackStore) Get(ctx context.Context, feedbackID int64) (*model.Feedback, error) {
	var f model.Feedback
	err := s.coll.FindOne(ctx, bson.M{"pf_id": feedbackID}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return &f, nil
}

func (s *FeedbackStore) List(ctx context.Context) ([]*model.Feedback, error) {
	return s.find(ctx, bson.M{})
}

func (s *FeedbackStore) ListByCustomer(ctx context.Context, customerID bson.ObjectID) ([]*model.Feedback, error) {
	return s.find(ctx, bson.M{"customer_id": customerID})
}

func (s *FeedbackStore) Update(ctx context.Context, f *model.Feedback) error {
	f.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": f.ID}, f)
	return wrapWriteErr("update feedback", err)
}

func (s *FeedbackStore) Delete(ctx context.Context, feedbackID int64) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"pf_id": feedbackID})
	if err != nil {
		return false, fmt.Errorf("delete feedback: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *FeedbackStore) find(ctx context.Context, filter bson.M) ([]*model.Feedback, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return decodeAll[model.Feedback](ctx, cursor, "feedback")
}
