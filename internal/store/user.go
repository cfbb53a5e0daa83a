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

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(ctx context.Context, db *MongoDB) (*UserStore, error) {
	coll := db.Collection("users")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reset_token_hash", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}); err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &UserStore{coll: coll}, nil
}

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return wrapWriteErr("insert user", err)
	}
	u.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *UserStore) Get(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByResetToken returns the user holding an unexpired reset token hash, or nil.
func (s *UserStore) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	return s.findOne(ctx, bson.M{
		"reset_token_hash":   tokenHash,
		"reset_token_expiry": bson.M{"$gt": now},
	})
}

func (s *UserStore) List(ctx context.Context) ([]*model.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return decodeAll[model.User](ctx, cursor, "users")
}

func (s *UserStore) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	return wrapWriteErr("update user", err)
}

func (s *UserStore) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
