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

type ItemStore struct {
	items *mongo.Collection
	cart  *mongo.Collection
}

func NewItemStore(ctx context.Context, db *MongoDB) (*ItemStore, error) {
	items := db.Collection("items")
	cart := db.Collection("cart_items")

	if _, err := items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}); err != nil {
		return nil, fmt.Errorf("create item indexes: %w", err)
	}
	if _, err := cart.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}); err != nil {
		return nil, fmt.Errorf("create cart indexes: %w", err)
	}

	return &ItemStore{items: items, cart: cart}, nil
}

func (s *ItemStore) CreateItem(ctx context.Context, item *model.Item) error {
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	res, err := s.items.InsertOne(ctx, item)
	if err != nil {
		return wrapWriteErr("insert item", err)
	}
	item.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *ItemStore) ListItems(ctx context.Context) ([]*model.Item, error) {
	cursor, err := s.items.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	return decodeAll[model.Item](ctx, cursor, "items")
}

func (s *ItemStore) GetItem(ctx context.Context, id bson.ObjectID) (*model.Item, error) {
	var item model.Item
	err := s.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return &item, nil
}

func (s *ItemStore) UpdateItem(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = time.Now()
	_, err := s.items.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	return wrapWriteErr("update item", err)
}

func (s *ItemStore) DeleteItem(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *ItemStore) AddCartItem(ctx context.Context, ci *model.CartItem) error {
	ci.CreatedAt = time.Now()
	ci.UpdatedAt = ci.CreatedAt
	res, err := s.cart.InsertOne(ctx, ci)
	if err != nil {
		return wrapWriteErr("insert cart item", err)
	}
	ci.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *ItemStore) ListCart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	cursor, err := s.cart.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cart items: %w", err)
	}
	return decodeAll[model.CartItem](ctx, cursor, "cart items")
}

func (s *ItemStore) GetCartItem(ctx context.Context, id bson.ObjectID) (*model.CartItem, error) {
	var ci model.CartItem
	err := s.cart.FindOne(ctx, bson.M{"_id": id}).Decode(&ci)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &ci, nil
}

func (s *ItemStore) UpdateCartItem(ctx context.Context, ci *model.CartItem) error {
	ci.UpdatedAt = time.Now()
	_, err := s.cart.ReplaceOne(ctx, bson.M{"_id": ci.ID}, ci)
	return wrapWriteErr("update cart item", err)
}

func (s *ItemStore) DeleteCartItem(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.cart.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ClearCart removes every cart line of the user and returns how many were removed.
func (s *ItemStore) ClearCart(ctx context.Context, userID string) (int64, error) {
	res, err := s.cart.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.DeletedCount, nil
}
