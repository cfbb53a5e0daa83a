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

type EmployeeStore struct {
	coll     *mongo.Collection
	counters *Counters
}

func NewEmployeeStore(ctx context.Context, db *MongoDB, counters *Counters) (*EmployeeStore, error) {
	coll := db.Collection("employees")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		return nil, fmt.Errorf("create employee indexes: %w", err)
	}

	return &EmployeeStore{coll: coll, counters: counters}, nil
}

// Create assigns the next employee ID and inserts the record.
func (s *EmployeeStore) Create(ctx context.Context, e *model.Employee) error {
	id, err := s.counters.Next(ctx, "employee_id")
	if err != nil {
		return err
	}
	e.EmployeeID = id
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	res, err := s.coll.InsertOne(ctx, e)
	if err != nil {
		return wrapWriteErr("insert employee", err)
	}
	e.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *EmployeeStore) List(ctx context.Context) ([]*model.Employee, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "employee_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	return decodeAll[model.Employee](ctx, cursor, "employees")
}

// Get returns the employee with the given ID, or nil if not found.
func (s *EmployeeStore) Get(ctx context.Context, employeeID int64) (*model.Employee, error) {
	var e model.Employee
	err := s.coll.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &e, nil
}

// GetMany returns the employees that still exist among ids, keyed by employee ID.
func (s *EmployeeStore) GetMany(ctx context.Context, ids []int64) (map[int64]*model.Employee, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"employee_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	list, err := decodeAll[model.Employee](ctx, cursor, "employees")
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*model.Employee, len(list))
	for _, e := range list {
		out[e.EmployeeID] = e
	}
	return out, nil
}

func (s *EmployeeStore) Update(ctx context.Context, e *model.Employee) error {
	e.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	return wrapWriteErr("update employee", err)
}

// Delete removes the employee and reports whether it existed.
func (s *EmployeeStore) Delete(ctx context.Context, employeeID int64) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"employee_id": employeeID})
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	return res.DeletedCount > 0, nil
}
