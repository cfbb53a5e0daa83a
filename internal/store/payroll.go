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

type PayrollStore struct {
	coll     *mongo.Collection
	counters *Counters
}

func NewPayrollStore(ctx context.Context, db *MongoDB, counters *Counters) (*PayrollStore, error) {
	coll := db.Collection("payrolls")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "payroll_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "pay_period", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "pay_period", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create payroll indexes: %w", err)
	}

	return &PayrollStore{coll: coll, counters: counters}, nil
}

func (s *PayrollStore) Create(ctx context.Context, p *model.Payroll) error {
	id, err := s.counters.Next(ctx, "payroll_id")
	if err != nil {
		return err
	}
	p.PayrollID = id
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return wrapWriteErr("insert payroll", err)
	}
	p.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// FindForPeriod returns the employee's record for the pay period, or nil.
func (s *PayrollStore) FindForPeriod(ctx context.Context, employeeID int64, payPeriod string) (*model.Payroll, error) {
	return s.findOne(ctx, bson.M{"employee_id": employeeID, "pay_period": payPeriod})
}

func (s *PayrollStore) Get(ctx context.Context, payrollID int64) (*model.Payroll, error) {
	return s.findOne(ctx, bson.M{"payroll_id": payrollID})
}

func (s *PayrollStore) List(ctx context.Context) ([]*model.Payroll, error) {
	return s.find(ctx, bson.M{})
}

func (s *PayrollStore) ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Payroll, error) {
	return s.find(ctx, bson.M{"employee_id": employeeID})
}

func (s *PayrollStore) ListByPeriod(ctx context.Context, payPeriod string) ([]*model.Payroll, error) {
	return s.find(ctx, bson.M{"pay_period": payPeriod})
}

func (s *PayrollStore) Update(ctx context.Context, p *model.Payroll) error {
	p.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return wrapWriteErr("update payroll", err)
}

func (s *PayrollStore) Delete(ctx context.Context, payrollID int64) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"payroll_id": payrollID})
	if err != nil {
		return false, fmt.Errorf("delete payroll: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *PayrollStore) findOne(ctx context.Context, filter bson.M) (*model.Payroll, error) {
	var p model.Payroll
	err := s.coll.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payroll: %w", err)
	}
	return &p, nil
}

func (s *PayrollStore) find(ctx context.Context, filter bson.M) ([]*model.Payroll, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "pay_period", Value: -1}, {Key: "employee_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find payrolls: %w", err)
	}
	return decodeAll[model.Payroll](ctx, cursor, "payrolls")
}
