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

type AttendanceStore struct {
	coll     *mongo.Collection
	counters *Counters
}

func NewAttendanceStore(ctx context.Context, db *MongoDB, counters *Counters) (*AttendanceStore, error) {
	coll := db.Collection("attendance")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "attendance_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create attendance indexes: %w", err)
	}

	return &AttendanceStore{coll: coll, counters: counters}, nil
}

func (s *AttendanceStore) Create(ctx context.Context, a *model.Attendance) error {
	id, err := s.counters.Next(ctx, "attendance_id")
	if err != nil {
		return err
	}
	a.AttendanceID = id
	a.Day = a.Date.UTC().Format(time.DateOnly)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return wrapWriteErr("insert attendance", err)
	}
	a.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// FindForDay returns the employee's record within [day, day+1), or nil.
func (s *AttendanceStore) FindForDay(ctx context.Context, employeeID int64, day time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := s.coll.FindOne(ctx, bson.M{
		"employee_id": employeeID,
		"date":        bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)},
	}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &a, nil
}

func (s *AttendanceStore) Get(ctx context.Context, attendanceID int64) (*model.Attendance, error) {
	var a model.Attendance
	err := s.coll.FindOne(ctx, bson.M{"attendance_id": attendanceID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &a, nil
}

func (s *AttendanceStore) List(ctx context.Context) ([]*model.Attendance, error) {
	return s.find(ctx, bson.M{})
}

func (s *AttendanceStore) ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Attendance, error) {
	return s.find(ctx, bson.M{"employee_id": employeeID})
}

// ListByDay returns every record dated within [day, day+1).
func (s *AttendanceStore) ListByDay(ctx context.Context, day time.Time) ([]*model.Attendance, error) {
	return s.find(ctx, bson.M{"date": bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}})
}

func (s *AttendanceStore) Update(ctx context.Context, a *model.Attendance) error {
	a.Day = a.Date.UTC().Format(time.DateOnly)
	a.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	return wrapWriteErr("update attendance", err)
}

func (s *AttendanceStore) Delete(ctx context.Context, attendanceID int64) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"attendance_id": attendanceID})
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *AttendanceStore) find(ctx context.Context, filter bson.M) ([]*model.Attendance, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "employee_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return decodeAll[model.Attendance](ctx, cursor, "attendance")
}
