package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"fitpharm-api/internal/model"
)

// Lookups return nil, nil when the record does not exist.

type EmployeeStore interface {
	Create(ctx context.Context, e *model.Employee) error
	List(ctx context.Context) ([]*model.Employee, error)
	Get(ctx context.Context, employeeID int64) (*model.Employee, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]*model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, employeeID int64) (bool, error)
}

type AttendanceStore interface {
	Create(ctx context.Context, a *model.Attendance) error
	FindForDay(ctx context.Context, employeeID int64, day time.Time) (*model.Attendance, error)
	Get(ctx context.Context, attendanceID int64) (*model.Attendance, error)
	List(ctx context.Context) ([]*model.Attendance, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Attendance, error)
	ListByDay(ctx context.Context, day time.Time) ([]*model.Attendance, error)
	Update(ctx context.Context, a *model.Attendance) error
	Delete(ctx context.Context, attendanceID int64) (bool, error)
}

type PayrollStore interface {
	Create(ctx context.Context, p *model.Payroll) error
	FindForPeriod(ctx context.Context, employeeID int64, payPeriod string) (*model.Payroll, error)
	Get(ctx context.Context, payrollID int64) (*model.Payroll, error)
	List(ctx context.Context) ([]*model.Payroll, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Payroll, error)
	ListByPeriod(ctx context.Context, payPeriod string) ([]*model.Payroll, error)
	Update(ctx context.Context, p *model.Payroll) error
	Delete(ctx context.Context, payrollID int64) (bool, error)
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	ListItems(ctx context.Context) ([]*model.Item, error)
	GetItem(ctx context.Context, id bson.ObjectID) (*model.Item, error)
	UpdateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id bson.ObjectID) (bool, error)

	AddCartItem(ctx context.Context, ci *model.CartItem) error
	ListCart(ctx context.Context, userID string) ([]*model.CartItem, error)
	GetCartItem(ctx context.Context, id bson.ObjectID) (*model.CartItem, error)
	UpdateCartItem(ctx context.Context, ci *model.CartItem) error
	DeleteCartItem(ctx context.Context, id bson.ObjectID) (bool, error)
	ClearCart(ctx context.Context, userID string) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id bson.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f *model.Feedback) error
	Get(ctx context.Context, feedbackID int64) (*model.Feedback, error)
	List(ctx context.Context) ([]*model.Feedback, error)
	ListByCustomer(ctx context.Context, customerID bson.ObjectID) ([]*model.Feedback, error)
	Update(ctx context.Context, f *model.Feedback) error
	Delete(ctx context.Context, feedbackID int64) (bool, error)
}
