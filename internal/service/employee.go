package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitpharm-api/internal/model"
	"fitpharm-api/internal/store"
)

type EmployeeService struct {
	store EmployeeStore
}

func NewEmployeeService(store EmployeeStore) *EmployeeService {
	return &EmployeeService{store: store}
}

type CreateEmployeeInput struct {
	Name        string  `json:"name" validate:"required"`
	Role        string  `json:"role" validate:"required"`
	BasicSalary float64 `json:"basicSalary" validate:"gt=0"`
	Bonus       float64 `json:"bonus" validate:"gte=0"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,phone10"`
}

// UpdateEmployeeInput is a partial update; nil fields are left untouched.
type UpdateEmployeeInput struct {
	Name        *string  `json:"name" validate:"omitnil,min=1"`
	Role        *string  `json:"role" validate:"omitnil,min=1"`
	BasicSalary *float64 `json:"basicSalary" validate:"omitnil,gt=0"`
	Bonus       *float64 `json:"bonus" validate:"omitnil,gte=0"`
	Email       *string  `json:"email" validate:"omitnil,email"`
	PhoneNumber *string  `json:"phoneNumber" validate:"omitnil,phone10"`
}

func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput) (*model.Employee, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, err
	}

	e := &model.Employee{
		Name:        strings.TrimSpace(in.Name),
		Role:        strings.TrimSpace(in.Role),
		BasicSalary: in.BasicSalary,
		Bonus:       in.Bonus,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, conflict("employee.email_taken", map[string]any{"Email": e.Email})
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]*model.Employee, error) {
	return s.store.List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, employeeID int64) (*model.Employee, error) {
	e, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return nil, notFound("employee.not_found", map[string]any{"ID": employeeID})
	}
	return e, nil
}

func (s *EmployeeService) Update(ctx context.Context, employeeID int64, in UpdateEmployeeInput) (*model.Employee, error) {
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	e, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		e.Role = strings.TrimSpace(*in.Role)
	}
	if in.BasicSalary != nil {
		e.BasicSalary = *in.BasicSalary
	}
	if in.Bonus != nil {
		e.Bonus = *in.Bonus
	}
	if in.Email != nil {
		e.Email = *in.Email
	}
	if in.PhoneNumber != nil {
		e.PhoneNumber = *in.PhoneNumber
	}

	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, conflict("employee.email_taken", map[string]any{"Email": e.Email})
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return e, nil
}

// Delete removes the employee only. Attendance and payroll records that
// reference the employee are kept.
func (s *EmployeeService) Delete(ctx context.Context, employeeID int64) error {
	ok, err := s.store.Delete(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if !ok {
		return notFound("employee.not_found", map[string]any{"ID": employeeID})
	}
	return nil
}
