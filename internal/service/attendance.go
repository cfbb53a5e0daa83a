package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitpharm-api/internal/model"
	"fitpharm-api/internal/store"
)

type AttendanceService struct {
	store     AttendanceStore
	employees EmployeeStore
}

func NewAttendanceService(store AttendanceStore, employees EmployeeStore) *AttendanceService {
	return &AttendanceService{store: store, employees: employees}
}

type CreateAttendanceInput struct {
	EmployeeID int64  `json:"employeeId" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=Present Absent Leave"`
	ClockIn    string `json:"clockIn" validate:"required_if=Status Present,omitempty,datetime=15:04"`
	ClockOut   string `json:"clockOut" validate:"omitempty,datetime=15:04"`
}

type UpdateAttendanceInput struct {
	Date     *string `json:"date" validate:"omitnil,min=1"`
	Status   *string `json:"status" validate:"omitnil,oneof=Present Absent Leave"`
	ClockIn  *string `json:"clockIn" validate:"omitnil,omitempty,datetime=15:04"`
	ClockOut *string `json:"clockOut" validate:"omitnil,omitempty,datetime=15:04"`
}

func (s *AttendanceService) Create(ctx context.Context, in CreateAttendanceInput) (*model.Attendance, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	date, ok := parseDate(in.Date)
	if !ok {
		return nil, invalid("attendance.invalid_date")
	}

	emp, err := s.employees.Get(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if emp == nil {
		return nil, notFound("employee.not_found", map[string]any{"ID": in.EmployeeID})
	}

	day := model.StartOfDay(date)
	existing, err := s.store.FindForDay(ctx, in.EmployeeID, day)
	if err != nil {
		return nil, fmt.Errorf("check attendance: %w", err)
	}
	if existing != nil {
		return nil, duplicateAttendance(in.EmployeeID, day)
	}

	a := &model.Attendance{
		EmployeeID: in.EmployeeID,
		Date:       date.UTC(),
		Status:     model.AttendanceStatus(in.Status),
		ClockIn:    in.ClockIn,
		ClockOut:   in.ClockOut,
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, duplicateAttendance(in.EmployeeID, day)
		}
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	return a, nil
}

func (s *AttendanceService) Update(ctx context.Context, attendanceID int64, in UpdateAttendanceInput) (*model.Attendance, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	a, err := s.store.Get(ctx, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	if a == nil {
		return nil, notFound("attendance.not_found", map[string]any{"ID": attendanceID})
	}

	if in.Date != nil {
		date, ok := parseDate(*in.Date)
		if !ok {
			return nil, invalid("attendance.invalid_date")
		}
		day := model.StartOfDay(date)
		if !day.Equal(model.StartOfDay(a.Date)) {
			other, err := s.store.FindForDay(ctx, a.EmployeeID, day)
			if err != nil {
				return nil, fmt.Errorf("check attendance: %w", err)
			}
			if other != nil && other.AttendanceID != a.AttendanceID {
				return nil, duplicateAttendance(a.EmployeeID, day)
			}
		}
		a.Date = date.UTC()
	}
	if in.Status != nil {
		a.Status = model.AttendanceStatus(*in.Status)
	}
	if in.ClockIn != nil {
		a.ClockIn = *in.ClockIn
	}
	if in.ClockOut != nil {
		a.ClockOut = *in.ClockOut
	}
	if a.Status == model.AttendanceStatusPresent && a.ClockIn == "" {
		return nil, fieldError("clockIn", "required_if")
	}

	if err := s.store.Update(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, duplicateAttendance(a.EmployeeID, model.StartOfDay(a.Date))
		}
		return nil, fmt.Errorf("update attendance: %w", err)
	}
	return a, nil
}

func (s *AttendanceService) Delete(ctx context.Context, attendanceID int64) error {
	ok, err := s.store.Delete(ctx, attendanceID)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if !ok {
		return notFound("attendance.not_found", map[string]any{"ID": attendanceID})
	}
	return nil
}

func (s *AttendanceService) List(ctx context.Context) ([]*model.Attendance, error) {
	return s.store.List(ctx)
}

func (s *AttendanceService) ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Attendance, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

// ListByDate returns all records on the calendar day of date.
func (s *AttendanceService) ListByDate(ctx context.Context, date string) ([]*model.Attendance, error) {
	t, ok := parseDate(date)
	if !ok {
		return nil, invalid("attendance.invalid_date")
	}
	return s.store.ListByDay(ctx, model.StartOfDay(t))
}

func duplicateAttendance(employeeID int64, day time.Time) *Error {
	return newError(KindValidation, "attendance.duplicate", map[string]any{
		"EmployeeID": employeeID,
		"Date":       day.Format(time.DateOnly),
	})
}
