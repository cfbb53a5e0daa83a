package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/shopspring/decimal"

	"fitpharm-api/internal/i18n"
	"fitpharm-api/internal/model"
	"fitpharm-api/internal/store"
)

var (
	epfRate = decimal.RequireFromString("0.08")
	etfRate = decimal.RequireFromString("0.03")
)

const unknownEmployee = "Unknown"

// Deductions holds the computed payroll figures for one employee and period.
type Deductions struct {
	EPF decimal.Decimal
	ETF decimal.Decimal
	Net decimal.Decimal
}

// ComputeDeductions applies EPF (8%) and ETF (3%) to basic and adds bonus to the net.
func ComputeDeductions(basic, bonus float64) Deductions {
	b := decimal.NewFromFloat(basic)
	epf := b.Mul(epfRate)
	return Deductions{
		EPF: epf,
		ETF: b.Mul(etfRate),
		Net: b.Sub(epf).Add(decimal.NewFromFloat(bonus)),
	}
}

// PayrollNotifier is told about finished batch runs.
type PayrollNotifier interface {
	PayrollProcessed(ctx context.Context, result *ProcessResult) error
}

type PayrollService struct {
	store     PayrollStore
	employees EmployeeStore
	notifier  PayrollNotifier
}

// NewPayrollService builds the payroll engine; notifier may be nil.
func NewPayrollService(store PayrollStore, employees EmployeeStore, notifier PayrollNotifier) *PayrollService {
	return &PayrollService{store: store, employees: employees, notifier: notifier}
}

type CreatePayrollInput struct {
	EmployeeID int64  `json:"employeeId" validate:"required,gt=0"`
	PayPeriod  string `json:"payPeriod" validate:"required,datetime=2006-01"`
}

type ProcessPayrollInput struct {
	PayPeriod string `json:"payPeriod" validate:"required,datetime=2006-01"`
}

type UpdatePayrollInput struct {
	PayPeriod   *string  `json:"payPeriod" validate:"omitnil,datetime=2006-01"`
	BasicSalary *float64 `json:"basicSalary" validate:"omitnil,gt=0"`
	Bonus       *float64 `json:"bonus" validate:"omitnil,gte=0"`
}

type ProcessResult struct {
	Message   string           `json:"message"`
	PayPeriod string           `json:"payPeriod"`
	Processed int              `json:"processed"`
	Skipped   int              `json:"skipped"`
	Results   []*model.Payroll `json:"results"`
	Errors    []string         `json:"errors"`
}

type ReportRecord struct {
	*model.Payroll
	EmployeeName string `json:"employeeName"`
	Role         string `json:"role"`
}

type ReportTotals struct {
	BasicSalary  float64 `json:"totalBasicSalary"`
	Bonus        float64 `json:"totalBonus"`
	EPFDeduction float64 `json:"totalEPF"`
	ETFDeduction float64 `json:"totalETF"`
	NetSalary    float64 `json:"totalNetSalary"`
}

type PayrollReport struct {
	PayPeriod string          `json:"payPeriod"`
	Count     int             `json:"count"`
	Totals    ReportTotals    `json:"totals"`
	Records   []*ReportRecord `json:"records"`
}

func (s *PayrollService) Create(ctx context.Context, in CreatePayrollInput) (*model.Payroll, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	emp, err := s.employees.Get(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if emp == nil {
		return nil, notFound("employee.not_found", map[string]any{"ID": in.EmployeeID})
	}

	existing, err := s.store.FindForPeriod(ctx, emp.EmployeeID, in.PayPeriod)
	if err != nil {
		return nil, fmt.Errorf("check payroll: %w", err)
	}
	if existing != nil {
		return nil, duplicatePayroll(emp.EmployeeID, in.PayPeriod)
	}

	p, err := s.createFor(ctx, emp, in.PayPeriod)
	if errors.Is(err, store.ErrDuplicateKey) {
		return nil, duplicatePayroll(emp.EmployeeID, in.PayPeriod)
	}
	if err != nil {
		return nil, fmt.Errorf("create payroll: %w", err)
	}
	return p, nil
}

// ProcessAll creates payroll records for every employee for the period.
// Employees that already have a record, or whose record cannot be written,
// are skipped with an error entry; the batch itself never fails on them.
func (s *PayrollService) ProcessAll(ctx context.Context, in ProcessPayrollInput) (*ProcessResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	result := &ProcessResult{
		PayPeriod: in.PayPeriod,
		Results:   []*model.Payroll{},
		Errors:    []string{},
	}
	for _, emp := range employees {
		data := map[string]any{"EmployeeID": emp.EmployeeID, "Name": emp.Name, "Period": in.PayPeriod}

		existing, err := s.store.FindForPeriod(ctx, emp.EmployeeID, in.PayPeriod)
		if err != nil {
			log.Printf("ERROR payroll batch: check employee %d: %v", emp.EmployeeID, err)
			result.Errors = append(result.Errors, i18n.T(ctx, "payroll.batch.failed", data))
			result.Skipped++
			continue
		}
		if existing != nil {
			result.Errors = append(result.Errors, i18n.T(ctx, "payroll.batch.exists", data))
			result.Skipped++
			continue
		}

		p, err := s.createFor(ctx, emp, in.PayPeriod)
		switch {
		case errors.Is(err, store.ErrDuplicateKey):
			result.Errors = append(result.Errors, i18n.T(ctx, "payroll.batch.exists", data))
			result.Skipped++
		case err != nil:
			log.Printf("ERROR payroll batch: create employee %d: %v", emp.EmployeeID, err)
			result.Errors = append(result.Errors, i18n.T(ctx, "payroll.batch.failed", data))
			result.Skipped++
		default:
			result.Results = append(result.Results, p)
			result.Processed++
		}
	}
	result.Message = i18n.T(ctx, "payroll.batch.done", map[string]any{
		"Processed": result.Processed,
		"Skipped":   result.Skipped,
		"Period":    in.PayPeriod,
	})

	if s.notifier != nil {
		if err := s.notifier.PayrollProcessed(ctx, result); err != nil {
			log.Printf("ERROR notify payroll batch %s: %v", in.PayPeriod, err)
		}
	}
	return result, nil
}

// Report joins the period's records with employee names and sums the money columns.
func (s *PayrollService) Report(ctx context.Context, payPeriod string) (*PayrollReport, error) {
	records, err := s.store.ListByPeriod(ctx, payPeriod)
	if err != nil {
		return nil, fmt.Errorf("list payrolls: %w", err)
	}
	if len(records) == 0 {
		return nil, notFound("payroll.period_empty", map[string]any{"Period": payPeriod})
	}

	ids := make([]int64, 0, len(records))
	for _, p := range records {
		if !slices.Contains(ids, p.EmployeeID) {
			ids = append(ids, p.EmployeeID)
		}
	}
	employees, err := s.employees.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	var basic, bonus, epf, etf, net decimal.Decimal
	report := &PayrollReport{PayPeriod: payPeriod, Count: len(records)}
	for _, p := range records {
		rec := &ReportRecord{Payroll: p, EmployeeName: unknownEmployee, Role: unknownEmployee}
		if emp, ok := employees[p.EmployeeID]; ok {
			rec.EmployeeName = emp.Name
			rec.Role = emp.Role
		}
		report.Records = append(report.Records, rec)

		basic = basic.Add(decimal.NewFromFloat(p.BasicSalary))
		bonus = bonus.Add(decimal.NewFromFloat(p.Bonus))
		epf = epf.Add(decimal.NewFromFloat(p.EPFDeduction))
		etf = etf.Add(decimal.NewFromFloat(p.ETFDeduction))
		net = net.Add(decimal.NewFromFloat(p.NetSalary))
	}
	report.Totals = ReportTotals{
		BasicSalary:  basic.InexactFloat64(),
		Bonus:        bonus.InexactFloat64(),
		EPFDeduction: epf.InexactFloat64(),
		ETFDeduction: etf.InexactFloat64(),
		NetSalary:    net.InexactFloat64(),
	}
	return report, nil
}

// Update patches a payroll record. A new basic salary recomputes EPF, ETF
// and net salary from the basic alone: the bonus is not added back on update.
func (s *PayrollService) Update(ctx context.Context, payrollID int64, in UpdatePayrollInput) (*model.Payroll, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if in.PayPeriod != nil {
		p.PayPeriod = *in.PayPeriod
	}
	if in.Bonus != nil {
		p.Bonus = *in.Bonus
	}
	if in.BasicSalary != nil {
		d := ComputeDeductions(*in.BasicSalary, 0)
		p.BasicSalary = *in.BasicSalary
		p.EPFDeduction = d.EPF.InexactFloat64()
		p.ETFDeduction = d.ETF.InexactFloat64()
		p.NetSalary = d.Net.InexactFloat64()
	}

	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, duplicatePayroll(p.EmployeeID, p.PayPeriod)
		}
		return nil, fmt.Errorf("update payroll: %w", err)
	}
	return p, nil
}

func (s *PayrollService) Get(ctx context.Context, payrollID int64) (*model.Payroll, error) {
	p, err := s.store.Get(ctx, payrollID)
	if err != nil {
		return nil, fmt.Errorf("get payroll: %w", err)
	}
	if p == nil {
		return nil, notFound("payroll.not_found", map[string]any{"ID": payrollID})
	}
	return p, nil
}

func (s *PayrollService) Delete(ctx context.Context, payrollID int64) error {
	ok, err := s.store.Delete(ctx, payrollID)
	if err != nil {
		return fmt.Errorf("delete payroll: %w", err)
	}
	if !ok {
		return notFound("payroll.not_found", map[string]any{"ID": payrollID})
	}
	return nil
}

func (s *PayrollService) List(ctx context.Context) ([]*model.Payroll, error) {
	return s.store.List(ctx)
}

func (s *PayrollService) ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Payroll, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

func (s *PayrollService) ListByPeriod(ctx context.Context, payPeriod string) ([]*model.Payroll, error) {
	return s.store.ListByPeriod(ctx, payPeriod)
}

func (s *PayrollService) createFor(ctx context.Context, emp *model.Employee, payPeriod string) (*model.Payroll, error) {
	d := ComputeDeductions(emp.BasicSalary, emp.Bonus)
	p := &model.Payroll{
		EmployeeID:   emp.EmployeeID,
		PayPeriod:    payPeriod,
		BasicSalary:  emp.BasicSalary,
		Bonus:        emp.Bonus,
		EPFDeduction: d.EPF.InexactFloat64(),
		ETFDeduction: d.ETF.InexactFloat64(),
		NetSalary:    d.Net.InexactFloat64(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func duplicatePayroll(employeeID int64, payPeriod string) *Error {
	return conflict("payroll.duplicate", map[string]any{"EmployeeID": employeeID, "Period": payPeriod})
}
