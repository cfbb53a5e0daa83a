package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"fitpharm-api/internal/model"
	"fitpharm-api/internal/service"
)

func TestPayrollReportXLSX(t *testing.T) {
	report := &service.PayrollReport{
		PayPeriod: "2024-05",
		Count:     2,
		Records: []*service.ReportRecord{
			{Payroll: &model.Payroll{PayrollID: 1, EmployeeID: 1, PayPeriod: "2024-05", BasicSalary: 50000, EPFDeduction: 4000, ETFDeduction: 1500, NetSalary: 46000}, EmployeeName: "Jane", Role: "Pharmacist"},
			{Payroll: &model.Payroll{PayrollID: 2, EmployeeID: 9, PayPeriod: "2024-05", BasicSalary: 1000, EPFDeduction: 80, ETFDeduction: 30, NetSalary: 920}, EmployeeName: "Unknown", Role: "Unknown"},
		},
		Totals: service.ReportTotals{BasicSalary: 51000, EPFDeduction: 4080, ETFDeduction: 1530, NetSalary: 46920},
	}

	var buf bytes.Buffer
	if err := PayrollReportXLSX(context.Background(), &buf, report); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 2 + totals", len(rows))
	}
	if rows[0][2] != "Employee" || rows[1][2] != "Jane" || rows[2][2] != "Unknown" {
		t.Errorf("unexpected rows: %v", rows[:3])
	}
	if rows[3][0] != "Total" {
		t.Errorf("totals row = %v", rows[3])
	}
	net, err := f.GetCellValue(sheet, "J4", excelize.Options{RawCellValue: true})
	if err != nil || net != "46920" {
		t.Errorf("net total = %q (%v)", net, err)
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("Payroll [2024/05]: a very long sheet title"); got != "Payroll 202405 a very long shee" {
		t.Errorf("sheetName = %q", got)
	}
}
