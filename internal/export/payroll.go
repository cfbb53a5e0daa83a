package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fitpharm-api/internal/i18n"
	"fitpharm-api/internal/service"
)

var payrollHeader = []any{
	"Payroll ID", "Employee ID", "Employee", "Role", "Pay Period",
	"Basic Salary", "Bonus", "EPF (8%)", "ETF (3%)", "Net Salary",
}

// PayrollReportXLSX writes the report as a single-sheet workbook with a totals row.
func PayrollReportXLSX(ctx context.Context, w io.Writer, report *service.PayrollReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(i18n.T(ctx, "payroll.export.sheet", map[string]any{"Period": report.PayPeriod}))
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &payrollHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	for _, r := range report.Records {
		values := []any{
			r.PayrollID, r.EmployeeID, r.EmployeeName, r.Role, r.PayPeriod,
			r.BasicSalary, r.Bonus, r.EPFDeduction, r.ETFDeduction, r.NetSalary,
		}
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	t := report.Totals
	totals := []any{"Total", "", "", "", "", t.BasicSalary, t.Bonus, t.EPFDeduction, t.ETFDeduction, t.NetSalary}
	if err := f.SetSheetRow(sheet, cell("A", row), &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	if err := f.SetRowStyle(sheet, row, row, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}
	if err := f.SetCellStyle(sheet, "F2", cell("J", row), money); err != nil {
		return fmt.Errorf("style money: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "D", 24); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// sheetName trims to Excel's 31 character limit and drops forbidden characters.
func sheetName(s string) string {
	r := []rune{}
	for _, c := range s {
		switch c {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		r = append(r, c)
	}
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
