// Package excel формирует Excel-файлы отчётов для панели администратора.
package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// MemberRow одна строка отчёта по участникам.
type MemberRow struct {
	Username  string
	Email     string
	PlanName  string
	State     string
	EndDate   *time.Time
	TotalPaid float64
}

// MemberReport формирует xlsx-файл со сводкой по участникам и возвращает его содержимое.
func MemberReport(rows []MemberRow) ([]byte, error) {
	const op = "excel.MemberReport"

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []any{"Username", "Email", "Plan", "Status", "End date", "Total paid"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, r := range rows {
		endDate := ""
		if r.EndDate != nil {
			endDate = r.EndDate.Format("2006-01-02")
		}
		values := []any{r.Username, r.Email, r.PlanName, r.State, endDate, r.TotalPaid}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
