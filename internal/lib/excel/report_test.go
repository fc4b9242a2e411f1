package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMemberReport(t *testing.T) {
	end := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	rows := []MemberRow{
		{Username: "ivan", Email: "ivan@example.com", PlanName: "Standard", State: "active", EndDate: &end, TotalPaid: 1500},
		{Username: "petr", Email: "petr@example.com", PlanName: "", State: "no_membership", TotalPaid: 0},
	}

	data, err := MemberReport(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	got, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "ivan", got)

	got, err = f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "2025-08-29", got)

	got, err = f.GetCellValue(sheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "no_membership", got)
}
