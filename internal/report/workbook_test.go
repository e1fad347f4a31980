package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/MikeConnelly/Finance-Tracker/internal/category"
	"github.com/MikeConnelly/Finance-Tracker/internal/config"
	"github.com/MikeConnelly/Finance-Tracker/internal/financedata"
	"github.com/MikeConnelly/Finance-Tracker/internal/logger"
)

func newPopulatedStore(t *testing.T) *financedata.Store {
	t.Helper()
	taxonomy, err := category.NewTaxonomy([]config.CategoryRule{
		{Major: "expenses", Minor: "groceries", Substrings: []string{"walmart"}},
		{Major: "expenses", Minor: "dining", Substrings: []string{"starbucks"}},
		{Major: "income", Minor: "salary", Substrings: []string{"acme corp"}},
		{Major: "unknown", Minor: "credit"},
		{Major: "unknown", Minor: "debit"},
		{Major: "expenses", Minor: "unknown"},
	})
	require.NoError(t, err)
	store := financedata.NewStore(taxonomy)

	add := func(y int, m time.Month, d int, major, minor, amount string) {
		require.NoError(t, store.AddValue(
			time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			major, minor, decimal.RequireFromString(amount)))
	}
	add(2023, time.December, 1, "expenses", "groceries", "100.00")
	add(2024, time.January, 5, "expenses", "groceries", "54.30")
	add(2024, time.January, 5, "expenses", "dining", "6.15")
	add(2024, time.January, 15, "income", "salary", "2000.00")
	return store
}

// rowsLabeled returns every row whose first cell equals label.
func rowsLabeled(sheet *xlsx.Sheet, label string) []*xlsx.Row {
	var rows []*xlsx.Row
	for _, row := range sheet.Rows {
		if len(row.Cells) > 0 && row.Cells[0].Value == label {
			rows = append(rows, row)
		}
	}
	return rows
}

func TestWriteWorkbook(t *testing.T) {
	store := newPopulatedStore(t)
	path := filepath.Join(t.TempDir(), "output.xlsx")

	err := NewWriter(store, logger.Nop()).WriteWorkbook(path)
	require.NoError(t, err)

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	for _, name := range []string{
		"OVERALL",
		"2023_EXPENSES", "2024_EXPENSES",
		"2023-12_DAILY", "2024-01_DAILY",
	} {
		assert.Contains(t, file.Sheet, name)
	}
}

func TestWriteWorkbook_DailySheet(t *testing.T) {
	store := newPopulatedStore(t)
	path := filepath.Join(t.TempDir(), "output.xlsx")
	require.NoError(t, NewWriter(store, logger.Nop()).WriteWorkbook(path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet := file.Sheet["2024-01_DAILY"]
	require.NotNil(t, sheet)

	header := sheet.Rows[0]
	require.Len(t, header.Cells, 4) // day + three expense minors
	assert.Equal(t, "day", header.Cells[0].Value)
	assert.Equal(t, "groceries", header.Cells[1].Value)
	assert.Equal(t, "dining", header.Cells[2].Value)
	assert.Equal(t, "unknown", header.Cells[3].Value)

	// header plus one row per day of January
	require.Len(t, sheet.Rows, 32)
	day5 := sheet.Rows[5]
	assert.Equal(t, "5", day5.Cells[0].Value)
	assert.Equal(t, "54.3", day5.Cells[1].Value)
	assert.Equal(t, "6.15", day5.Cells[2].Value)
	assert.Equal(t, "0", day5.Cells[3].Value)
}

func TestWriteWorkbook_ExpensesSheet(t *testing.T) {
	store := newPopulatedStore(t)
	path := filepath.Join(t.TempDir(), "output.xlsx")
	require.NoError(t, NewWriter(store, logger.Nop()).WriteWorkbook(path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet := file.Sheet["2024_EXPENSES"]
	require.NotNil(t, sheet)

	header := sheet.Rows[0]
	assert.Equal(t, "category", header.Cells[0].Value)
	assert.Equal(t, "2024/01", header.Cells[1].Value)

	// first groceries row holds the amount, second the percent change
	groceries := rowsLabeled(sheet, "groceries")
	require.Len(t, groceries, 2)
	assert.Equal(t, "54.3", groceries[0].Cells[1].Value)
	assert.Equal(t, "-45.7", groceries[1].Cells[1].Value)

	totals := rowsLabeled(sheet, "total")
	require.Len(t, totals, 1)
	assert.Equal(t, "60.45", totals[0].Cells[1].Value)

	// December 2023 has no lookback month, so its sheet reports inf
	dining := rowsLabeled(file.Sheet["2023_EXPENSES"], "groceries")
	require.Len(t, dining, 2)
	assert.Equal(t, "inf", dining[1].Cells[1].Value)
}
