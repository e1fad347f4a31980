package report

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tealeg/xlsx"

	"github.com/MikeConnelly/Finance-Tracker/internal/financedata"
)

const expensesMajor = "expenses"

// Writer renders the store's rollups into an xlsx workbook: one overall
// sheet, one expenses sheet per year and one daily sheet per populated
// month. It only reads from the store.
type Writer struct {
	store *financedata.Store
	log   zerolog.Logger
}

// NewWriter creates a workbook writer over a populated store.
func NewWriter(store *financedata.Store, log zerolog.Logger) *Writer {
	return &Writer{store: store, log: log}
}

// WriteWorkbook builds the workbook and saves it to path.
func (w *Writer) WriteWorkbook(path string) error {
	file := xlsx.NewFile()

	if err := w.addOverallSheet(file); err != nil {
		return err
	}
	for _, year := range w.store.Years() {
		if err := w.addExpensesSheet(file, year); err != nil {
			return err
		}
	}
	for _, ym := range w.store.Months() {
		if err := w.addDailySheet(file, ym); err != nil {
			return err
		}
	}

	if err := file.Save(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.log.Info().Str("path", path).Msg("workbook written")
	return nil
}

// addOverallSheet writes, per year, a grid of (major, minor) rows against
// month columns with yearly totals in the last column.
func (w *Writer) addOverallSheet(file *xlsx.File) error {
	sheet, err := file.AddSheet("OVERALL")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	monthly := w.store.MonthlyOverall()
	yearly := w.store.YearlyOverall()
	allMonths := w.store.Months()

	for _, year := range w.store.Years() {
		var months []financedata.YearMonth
		for _, ym := range allMonths {
			if ym.Year == year {
				months = append(months, ym)
			}
		}

		header := sheet.AddRow()
		header.AddCell().SetInt(year)
		for _, ym := range months {
			header.AddCell().SetString(ym.Key())
		}
		header.AddCell().SetString("total")

		for _, major := range w.store.Majors() {
			majorRow := sheet.AddRow()
			majorRow.AddCell().SetString(major)

			minors, err := w.store.MinorCategories(major)
			if err != nil {
				return err
			}
			for _, minor := range minors {
				row := sheet.AddRow()
				row.AddCell().SetString(minor)
				for _, ym := range months {
					setAmount(row.AddCell(), monthly[ym.Key()][major][minor].InexactFloat64())
				}
				setAmount(row.AddCell(), yearly[year][major][minor].InexactFloat64())
			}
		}
		sheet.AddRow() // spacer between years
	}
	return nil
}

// addExpensesSheet writes one year's expenses: minor rows against month
// columns, a per-month total row and a month-over-month percent-change
// block below it.
func (w *Writer) addExpensesSheet(file *xlsx.File, year int) error {
	sheet, err := file.AddSheet(fmt.Sprintf("%d_EXPENSES", year))
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	expenses := w.store.MonthlyExpenses(year)
	changes := w.store.PercentChangeOfMonthlyExpenses(year)
	minors, err := w.store.MinorCategories(expensesMajor)
	if err != nil {
		return err
	}
	var months []financedata.YearMonth
	for _, ym := range w.store.Months() {
		if ym.Year == year {
			months = append(months, ym)
		}
	}

	header := sheet.AddRow()
	header.AddCell().SetString("category")
	for _, ym := range months {
		header.AddCell().SetString(ym.Key())
	}

	for _, minor := range minors {
		row := sheet.AddRow()
		row.AddCell().SetString(minor)
		for _, ym := range months {
			setAmount(row.AddCell(), expenses[ym.Key()][minor].InexactFloat64())
		}
	}

	totalRow := sheet.AddRow()
	totalRow.AddCell().SetString("total")
	for _, ym := range months {
		total := 0.0
		for _, minor := range minors {
			total += expenses[ym.Key()][minor].InexactFloat64()
		}
		setAmount(totalRow.AddCell(), total)
	}

	sheet.AddRow()
	changeHeader := sheet.AddRow()
	changeHeader.AddCell().SetString("% change")
	for _, ym := range months {
		changeHeader.AddCell().SetString(ym.Key())
	}
	for _, minor := range minors {
		row := sheet.AddRow()
		row.AddCell().SetString(minor)
		for _, ym := range months {
			change := changes[ym.Key()][minor]
			if change.Inf {
				row.AddCell().SetString("inf")
			} else {
				setAmount(row.AddCell(), change.Value.InexactFloat64())
			}
		}
	}
	return nil
}

// addDailySheet writes one month's expenses with day rows against minor
// category columns.
func (w *Writer) addDailySheet(file *xlsx.File, ym financedata.YearMonth) error {
	sheet, err := file.AddSheet(fmt.Sprintf("%04d-%02d_DAILY", ym.Year, int(ym.Month)))
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	daily := w.store.DailyExpenses(ym.Year, ym.Month)
	minors, err := w.store.MinorCategories(expensesMajor)
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	header.AddCell().SetString("day")
	for _, minor := range minors {
		header.AddCell().SetString(minor)
	}

	for day := 1; day <= len(daily); day++ {
		row := sheet.AddRow()
		row.AddCell().SetInt(day)
		for _, minor := range minors {
			setAmount(row.AddCell(), daily[day][minor].InexactFloat64())
		}
	}
	return nil
}

func setAmount(cell *xlsx.Cell, v float64) {
	cell.SetFloatWithFormat(v, "0.00")
}
