package financedata

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeConnelly/Finance-Tracker/internal/category"
)

// ErrUnknownCategory is returned when a value is added under a category
// pair the taxonomy does not contain. The classifier never produces such a
// pair, so hitting this means a taxonomy/classifier mismatch bug, not bad
// input data.
var ErrUnknownCategory = errors.New("unknown category")

const expensesMajor = "expenses"

// YearMonth identifies one calendar month present in the store.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Key returns the "YYYY/MM" form used by the rollup maps.
func (ym YearMonth) Key() string {
	return MonthKey(ym.Year, ym.Month)
}

// MonthKey formats a year and month as "YYYY/MM".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d/%02d", year, int(month))
}

// PercentChange is a month-over-month change for one minor category. Inf
// marks the change from a zero previous month to a non-zero current month,
// where percent change is unbounded rather than an error.
type PercentChange struct {
	Value decimal.Decimal
	Inf   bool
}

func (p PercentChange) String() string {
	if p.Inf {
		return "inf"
	}
	return p.Value.String()
}

// Store accumulates classified transaction amounts in a nested
// year → month → day → major → minor mapping and serves time-bucketed
// rollups over it.
//
// Whenever a (year, month) pair is first touched, every day slot of that
// month is created and seeded with a deep copy of the taxonomy's zero
// template, so untouched days report explicit zeros for every category.
// All methods are safe for concurrent use; adapters running in parallel
// serialize through the store's mutex.
type Store struct {
	mu       sync.Mutex
	taxonomy *category.Taxonomy
	data     map[int]map[time.Month]map[int]map[string]map[string]decimal.Decimal
}

// NewStore creates an empty store over the given taxonomy.
func NewStore(taxonomy *category.Taxonomy) *Store {
	return &Store{
		taxonomy: taxonomy,
		data:     make(map[int]map[time.Month]map[int]map[string]map[string]decimal.Decimal),
	}
}

// AddValue accumulates amount under the date's day bucket and category
// pair. The category pair is validated before any state changes, so a
// failed add leaves the store untouched.
func (s *Store) AddValue(date time.Time, major, minor string, amount decimal.Decimal) error {
	if !s.taxonomy.Contains(major, minor) {
		return fmt.Errorf("%w: %s/%s", ErrUnknownCategory, major, minor)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	year, month, day := date.Year(), date.Month(), date.Day()
	s.ensureMonth(year, month)
	cell := s.data[year][month][day][major]
	cell[minor] = cell[minor].Add(amount)
	return nil
}

// ensureMonth creates all day slots for (year, month) if the month is not
// yet present. Callers must hold the mutex.
func (s *Store) ensureMonth(year int, month time.Month) {
	if _, ok := s.data[year]; !ok {
		s.data[year] = make(map[time.Month]map[int]map[string]map[string]decimal.Decimal)
	}
	if _, ok := s.data[year][month]; ok {
		return
	}
	days := make(map[int]map[string]map[string]decimal.Decimal, daysIn(year, month))
	for day := 1; day <= daysIn(year, month); day++ {
		days[day] = s.taxonomy.ZeroTemplate()
	}
	s.data[year][month] = days
}

// daysIn returns the number of days in a month of the proleptic Gregorian
// calendar. Day 0 of the next month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Years returns the populated years in ascending order.
func (s *Store) Years() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	years := make([]int, 0, len(s.data))
	for year := range s.data {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// Months returns every populated (year, month) pair sorted ascending by
// year then month.
func (s *Store) Months() []YearMonth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthsLocked()
}

func (s *Store) monthsLocked() []YearMonth {
	var months []YearMonth
	for year, byMonth := range s.data {
		for month := range byMonth {
			months = append(months, YearMonth{Year: year, Month: month})
		}
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months
}

// MonthlyOverall sums every (major, minor) cell across the days of each
// populated month, rounded to 2 decimal places after summation. Keys are
// "YYYY/MM".
func (s *Store) MonthlyOverall() map[string]map[string]map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]map[string]map[string]decimal.Decimal)
	for _, ym := range s.monthsLocked() {
		monthTotals := s.taxonomy.ZeroTemplate()
		for _, byMajor := range s.data[ym.Year][ym.Month] {
			for major, byMinor := range byMajor {
				for minor, amount := range byMinor {
					monthTotals[major][minor] = monthTotals[major][minor].Add(amount)
				}
			}
		}
		roundCells(monthTotals)
		totals[ym.Key()] = monthTotals
	}
	return totals
}

// YearlyOverall sums every (major, minor) cell across all days of each
// populated year, rounded to 2 decimal places after summation.
func (s *Store) YearlyOverall() map[int]map[string]map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[int]map[string]map[string]decimal.Decimal, len(s.data))
	for year, byMonth := range s.data {
		yearTotals := s.taxonomy.ZeroTemplate()
		for _, byDay := range byMonth {
			for _, byMajor := range byDay {
				for major, byMinor := range byMajor {
					for minor, amount := range byMinor {
						yearTotals[major][minor] = yearTotals[major][minor].Add(amount)
					}
				}
			}
		}
		roundCells(yearTotals)
		totals[year] = yearTotals
	}
	return totals
}

// MonthlyExpenses sums the minor categories of the expenses major for
// every populated month of the given year, rounded to 2 decimal places.
func (s *Store) MonthlyExpenses(year int) map[string]map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]map[string]decimal.Decimal)
	for month := range s.data[year] {
		monthTotals := s.expenseTotalsLocked(year, month)
		for minor, amount := range monthTotals {
			monthTotals[minor] = amount.Round(2)
		}
		totals[MonthKey(year, month)] = monthTotals
	}
	return totals
}

// expenseTotalsLocked sums the expenses major across all days of a month
// without rounding. Absent months yield all zeros. Callers must hold the
// mutex.
func (s *Store) expenseTotalsLocked(year int, month time.Month) map[string]decimal.Decimal {
	totals := s.taxonomy.ZeroTemplate()[expensesMajor]
	byDay, ok := s.data[year][month]
	if !ok {
		return totals
	}
	for _, byMajor := range byDay {
		for minor, amount := range byMajor[expensesMajor] {
			totals[minor] = totals[minor].Add(amount)
		}
	}
	return totals
}

// PercentChangeOfMonthlyExpenses computes the month-over-month percent
// change of each expenses minor category for every populated month of the
// given year. January compares against December of the prior year; a
// missing lookback month counts as zero. A zero previous value with a
// non-zero current value yields the Inf sentinel.
func (s *Store) PercentChangeOfMonthlyExpenses(year int) map[string]map[string]PercentChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	hundred := decimal.NewFromInt(100)
	changes := make(map[string]map[string]PercentChange)
	for month := range s.data[year] {
		current := s.expenseTotalsLocked(year, month)
		prevYear, prevMonth := year, month-1
		if month == time.January {
			prevYear, prevMonth = year-1, time.December
		}
		previous := s.expenseTotalsLocked(prevYear, prevMonth)

		monthChanges := make(map[string]PercentChange, len(current))
		for minor, cur := range current {
			prev := previous[minor]
			switch {
			case prev.IsZero() && cur.IsZero():
				monthChanges[minor] = PercentChange{Value: decimal.Zero}
			case prev.IsZero():
				monthChanges[minor] = PercentChange{Inf: true}
			default:
				change := cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
				monthChanges[minor] = PercentChange{Value: change}
			}
		}
		changes[MonthKey(year, month)] = monthChanges
	}
	return changes
}

// DailyExpenses projects the expenses major out of every day bucket of the
// given month. The result is a structural copy; mutating it never affects
// the store. An absent month yields an empty map.
func (s *Store) DailyExpenses(year int, month time.Month) map[int]map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]map[string]decimal.Decimal)
	for day, byMajor := range s.data[year][month] {
		minors := make(map[string]decimal.Decimal, len(byMajor[expensesMajor]))
		for minor, amount := range byMajor[expensesMajor] {
			minors[minor] = amount
		}
		out[day] = minors
	}
	return out
}

// Majors delegates to the taxonomy.
func (s *Store) Majors() []string {
	return s.taxonomy.Majors()
}

// MinorCategories delegates to the taxonomy.
func (s *Store) MinorCategories(major string) ([]string, error) {
	return s.taxonomy.Minors(major)
}

// MajorCategory delegates to the taxonomy.
func (s *Store) MajorCategory(minor string) (string, bool) {
	return s.taxonomy.MajorOf(minor)
}

func roundCells(cells map[string]map[string]decimal.Decimal) {
	for _, byMinor := range cells {
		for minor, amount := range byMinor {
			byMinor[minor] = amount.Round(2)
		}
	}
}
