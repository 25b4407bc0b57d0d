package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidMonth indicates a month string not in YYYY-MM form.
var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

var monthRegex = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a strict YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	m := monthRegex.FindStringSubmatch(s)
	if m == nil {
		return Month{}, ErrInvalidMonth
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first day of the month (UTC).
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first day of the following month (UTC), exclusive.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// CategoryTotal is the sum of expense amounts in one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ChartSeries holds parallel label/value sequences for charting.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// NewChartSeries builds chart data in the order of totals.
func NewChartSeries(totals []CategoryTotal) ChartSeries {
	series := ChartSeries{
		Labels: make([]string, 0, len(totals)),
		Values: make([]float64, 0, len(totals)),
	}
	for _, t := range totals {
		series.Labels = append(series.Labels, t.Category)
		series.Values = append(series.Values, t.Total.InexactFloat64())
	}
	return series
}

// Dashboard is the all-time summary shown after login.
type Dashboard struct {
	Expenses []*Expense
	Totals   []CategoryTotal
	Spent    map[string]decimal.Decimal
	Budgets  []*Budget
	Statuses []BudgetStatus
	Chart    ChartSeries
}

// MonthlyReport aggregates one month of expenses by category.
type MonthlyReport struct {
	Month  Month
	Totals []CategoryTotal
	Total  decimal.Decimal
	Chart  ChartSeries
}
