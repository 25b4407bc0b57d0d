package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/metrics"
	"github.com/spendlog/spendlog/internal/model"
)

// ReportStore provides the aggregate queries used by reports.
type ReportStore interface {
	ListExpensesByUser(ctx context.Context, userID int64) ([]*model.Expense, error)
	ListExpensesBetween(ctx context.Context, userID int64, from, to time.Time) ([]*model.Expense, error)
	SumByCategory(ctx context.Context, userID int64) ([]model.CategoryTotal, error)
	SumByCategoryBetween(ctx context.Context, userID int64, from, to time.Time) ([]model.CategoryTotal, error)
	ListBudgetsByUser(ctx context.Context, userID int64) ([]*model.Budget, error)
}

// ReportService builds the dashboard, monthly reports and CSV exports.
type ReportService struct {
	store   ReportStore
	metrics metrics.Recorder
	now     Clock
}

// NewReportService creates a new ReportService.
func NewReportService(store ReportStore, recorder metrics.Recorder) *ReportService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ReportService{store: store, metrics: recorder, now: time.Now}
}

// CurrentMonth returns the calendar month of the service clock.
func (s *ReportService) CurrentMonth() model.Month {
	return model.MonthOf(s.now())
}

// Dashboard returns the all-time summary for userID.
func (s *ReportService) Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error) {
	expenses, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.SumByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		spent[t.Category] = t.Total
	}

	statuses := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, model.NewBudgetStatus(*b, spent[b.Category]))
	}

	return &model.Dashboard{
		Expenses: expenses,
		Totals:   totals,
		Spent:    spent,
		Budgets:  budgets,
		Statuses: statuses,
		Chart:    model.NewChartSeries(totals),
	}, nil
}

// MonthlyReport totals userID's expenses per category within month.
func (s *ReportService) MonthlyReport(ctx context.Context, userID int64, month model.Month) (*model.MonthlyReport, error) {
	totals, err := s.store.SumByCategoryBetween(ctx, userID, month.Start(), month.End())
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range totals {
		total = total.Add(t.Total)
	}

	return &model.MonthlyReport{
		Month:  month,
		Totals: totals,
		Total:  total,
		Chart:  model.NewChartSeries(totals),
	}, nil
}

// CSVHeader is the first row of every export.
var CSVHeader = []string{"Date", "Category", "Amount", "Note"}

// ExportCSV writes userID's expenses for month to w, oldest first.
func (s *ReportService) ExportCSV(ctx context.Context, userID int64, month model.Month, w io.Writer) error {
	expenses, err := s.store.ListExpensesBetween(ctx, userID, month.Start(), month.End())
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{e.DateString(), e.Category, e.AmountString(), e.Note}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	s.metrics.IncReportExported()

	return nil
}
