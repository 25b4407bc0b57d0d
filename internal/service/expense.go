package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spendlog/spendlog/internal/metrics"
	"github.com/spendlog/spendlog/internal/model"
)

// ExpenseStore persists expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *model.Expense) error
	ListExpensesByUser(ctx context.Context, userID int64) ([]*model.Expense, error)
}

// ExpenseService records and lists expenses.
type ExpenseService struct {
	store   ExpenseStore
	metrics metrics.Recorder
	now     Clock
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store ExpenseStore, recorder metrics.Recorder) *ExpenseService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ExpenseService{store: store, metrics: recorder, now: time.Now}
}

// AddExpenseInput is the raw form input for a new expense.
type AddExpenseInput struct {
	Amount   string
	Category string
	Note     string
	Date     string
}

// AddExpense validates input and stores one expense for userID.
func (s *ExpenseService) AddExpense(ctx context.Context, userID int64, input AddExpenseInput) (*model.Expense, error) {
	amount, err := ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	category, err := validateCategory(input.Category)
	if err != nil {
		return nil, err
	}
	note := strings.TrimSpace(input.Note)
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return nil, invalid("note must be at most %d characters", MaxNoteLength)
	}
	date, err := ParseDate(input.Date, s.now())
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Note:     note,
		Date:     date,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}

	s.metrics.IncExpenseCreated()

	return expense, nil
}

// ListExpenses returns all of userID's expenses.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID int64) ([]*model.Expense, error) {
	return s.store.ListExpensesByUser(ctx, userID)
}
