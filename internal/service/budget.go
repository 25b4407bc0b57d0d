package service

import (
	"context"
	"fmt"

	"github.com/spendlog/spendlog/internal/metrics"
	"github.com/spendlog/spendlog/internal/model"
)

// BudgetStore persists per-category budgets.
type BudgetStore interface {
	UpsertBudget(ctx context.Context, b *model.Budget) error
	ListBudgetsByUser(ctx context.Context, userID int64) ([]*model.Budget, error)
}

// BudgetService sets and lists budgets.
type BudgetService struct {
	store   BudgetStore
	metrics metrics.Recorder
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(store BudgetStore, recorder metrics.Recorder) *BudgetService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BudgetService{store: store, metrics: recorder}
}

// SetBudget creates or replaces userID's budget for category.
func (s *BudgetService) SetBudget(ctx context.Context, userID int64, category, amount string) (*model.Budget, error) {
	category, err := validateCategory(category)
	if err != nil {
		return nil, err
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	budget := &model.Budget{
		UserID:   userID,
		Category: category,
		Amount:   value,
	}
	if err := s.store.UpsertBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to set budget: %w", err)
	}

	s.metrics.IncBudgetSet()

	return budget, nil
}

// ListBudgets returns userID's budgets.
func (s *BudgetService) ListBudgets(ctx context.Context, userID int64) ([]*model.Budget, error) {
	return s.store.ListBudgetsByUser(ctx, userID)
}
