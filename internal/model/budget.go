package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending ceiling for one (user, category) pair.
type Budget struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BudgetStatus compares a budget with what has been spent in its category.
type BudgetStatus struct {
	Category  string
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Over      bool
}

// NewBudgetStatus builds the spent-vs-budget view for one category.
func NewBudgetStatus(b Budget, spent decimal.Decimal) BudgetStatus {
	remaining := b.Amount.Sub(spent)
	return BudgetStatus{
		Category:  b.Category,
		Budget:    b.Amount,
		Spent:     spent,
		Remaining: remaining,
		Over:      remaining.IsNegative(),
	}
}
