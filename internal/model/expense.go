package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for expense dates.
const DateLayout = "2006-01-02"

// Expense is a single spending record owned by one user.
type Expense struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// DateString formats the expense date as YYYY-MM-DD.
func (e *Expense) DateString() string {
	return e.Date.Format(DateLayout)
}

// AmountString formats the amount with two decimals.
func (e *Expense) AmountString() string {
	return e.Amount.StringFixed(2)
}
