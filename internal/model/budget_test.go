package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewBudgetStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		budget        string
		spent         string
		wantRemaining string
		wantOver      bool
	}{
		{name: "under budget", budget: "100.00", spent: "40.25", wantRemaining: "59.75"},
		{name: "exactly on budget", budget: "50", spent: "50.00", wantRemaining: "0.00"},
		{name: "over budget", budget: "20", spent: "25.10", wantRemaining: "-5.10", wantOver: true},
		{name: "nothing spent", budget: "10", spent: "0", wantRemaining: "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Budget{Category: "Food", Amount: decimal.RequireFromString(tt.budget)}
			status := NewBudgetStatus(b, decimal.RequireFromString(tt.spent))

			if got := status.Remaining.StringFixed(2); got != tt.wantRemaining {
				t.Errorf("Remaining = %s, want %s", got, tt.wantRemaining)
			}
			if status.Over != tt.wantOver {
				t.Errorf("Over = %v, want %v", status.Over, tt.wantOver)
			}
			if status.Category != "Food" {
				t.Errorf("Category = %q, want Food", status.Category)
			}
		})
	}
}
