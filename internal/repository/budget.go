package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/model"
)

// UpsertBudget creates or replaces the budget for (user, category) in one statement.
func (r *Repository) UpsertBudget(ctx context.Context, b *model.Budget) error {
	query := `
		INSERT INTO budgets (user_id, category, amount, updated_at)
		VALUES ($1, $2, $3::numeric, NOW())
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
		RETURNING id, updated_at
	`

	err := r.q(ctx).QueryRow(ctx, query,
		b.UserID,
		b.Category,
		b.Amount.String(),
	).Scan(&b.ID, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	return nil
}

// ListBudgetsByUser returns all budgets for userID ordered by category.
func (r *Repository) ListBudgetsByUser(ctx context.Context, userID int64) ([]*model.Budget, error) {
	query := `
		SELECT id, user_id, category, amount::text, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY category
	`

	rows, err := r.q(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]*model.Budget, 0)
	for rows.Next() {
		var (
			b      model.Budget
			amount string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &amount, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse budget amount %q: %w", amount, err)
		}
		b.Amount = d
		budgets = append(budgets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}
