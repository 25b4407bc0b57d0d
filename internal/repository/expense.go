package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/model"
)

// CreateExpense inserts an expense and fills in the generated ID and created_at.
func (r *Repository) CreateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		INSERT INTO expenses (user_id, amount, category, note, date)
		VALUES ($1, $2::numeric, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(ctx, query,
		e.UserID,
		e.Amount.String(),
		e.Category,
		e.Note,
		e.Date,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// ListExpensesByUser returns every expense owned by userID.
func (r *Repository) ListExpensesByUser(ctx context.Context, userID int64) ([]*model.Expense, error) {
	query := `
		SELECT id, user_id, amount::text, category, note, date, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY date, id
	`

	rows, err := r.q(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return collectExpenses(rows)
}

// ListExpensesBetween returns userID's expenses dated in [from, to), oldest first.
func (r *Repository) ListExpensesBetween(ctx context.Context, userID int64, from, to time.Time) ([]*model.Expense, error) {
	query := `
		SELECT id, user_id, amount::text, category, note, date, created_at
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, id ASC
	`

	rows, err := r.q(ctx).Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses in range: %w", err)
	}
	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]*model.Expense, error) {
	defer rows.Close()

	expenses := make([]*model.Expense, 0)
	for rows.Next() {
		var (
			e      model.Expense
			amount string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &amount, &e.Category, &e.Note, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense amount %q: %w", amount, err)
		}
		e.Amount = d
		expenses = append(expenses, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
