package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/model"
)

// SumByCategory totals all of userID's expenses per category.
func (r *Repository) SumByCategory(ctx context.Context, userID int64) ([]model.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount)::text
		FROM expenses
		WHERE user_id = $1
		GROUP BY category
		ORDER BY category
	`
	return r.sumByCategory(ctx, query, userID)
}

// SumByCategoryBetween totals userID's expenses dated in [from, to) per category.
func (r *Repository) SumByCategoryBetween(ctx context.Context, userID int64, from, to time.Time) ([]model.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount)::text
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY category
		ORDER BY category
	`
	return r.sumByCategory(ctx, query, userID, from, to)
}

func (r *Repository) sumByCategory(ctx context.Context, query string, args ...any) ([]model.CategoryTotal, error) {
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	defer rows.Close()

	totals := make([]model.CategoryTotal, 0)
	for rows.Next() {
		var (
			category string
			sum      string
		)
		if err := rows.Scan(&category, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		d, err := decimal.NewFromString(sum)
		if err != nil {
			return nil, fmt.Errorf("failed to parse category total %q: %w", sum, err)
		}
		totals = append(totals, model.CategoryTotal{Category: category, Total: d})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return totals, nil
}
