//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/repository"
	"github.com/spendlog/spendlog/internal/testutil"
)

// newTestEnv connects, takes the shared advisory lock and resets the schema.
func newTestEnv(t *testing.T) (context.Context, *repository.Repository) {
	t.Helper()
	ctx := context.Background()

	repo, err := repository.New(ctx, testutil.RequireEnv(t, "DATABASE_URL"), repository.DefaultPoolConfig())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func createUser(t *testing.T, ctx context.Context, repo *repository.Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestIntegrationUsers(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := createUser(t, ctx, repo)
	if user.ID == 0 || user.CreatedAt.IsZero() {
		t.Fatalf("generated fields not set: %+v", user)
	}

	dup := testutil.NewTestUser(t)
	dup.Email = user.Email
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail: %+v, %v", byEmail, err)
	}
	if _, err := repo.GetUserByID(ctx, user.ID+1000); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	exists, err := repo.EmailExists(ctx, user.Email)
	if err != nil || !exists {
		t.Fatalf("EmailExists = %v, %v", exists, err)
	}
}

func TestIntegrationBudgetUpsert(t *testing.T) {
	ctx, repo := newTestEnv(t)
	user := createUser(t, ctx, repo)

	first := &model.Budget{UserID: user.ID, Category: "Food", Amount: testutil.MustDecimal(t, "100")}
	if err := repo.UpsertBudget(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &model.Budget{UserID: user.ID, Category: "Food", Amount: testutil.MustDecimal(t, "42.10")}
	if err := repo.UpsertBudget(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert inserted a second row: %d vs %d", first.ID, second.ID)
	}

	budgets, err := repo.ListBudgetsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListBudgetsByUser: %v", err)
	}
	if len(budgets) != 1 || budgets[0].Amount.StringFixed(2) != "42.10" {
		t.Fatalf("unexpected budgets: %+v", budgets)
	}
}

func TestIntegrationMonthlyAggregation(t *testing.T) {
	ctx, repo := newTestEnv(t)
	user := createUser(t, ctx, repo)
	other := createUser(t, ctx, repo)

	rows := []*model.Expense{
		testutil.NewTestExpense(t, user.ID, "2024-02-28", "Food", "1.00"),
		testutil.NewTestExpense(t, user.ID, "2024-03-01", "Food", "10.00"),
		testutil.NewTestExpense(t, user.ID, "2024-03-31", "Food", "0.05"),
		testutil.NewTestExpense(t, user.ID, "2024-03-15", "Rent", "500"),
		testutil.NewTestExpense(t, user.ID, "2024-04-01", "Food", "99"),
		testutil.NewTestExpense(t, other.ID, "2024-03-10", "Food", "7"),
	}
	for _, e := range rows {
		if err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	month, _ := model.ParseMonth("2024-03")
	totals, err := repo.SumByCategoryBetween(ctx, user.ID, month.Start(), month.End())
	if err != nil {
		t.Fatalf("SumByCategoryBetween: %v", err)
	}
	if len(totals) != 2 ||
		totals[0].Category != "Food" || totals[0].Total.StringFixed(2) != "10.05" ||
		totals[1].Category != "Rent" || totals[1].Total.StringFixed(2) != "500.00" {
		t.Fatalf("unexpected monthly totals: %+v", totals)
	}

	all, err := repo.SumByCategory(ctx, user.ID)
	if err != nil {
		t.Fatalf("SumByCategory: %v", err)
	}
	if all[0].Total.StringFixed(2) != "110.05" {
		t.Fatalf("all-time Food = %s, want 110.05", all[0].Total.StringFixed(2))
	}

	expenses, err := repo.ListExpensesBetween(ctx, user.ID, month.Start(), month.End())
	if err != nil {
		t.Fatalf("ListExpensesBetween: %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("expected 3 March expenses, got %d", len(expenses))
	}
	for i := 1; i < len(expenses); i++ {
		if expenses[i].Date.Before(expenses[i-1].Date) {
			t.Fatalf("expenses not ordered by date: %s before %s", expenses[i-1].DateString(), expenses[i].DateString())
		}
	}
	if expenses[0].DateString() != "2024-03-01" {
		t.Errorf("first date = %s", expenses[0].DateString())
	}
}

func TestIntegrationRequestConnection(t *testing.T) {
	ctx, repo := newTestEnv(t)

	reqCtx, release, err := repo.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if repository.ConnFromContext(reqCtx) == nil {
		t.Fatal("connection not bound to context")
	}

	user := createUser(t, reqCtx, repo)
	if _, err := repo.GetUserByID(reqCtx, user.ID); err != nil {
		t.Fatalf("query on request connection: %v", err)
	}

	before := repo.Pool().Stat().AcquiredConns()
	release()
	if after := repo.Pool().Stat().AcquiredConns(); after != before-1 {
		t.Fatalf("acquired conns %d -> %d, expected release", before, after)
	}

	timeout, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := repo.Ping(timeout); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestIntegrationMigrationsIdempotent(t *testing.T) {
	_, _ = newTestEnv(t)

	url := testutil.RequireEnv(t, "DATABASE_URL")
	if err := repository.RunMigrations(url); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := repository.RunMigrations(url); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
