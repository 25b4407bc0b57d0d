package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/repository"
)

// MemStore is an in-memory stand-in for the Postgres repository.
// It enforces the same uniqueness rules as the schema.
type MemStore struct {
	mu       sync.Mutex
	now      func() time.Time
	users    []*model.User
	expenses []*model.Expense
	budgets  []*model.Budget
	nextID   int64
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{now: time.Now}
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

// CreateUser stores user, rejecting duplicate emails.
func (m *MemStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.ID = m.id()
	user.CreatedAt = m.now().UTC()
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

// GetUserByID returns the user with id.
func (m *MemStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUserByEmail returns the user with email.
func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// EmailExists reports whether email is registered.
func (m *MemStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// UserCount returns the number of stored users.
func (m *MemStore) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// DeleteUser removes a user; used to test sessions outliving their user.
func (m *MemStore) DeleteUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.users[:0]
	for _, u := range m.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	m.users = kept
}

// CreateExpense stores e.
func (m *MemStore) CreateExpense(_ context.Context, e *model.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.id()
	e.CreatedAt = m.now().UTC()
	stored := *e
	m.expenses = append(m.expenses, &stored)
	return nil
}

// ListExpensesByUser returns userID's expenses ordered by date, id.
func (m *MemStore) ListExpensesByUser(_ context.Context, userID int64) ([]*model.Expense, error) {
	return m.filterExpenses(func(e *model.Expense) bool { return e.UserID == userID }), nil
}

// ListExpensesBetween returns userID's expenses dated in [from, to).
func (m *MemStore) ListExpensesBetween(_ context.Context, userID int64, from, to time.Time) ([]*model.Expense, error) {
	return m.filterExpenses(func(e *model.Expense) bool {
		return e.UserID == userID && !e.Date.Before(from) && e.Date.Before(to)
	}), nil
}

func (m *MemStore) filterExpenses(keep func(*model.Expense) bool) []*model.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Expense, 0)
	for _, e := range m.expenses {
		if keep(e) {
			found := *e
			out = append(out, &found)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SumByCategory totals userID's expenses per category.
func (m *MemStore) SumByCategory(ctx context.Context, userID int64) ([]model.CategoryTotal, error) {
	expenses, _ := m.ListExpensesByUser(ctx, userID)
	return sumByCategory(expenses), nil
}

// SumByCategoryBetween totals userID's expenses dated in [from, to).
func (m *MemStore) SumByCategoryBetween(ctx context.Context, userID int64, from, to time.Time) ([]model.CategoryTotal, error) {
	expenses, _ := m.ListExpensesBetween(ctx, userID, from, to)
	return sumByCategory(expenses), nil
}

func sumByCategory(expenses []*model.Expense) []model.CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	totals := make([]model.CategoryTotal, 0, len(sums))
	for category, total := range sums {
		totals = append(totals, model.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })
	return totals
}

// UpsertBudget creates or replaces the (user, category) budget.
func (m *MemStore) UpsertBudget(_ context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	for _, existing := range m.budgets {
		if existing.UserID == b.UserID && existing.Category == b.Category {
			existing.Amount = b.Amount
			existing.UpdatedAt = now
			b.ID = existing.ID
			b.UpdatedAt = now
			return nil
		}
	}
	b.ID = m.id()
	b.UpdatedAt = now
	stored := *b
	m.budgets = append(m.budgets, &stored)
	return nil
}

// ListBudgetsByUser returns userID's budgets ordered by category.
func (m *MemStore) ListBudgetsByUser(_ context.Context, userID int64) ([]*model.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Budget, 0)
	for _, b := range m.budgets {
		if b.UserID == userID {
			found := *b
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// MemSessions is an in-memory session store with expiry.
type MemSessions struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memSession
}

type memSession struct {
	session   model.Session
	expiresAt time.Time
}

// NewMemSessions creates an empty MemSessions.
func NewMemSessions() *MemSessions {
	return &MemSessions{now: time.Now, entries: make(map[string]memSession)}
}

// CreateSession stores session under digest for ttl.
func (s *MemSessions) CreateSession(_ context.Context, digest string, session *model.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[digest] = memSession{session: *session, expiresAt: s.now().Add(ttl)}
	return nil
}

// GetSession returns the live session for digest, or nil.
func (s *MemSessions) GetSession(_ context.Context, digest string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[digest]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, digest)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

// DeleteSession removes the session for digest.
func (s *MemSessions) DeleteSession(_ context.Context, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, digest)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SetNow overrides the clock used for expiry.
func (s *MemSessions) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
