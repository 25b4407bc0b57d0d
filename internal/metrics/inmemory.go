package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered        uint64
	LoginsSucceeded        uint64
	LoginsFailed           uint64
	ExpensesCreated        uint64
	BudgetsSet             uint64
	ReportsExported        uint64
	RequestDurationCount   uint64
	RequestDurationTotalNs int64
}

// InMemoryRecorder stores counters in memory with atomic updates.
type InMemoryRecorder struct {
	usersRegistered        atomic.Uint64
	loginsSucceeded        atomic.Uint64
	loginsFailed           atomic.Uint64
	expensesCreated        atomic.Uint64
	budgetsSet             atomic.Uint64
	reportsExported        atomic.Uint64
	requestDurationCount   atomic.Uint64
	requestDurationTotalNs atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:        m.usersRegistered.Load(),
		LoginsSucceeded:        m.loginsSucceeded.Load(),
		LoginsFailed:           m.loginsFailed.Load(),
		ExpensesCreated:        m.expensesCreated.Load(),
		BudgetsSet:             m.budgetsSet.Load(),
		ReportsExported:        m.reportsExported.Load(),
		RequestDurationCount:   m.requestDurationCount.Load(),
		RequestDurationTotalNs: m.requestDurationTotalNs.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncLogin increments the login counter for status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == LoginSuccess {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncExpenseCreated increments the expense counter.
func (m *InMemoryRecorder) IncExpenseCreated() {
	m.expensesCreated.Add(1)
}

// IncBudgetSet increments the budget upsert counter.
func (m *InMemoryRecorder) IncBudgetSet() {
	m.budgetsSet.Add(1)
}

// IncReportExported increments the CSV export counter.
func (m *InMemoryRecorder) IncReportExported() {
	m.reportsExported.Add(1)
}

// ObserveRequestDuration records one HTTP request duration.
func (m *InMemoryRecorder) ObserveRequestDuration(duration time.Duration) {
	m.requestDurationCount.Add(1)
	m.requestDurationTotalNs.Add(duration.Nanoseconds())
}
