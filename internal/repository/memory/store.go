// Package memory holds in-memory implementations of the repository
// interfaces. They follow the same constraints as the postgres schema
// (unique emails, one paid salary per month, conditional status flips,
// cascades on employee delete) and back the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
)

type state struct {
	users         map[string]user.User
	employees     map[string]employee.Employee
	attendance    map[string]attendance.Record
	rollups       map[string]attendance.Rollup // employeeID|date
	salaries      map[string]salary.Record
	tasks         map[string]task.Task
	previousStaff map[string]archive.PreviousStaff
}

func newState() state {
	return state{
		users:         map[string]user.User{},
		employees:     map[string]employee.Employee{},
		attendance:    map[string]attendance.Record{},
		rollups:       map[string]attendance.Rollup{},
		salaries:      map[string]salary.Record{},
		tasks:         map[string]task.Task{},
		previousStaff: map[string]archive.PreviousStaff{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	return state{
		users:         cloneMap(s.users),
		employees:     cloneMap(s.employees),
		attendance:    cloneMap(s.attendance),
		rollups:       cloneMap(s.rollups),
		salaries:      cloneMap(s.salaries),
		tasks:         cloneMap(s.tasks),
		previousStaff: cloneMap(s.previousStaff),
	}
}

// Store is the shared backing state of every repository in this package.
type Store struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	data   state
	faults map[string]error
}

func NewStore() *Store {
	return &Store{data: newState(), faults: map[string]error{}}
}

// FailOn makes the operation op (optionally "op:key") return err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// fault must be called with s.mu held.
func (s *Store) fault(op, key string) error {
	if err, ok := s.faults[op+":"+key]; ok {
		return err
	}
	return s.faults[op]
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type txKey struct{}

// Transactor snapshots the store and restores it when fn fails. Transactions
// are serialized; nested calls join the outer one.
type Transactor struct {
	s *Store
}

func (s *Store) Transactor() *Transactor { return &Transactor{s: s} }

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.Lock()
	snapshot := t.s.data.clone()
	t.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.mu.Lock()
		t.s.data = snapshot
		t.s.mu.Unlock()
		return err
	}
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
