package memory

import (
	"context"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

type SalaryRepository struct{ s *Store }

func (s *Store) Salaries() *SalaryRepository { return &SalaryRepository{s: s} }

func (r *SalaryRepository) ListByEmployee(_ context.Context, employeeID string) ([]salary.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []salary.Record
	for _, rec := range sortedValues(r.s.data.salaries, func(a, b salary.Record) bool { return a.Date.After(b.Date) }) {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// paidFor must be called with s.mu held.
func (r *SalaryRepository) paidFor(employeeID, month string) (salary.Record, bool) {
	for _, rec := range r.s.data.salaries {
		if rec.EmployeeID == employeeID && rec.Month == month && rec.Status == salary.StatusPaid {
			return rec, true
		}
	}
	return salary.Record{}, false
}

func (r *SalaryRepository) ExistsPaidForMonth(_ context.Context, employeeID string, month string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.paidFor(employeeID, month)
	return ok, nil
}

func (r *SalaryRepository) Create(_ context.Context, rec salary.Record) (salary.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("salary.create", rec.EmployeeID); err != nil {
		return salary.Record{}, err
	}
	if _, ok := r.s.data.employees[rec.EmployeeID]; !ok {
		return salary.Record{}, employee.ErrEmployeeNotFound
	}
	if rec.Status == salary.StatusPaid {
		if _, dup := r.paidFor(rec.EmployeeID, rec.Month); dup {
			return salary.Record{}, salary.ErrAlreadyPaid
		}
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	rec.CreatedAt = time.Now()
	r.s.data.salaries[rec.ID] = rec
	return rec, nil
}

func (r *SalaryRepository) GetPaidForMonth(_ context.Context, employeeID string, month string) (salary.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.paidFor(employeeID, month)
	if !ok {
		return salary.Record{}, salary.ErrRecordNotFound
	}
	return rec, nil
}

func (r *SalaryRepository) SumPaid(_ context.Context, month *string) (decimal.Decimal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	var n int64
	for _, rec := range r.s.data.salaries {
		if rec.Status != salary.StatusPaid {
			continue
		}
		if month != nil && rec.Month != *month {
			continue
		}
		total = total.Add(rec.Amount)
		n++
	}
	return total, n, nil
}

func (r *SalaryRepository) CountEmployeesPaid(_ context.Context, month string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]struct{}{}
	for _, rec := range r.s.data.salaries {
		if rec.Status == salary.StatusPaid && rec.Month == month {
			seen[rec.EmployeeID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

// Seed inserts a ledger entry as-is. Used to set up historical data.
func (r *SalaryRepository) Seed(rec salary.Record) salary.Record {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = newID()
	}
	r.s.data.salaries[rec.ID] = rec
	return rec
}
