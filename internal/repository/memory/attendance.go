package memory

import (
	"context"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
)

type AttendanceRepository struct{ s *Store }

func (s *Store) Attendance() *AttendanceRepository { return &AttendanceRepository{s: s} }

// withEmployee must be called with s.mu held.
func (r *AttendanceRepository) withEmployee(rec attendance.Record) attendance.Record {
	if e, ok := r.s.data.employees[rec.EmployeeID]; ok {
		sum := e.Summary()
		rec.Employee = &sum
	}
	return rec
}

func (r *AttendanceRepository) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("attendance.create", rec.EmployeeID); err != nil {
		return attendance.Record{}, err
	}
	if _, ok := r.s.data.employees[rec.EmployeeID]; !ok {
		return attendance.Record{}, employee.ErrEmployeeNotFound
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	rec.CreatedAt = time.Now()
	r.s.data.attendance[rec.ID] = rec
	return r.withEmployee(rec), nil
}

func (r *AttendanceRepository) List(_ context.Context, f attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := sortedValues(r.s.data.attendance, func(a, b attendance.Record) bool { return a.Timestamp.After(b.Timestamp) })
	var out []attendance.Record
	for _, rec := range all {
		if f.EmployeeID != nil && *f.EmployeeID != "" && rec.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.Action != nil && *f.Action != "" && string(rec.Action) != *f.Action {
			continue
		}
		if f.From != nil && rec.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && !rec.Timestamp.Before(*f.To) {
			continue
		}
		out = append(out, r.withEmployee(rec))
	}
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *AttendanceRepository) ListBetween(_ context.Context, from, to time.Time) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Record
	for _, rec := range sortedValues(r.s.data.attendance, func(a, b attendance.Record) bool { return a.Timestamp.After(b.Timestamp) }) {
		if !rec.Timestamp.Before(from) && rec.Timestamp.Before(to) {
			out = append(out, r.withEmployee(rec))
		}
	}
	return out, nil
}

func (r *AttendanceRepository) CountPresentBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]struct{}{}
	for _, rec := range r.s.data.attendance {
		if rec.Action != attendance.ActionPunchIn || rec.Timestamp.Before(from) || !rec.Timestamp.Before(to) {
			continue
		}
		if e, ok := r.s.data.employees[rec.EmployeeID]; ok && e.IsActive {
			seen[rec.EmployeeID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *AttendanceRepository) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, rec := range r.s.data.attendance {
		if rec.Timestamp.Before(cutoff) {
			delete(r.s.data.attendance, id)
			n++
		}
	}
	return n, nil
}

func rollupKey(employeeID string, day time.Time) string {
	return employeeID + "|" + day.Format("2006-01-02")
}

func (r *AttendanceRepository) UpsertRollup(_ context.Context, ru attendance.Rollup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("attendance.upsert_rollup", ru.EmployeeID); err != nil {
		return err
	}
	key := rollupKey(ru.EmployeeID, ru.Date)
	if existing, ok := r.s.data.rollups[key]; ok {
		ru.ID = existing.ID
		ru.CreatedAt = existing.CreatedAt
	} else {
		ru.ID = newID()
		ru.CreatedAt = time.Now()
	}
	r.s.data.rollups[key] = ru
	return nil
}

func (r *AttendanceRepository) ListRollups(_ context.Context, employeeID string) ([]attendance.Rollup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Rollup
	for _, ru := range sortedValues(r.s.data.rollups, func(a, b attendance.Rollup) bool { return a.Date.After(b.Date) }) {
		if ru.EmployeeID == employeeID {
			out = append(out, ru)
		}
	}
	return out, nil
}
