package memory

import (
	"context"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

type AnalyticsRepository struct{ s *Store }

func (s *Store) Analytics() *AnalyticsRepository { return &AnalyticsRepository{s: s} }

func (r *AnalyticsRepository) ListTaskFacts(_ context.Context) ([]analytics.TaskFact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]analytics.TaskFact, 0, len(r.s.data.tasks))
	for _, t := range r.s.data.tasks {
		f := analytics.TaskFact{
			ID:          t.ID,
			Title:       t.Title,
			Status:      t.Status,
			Priority:    t.Priority,
			Price:       t.Price,
			CompletedAt: t.CompletedAt,
			AssignedTo:  t.AssignedTo,
		}
		if e, ok := r.s.data.employees[t.AssignedTo]; ok {
			name, pos, dept := e.Name, e.Position, e.Department
			f.AssigneeName, f.AssigneePosition, f.AssigneeDepartment = &name, &pos, &dept
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *AnalyticsRepository) ListActiveEmployeeFacts(_ context.Context, recentSince time.Time) ([]analytics.EmployeeFact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []analytics.EmployeeFact
	for _, e := range r.s.data.employees {
		if !e.IsActive {
			continue
		}
		f := analytics.EmployeeFact{
			ID:            e.ID,
			Name:          e.Name,
			Position:      e.Position,
			Department:    e.Department,
			Salary:        e.Salary,
			CurrentStatus: string(e.CurrentStatus),
		}
		for _, ru := range r.s.data.rollups {
			if ru.EmployeeID != e.ID {
				continue
			}
			f.TotalPunchIns += int64(len(ru.PunchIns))
			if !ru.Date.Before(recentSince) {
				f.RecentPunchIns += int64(len(ru.PunchIns))
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *AnalyticsRepository) SumLedgerForActive(_ context.Context) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, rec := range r.s.data.salaries {
		if e, ok := r.s.data.employees[rec.EmployeeID]; ok && e.IsActive {
			total = total.Add(rec.Amount)
		}
	}
	return total, nil
}
