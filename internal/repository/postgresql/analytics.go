package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/analytics"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type analyticsRepositoryImpl struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) analytics.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db}
}

// ListTaskFacts implements analytics.AnalyticsRepository.
func (r *analyticsRepositoryImpl) ListTaskFacts(ctx context.Context) ([]analytics.TaskFact, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT t.id, t.title, t.status, t.priority, t.price, t.completed_at, t.assigned_to,
			e.name, e.position, e.department
		FROM tasks t
		LEFT JOIN employees e ON e.id = t.assigned_to`)
	if err != nil {
		return nil, fmt.Errorf("failed to load task facts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.TaskFact
	for rows.Next() {
		var f analytics.TaskFact
		if err := rows.Scan(
			&f.ID, &f.Title, &f.Status, &f.Priority, &f.Price, &f.CompletedAt, &f.AssignedTo,
			&f.AssigneeName, &f.AssigneePosition, &f.AssigneeDepartment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// ListActiveEmployeeFacts implements analytics.AnalyticsRepository.
// Punch-in counts come from the daily rollups.
func (r *analyticsRepositoryImpl) ListActiveEmployeeFacts(ctx context.Context, recentSince time.Time) ([]analytics.EmployeeFact, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT e.id, e.name, e.position, e.department, e.salary, e.current_status,
			COALESCE(SUM(cardinality(ru.punch_ins)), 0),
			COALESCE(SUM(cardinality(ru.punch_ins)) FILTER (WHERE ru.date >= $1::date), 0)
		FROM employees e
		LEFT JOIN attendance_rollups ru ON ru.employee_id = e.id
		WHERE e.is_active
		GROUP BY e.id`, recentSince)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee facts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.EmployeeFact
	for rows.Next() {
		var f analytics.EmployeeFact
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Position, &f.Department, &f.Salary, &f.CurrentStatus,
			&f.TotalPunchIns, &f.RecentPunchIns,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// SumLedgerForActive implements analytics.AnalyticsRepository.
func (r *analyticsRepositoryImpl) SumLedgerForActive(ctx context.Context) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.amount), 0)
		FROM salary_records s
		JOIN employees e ON e.id = s.employee_id
		WHERE e.is_active`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return total, nil
}
