package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const salaryColumns = `id, employee_id, amount, date, month, status, created_at`

func scanSalaryRecord(row pgx.Row) (salary.Record, error) {
	var rec salary.Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Amount, &rec.Date, &rec.Month, &rec.Status, &rec.CreatedAt)
	return rec, err
}

// ListByEmployee implements salary.SalaryRepository. Newest first.
func (r *salaryRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]salary.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+salaryColumns+` FROM salary_records WHERE employee_id::text = $1 ORDER BY date DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	var records []salary.Record
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ExistsPaidForMonth implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) ExistsPaidForMonth(ctx context.Context, employeeID string, month string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM salary_records WHERE employee_id::text = $1 AND month = $2 AND status = 'paid')`
	if err := q.QueryRow(ctx, query, employeeID, month).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check paid month: %w", err)
	}
	return exists, nil
}

// Create implements salary.SalaryRepository. The partial unique index
// salary_records_paid_month_key settles concurrent payments.
func (r *salaryRepositoryImpl) Create(ctx context.Context, record salary.Record) (salary.Record, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO salary_records (id, employee_id, amount, date, month, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + salaryColumns

	created, err := scanSalaryRecord(q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Amount, record.Date, record.Month, record.Status,
	))
	if err != nil {
		if isUniqueViolation(err, "salary_records_paid_month_key") {
			return salary.Record{}, salary.ErrAlreadyPaid
		}
		if isForeignKeyViolation(err) {
			return salary.Record{}, employee.ErrEmployeeNotFound
		}
		return salary.Record{}, fmt.Errorf("failed to create salary record: %w", err)
	}
	return created, nil
}

// GetPaidForMonth implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) GetPaidForMonth(ctx context.Context, employeeID string, month string) (salary.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` FROM salary_records WHERE employee_id::text = $1 AND month = $2 AND status = 'paid'`
	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, employeeID, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Record{}, salary.ErrRecordNotFound
		}
		return salary.Record{}, fmt.Errorf("failed to get paid record: %w", err)
	}
	return rec, nil
}

// SumPaid implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) SumPaid(ctx context.Context, month *string) (decimal.Decimal, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		total decimal.Decimal
		count int64
	)
	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM salary_records
		WHERE status = 'paid' AND ($1::text IS NULL OR month = $1)`
	if err := q.QueryRow(ctx, query, month).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum paid salaries: %w", err)
	}
	return total, count, nil
}

// CountEmployeesPaid implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) CountEmployeesPaid(ctx context.Context, month string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	query := `SELECT COUNT(DISTINCT employee_id) FROM salary_records WHERE status = 'paid' AND month = $1`
	if err := q.QueryRow(ctx, query, month).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count paid employees: %w", err)
	}
	return n, nil
}
