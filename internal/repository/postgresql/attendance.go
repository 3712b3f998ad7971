package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.action, a.timestamp, a.ip_address, a.location, a.notes, a.created_at,
		e.name, e.email, e.position, e.department
	FROM attendance_records a
	LEFT JOIN employees e ON e.id = a.employee_id`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec                          attendance.Record
		location                     []byte
		name, email, pos, department *string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Action, &rec.Timestamp, &rec.IPAddress, &location, &rec.Notes, &rec.CreatedAt,
		&name, &email, &pos, &department,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	if len(location) > 0 {
		var loc attendance.Location
		if err := json.Unmarshal(location, &loc); err != nil {
			return attendance.Record{}, fmt.Errorf("failed to decode location: %w", err)
		}
		rec.Location = &loc
	}
	if name != nil {
		rec.Employee = &employee.Summary{ID: rec.EmployeeID, Name: *name}
		if email != nil {
			rec.Employee.Email = *email
		}
		if pos != nil {
			rec.Employee.Position = *pos
		}
		if department != nil {
			rec.Employee.Department = *department
		}
	}
	return rec, nil
}

func (r *attendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}
	location, err := marshalNullable(record.Location, record.Location == nil)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to encode location: %w", err)
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, action, timestamp, ip_address, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err = q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Action, record.Timestamp, record.IPAddress, location, record.Notes,
	).Scan(&record.CreatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return record, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id::text = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Action != nil && *filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("a.action = $%d", argIdx))
		args = append(args, *filter.Action)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.timestamp >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.timestamp < $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records a WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s WHERE %s ORDER BY a.timestamp DESC LIMIT $%d OFFSET $%d", attendanceSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	records, err := r.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListBetween(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return r.queryRecords(ctx, attendanceSelect+` WHERE a.timestamp >= $1 AND a.timestamp < $2 ORDER BY a.timestamp DESC`, from, to)
}

// CountPresentBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) CountPresentBetween(ctx context.Context, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(DISTINCT a.employee_id)
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.action = 'punch_in' AND e.is_active AND a.timestamp >= $1 AND a.timestamp < $2`

	var n int64
	if err := q.QueryRow(ctx, query, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count present employees: %w", err)
	}
	return n, nil
}

// DeleteBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attendance: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpsertRollup implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpsertRollup(ctx context.Context, rollup attendance.Rollup) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_rollups (id, employee_id, date, punch_ins, punch_outs, total_hours, total_sessions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT attendance_rollups_employee_date_key DO UPDATE
		SET punch_ins = EXCLUDED.punch_ins,
			punch_outs = EXCLUDED.punch_outs,
			total_hours = EXCLUDED.total_hours,
			total_sessions = EXCLUDED.total_sessions`

	ins, outs := rollup.PunchIns, rollup.PunchOuts
	if ins == nil {
		ins = []time.Time{}
	}
	if outs == nil {
		outs = []time.Time{}
	}

	_, err := q.Exec(ctx, query,
		uuid.Must(uuid.NewV7()).String(), rollup.EmployeeID, rollup.Date.Format("2006-01-02"),
		ins, outs, rollup.TotalHours, rollup.TotalSessions,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rollup for employee %s: %w", rollup.EmployeeID, err)
	}
	return nil
}

// ListRollups implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListRollups(ctx context.Context, employeeID string) ([]attendance.Rollup, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, date, punch_ins, punch_outs, total_hours, total_sessions, created_at
		FROM attendance_rollups
		WHERE employee_id::text = $1
		ORDER BY date DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rollups: %w", err)
	}
	defer rows.Close()

	var rollups []attendance.Rollup
	for rows.Next() {
		var ru attendance.Rollup
		if err := rows.Scan(&ru.ID, &ru.EmployeeID, &ru.Date, &ru.PunchIns, &ru.PunchOuts, &ru.TotalHours, &ru.TotalSessions, &ru.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rollup: %w", err)
		}
		rollups = append(rollups, ru)
	}
	return rollups, rows.Err()
}
