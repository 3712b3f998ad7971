package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
)

type previousStaffRepositoryImpl struct {
	db *database.DB
}

func NewPreviousStaffRepository(db *database.DB) archive.PreviousStaffRepository {
	return &previousStaffRepositoryImpl{db: db}
}

const previousStaffColumns = `
	id, original_employee_id, name, email, phone, last_position, department, address, date_of_birth,
	emergency_contact, join_date, leaving_date, last_salary, total_income, paid_income, pending_income,
	salary_history, reason_for_leaving, performance_rating, created_at`

func scanPreviousStaff(row pgx.Row) (archive.PreviousStaff, error) {
	var (
		p                  archive.PreviousStaff
		emergency, history []byte
	)
	err := row.Scan(
		&p.ID, &p.OriginalEmployeeID, &p.Name, &p.Email, &p.Phone, &p.LastPosition, &p.Department, &p.Address, &p.DateOfBirth,
		&emergency, &p.JoinDate, &p.LeavingDate, &p.LastSalary, &p.TotalIncome, &p.PaidIncome, &p.PendingIncome,
		&history, &p.ReasonForLeaving, &p.PerformanceRating, &p.CreatedAt,
	)
	if err != nil {
		return archive.PreviousStaff{}, err
	}
	if len(emergency) > 0 {
		var contact employee.EmergencyContact
		if err := json.Unmarshal(emergency, &contact); err != nil {
			return archive.PreviousStaff{}, fmt.Errorf("failed to decode emergency contact: %w", err)
		}
		p.EmergencyContact = &contact
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.SalaryHistory); err != nil {
			return archive.PreviousStaff{}, fmt.Errorf("failed to decode salary history: %w", err)
		}
	}
	return p, nil
}

// Create implements archive.PreviousStaffRepository.
func (r *previousStaffRepositoryImpl) Create(ctx context.Context, snapshot archive.PreviousStaff) (archive.PreviousStaff, error) {
	q := GetQuerier(ctx, r.db)

	if snapshot.ID == "" {
		snapshot.ID = uuid.Must(uuid.NewV7()).String()
	}
	emergency, err := marshalNullable(snapshot.EmergencyContact, snapshot.EmergencyContact == nil)
	if err != nil {
		return archive.PreviousStaff{}, fmt.Errorf("failed to encode emergency contact: %w", err)
	}
	history := snapshot.SalaryHistory
	if history == nil {
		history = []salary.Record{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return archive.PreviousStaff{}, fmt.Errorf("failed to encode salary history: %w", err)
	}

	query := `
		INSERT INTO previous_staff (
			id, original_employee_id, name, email, phone, last_position, department, address, date_of_birth,
			emergency_contact, join_date, leaving_date, last_salary, total_income, paid_income, pending_income,
			salary_history, reason_for_leaving, performance_rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + previousStaffColumns

	created, err := scanPreviousStaff(q.QueryRow(ctx, query,
		snapshot.ID, snapshot.OriginalEmployeeID, snapshot.Name, snapshot.Email, snapshot.Phone,
		snapshot.LastPosition, snapshot.Department, snapshot.Address, snapshot.DateOfBirth,
		emergency, snapshot.JoinDate, snapshot.LeavingDate, snapshot.LastSalary, snapshot.TotalIncome,
		snapshot.PaidIncome, snapshot.PendingIncome, historyJSON, snapshot.ReasonForLeaving, snapshot.PerformanceRating,
	))
	if err != nil {
		return archive.PreviousStaff{}, fmt.Errorf("failed to archive employee %s: %w", snapshot.OriginalEmployeeID, err)
	}
	return created, nil
}

// GetByID implements archive.PreviousStaffRepository.
func (r *previousStaffRepositoryImpl) GetByID(ctx context.Context, id string) (archive.PreviousStaff, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPreviousStaff(q.QueryRow(ctx, `SELECT `+previousStaffColumns+` FROM previous_staff WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return archive.PreviousStaff{}, archive.ErrPreviousStaffNotFound
		}
		return archive.PreviousStaff{}, fmt.Errorf("failed to get previous staff: %w", err)
	}
	return p, nil
}

// List implements archive.PreviousStaffRepository.
func (r *previousStaffRepositoryImpl) List(ctx context.Context, page, limit int) ([]archive.PreviousStaff, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM previous_staff`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count previous staff: %w", err)
	}

	rows, err := q.Query(ctx, `SELECT `+previousStaffColumns+` FROM previous_staff ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list previous staff: %w", err)
	}
	defer rows.Close()

	var out []archive.PreviousStaff
	for rows.Next() {
		p, err := scanPreviousStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan previous staff: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
