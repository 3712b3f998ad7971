package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, name, email, phone, position, department, address, date_of_birth, emergency_contact,
	join_date, is_active, salary, current_status, last_punch_in, last_punch_out,
	is_leaving, leaving_date, leaving_reason, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e         employee.Employee
		emergency []byte
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.Position, &e.Department, &e.Address, &e.DateOfBirth, &emergency,
		&e.JoinDate, &e.IsActive, &e.Salary, &e.CurrentStatus, &e.LastPunchIn, &e.LastPunchOut,
		&e.IsLeaving, &e.LeavingDate, &e.LeavingReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if len(emergency) > 0 {
		var contact employee.EmergencyContact
		if err := json.Unmarshal(emergency, &contact); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to decode emergency contact: %w", err)
		}
		e.EmergencyContact = &contact
	}
	return e, nil
}

func marshalNullable(v any, isNil bool) ([]byte, error) {
	if isNil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.Must(uuid.NewV7()).String()
	}
	if newEmployee.CurrentStatus == "" {
		newEmployee.CurrentStatus = employee.StatusCheckedOut
	}
	if newEmployee.JoinDate.IsZero() {
		newEmployee.JoinDate = time.Now()
	}
	emergency, err := marshalNullable(newEmployee.EmergencyContact, newEmployee.EmergencyContact == nil)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to encode emergency contact: %w", err)
	}

	query := `
		INSERT INTO employees (
			id, name, email, phone, position, department, address, date_of_birth, emergency_contact,
			join_date, is_active, salary, current_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Email, newEmployee.Phone, newEmployee.Position,
		newEmployee.Department, newEmployee.Address, newEmployee.DateOfBirth, emergency,
		newEmployee.JoinDate, newEmployee.IsActive, newEmployee.Salary, newEmployee.CurrentStatus,
	))
	if err != nil {
		if isUniqueViolation(err, "employees_email_key") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "email = $1", email)
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR position ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("current_status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.IsLeaving != nil {
		conditions = append(conditions, fmt.Sprintf("is_leaving = $%d", argIdx))
		args = append(args, *filter.IsLeaving)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	employees, err := r.queryEmployees(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ListLeaving implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListLeaving(ctx context.Context) ([]employee.Employee, error) {
	return r.queryEmployees(ctx, `SELECT `+employeeColumns+` FROM employees WHERE is_leaving ORDER BY created_at ASC`)
}

// Update implements employee.EmployeeRepository. Empty strings clear the
// nullable columns.
func (r *employeeRepositoryImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = validator.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Address != nil {
		if *req.Address == "" {
			updates["address"] = nil
		} else {
			updates["address"] = *req.Address
		}
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			updates["date_of_birth"] = nil
		} else if dob, ok := validator.IsValidDate(*req.DateOfBirth); ok {
			updates["date_of_birth"] = dob
		}
	}
	if req.EmergencyContact != nil {
		emergency, err := json.Marshal(req.EmergencyContact)
		if err != nil {
			return fmt.Errorf("failed to encode emergency contact: %w", err)
		}
		updates["emergency_contact"] = emergency
	}
	if req.IsLeaving != nil {
		updates["is_leaving"] = *req.IsLeaving
	}
	if req.LeavingDate != nil {
		if *req.LeavingDate == "" {
			updates["leaving_date"] = nil
		} else if t, ok := validator.ParseDateOrDateTime(*req.LeavingDate); ok {
			updates["leaving_date"] = t
		}
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING id", strings.Join(setClauses, ", "), i)
	args = append(args, req.ID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err, "employees_email_key") {
			return employee.ErrEmailExists
		}
		return fmt.Errorf("failed to update employee with id %s: %w", req.ID, err)
	}
	return nil
}

func (r *employeeRepositoryImpl) execOne(ctx context.Context, sql string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateSalary implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error {
	err := r.execOne(ctx, `UPDATE employees SET salary = $1, updated_at = NOW() WHERE id = $2`, salary, id)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to update salary for employee %s: %w", id, err)
	}
	return err
}

// MarkLeaving implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) MarkLeaving(ctx context.Context, id string, leavingDate time.Time, reason *string) error {
	err := r.execOne(ctx, `
		UPDATE employees
		SET is_leaving = TRUE, leaving_date = $1, leaving_reason = COALESCE($2, leaving_reason), updated_at = NOW()
		WHERE id = $3`, leavingDate, reason, id)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to mark employee %s as leaving: %w", id, err)
	}
	return err
}

// TransitionStatus implements employee.EmployeeRepository. The WHERE clause
// on current_status makes a concurrent duplicate punch lose.
func (r *employeeRepositoryImpl) TransitionStatus(ctx context.Context, id string, from, to employee.AttendanceStatus, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	stampColumn := "last_punch_out"
	if to == employee.StatusCheckedIn {
		stampColumn = "last_punch_in"
	}
	sql := fmt.Sprintf(`
		UPDATE employees
		SET current_status = $1, %s = $2, updated_at = NOW()
		WHERE id = $3 AND current_status = $4`, stampColumn)

	tag, err := q.Exec(ctx, sql, to, at, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition status for employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check employee %s: %w", id, err)
	}
	if !exists {
		return employee.ErrEmployeeNotFound
	}
	return employee.ErrStatusConflict
}

// Delete implements employee.EmployeeRepository. Ledger, punches and
// rollups go with it through ON DELETE CASCADE.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.execOne(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return err
}

// DeleteByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	err := r.execOne(ctx, `DELETE FROM employees WHERE email = $1`, email)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete employee by email: %w", err)
	}
	return true, nil
}

func (r *employeeRepositoryImpl) count(ctx context.Context, where string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE `+where).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

// CountActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	return r.count(ctx, "is_active")
}

// CountActiveCheckedIn implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActiveCheckedIn(ctx context.Context) (int64, error) {
	return r.count(ctx, "is_active AND current_status = 'checked_in'")
}
