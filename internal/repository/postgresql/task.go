package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type taskRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

// NewTaskRepository returns a task repository. loc decides which calendar
// month a completion falls in for revenue sums.
func NewTaskRepository(db *database.DB, loc *time.Location) task.TaskRepository {
	return &taskRepositoryImpl{db: db, loc: loc}
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.assigned_to, t.assigned_by, t.status, t.priority,
		t.due_date, t.price, t.completed_at, t.created_at, t.updated_at,
		e.name, u.email
	FROM tasks t
	LEFT JOIN employees e ON e.id = t.assigned_to
	LEFT JOIN users u ON u.id = t.assigned_by`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedBy, &t.Status, &t.Priority,
		&t.DueDate, &t.Price, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		&t.AssigneeName, &t.AssignerEmail,
	)
	return t, err
}

func (r *taskRepositoryImpl) queryTasks(ctx context.Context, query string, args ...interface{}) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, newTask task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	if newTask.ID == "" {
		newTask.ID = uuid.Must(uuid.NewV7()).String()
	}
	if newTask.CreatedAt.IsZero() {
		newTask.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tasks (id, title, description, assigned_to, assigned_by, status, priority, due_date, price, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`
	_, err := q.Exec(ctx, query,
		newTask.ID, newTask.Title, newTask.Description, newTask.AssignedTo, newTask.AssignedBy, newTask.Status,
		newTask.Priority, newTask.DueDate, newTask.Price, newTask.CompletedAt, newTask.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return task.Task{}, task.ErrAssigneeNotFound
		}
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return r.GetByID(ctx, newTask.ID)
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTask(q.QueryRow(ctx, taskSelect+` WHERE t.id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// List implements task.TaskRepository.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Priority != nil && *filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", argIdx))
		args = append(args, *filter.Priority)
		argIdx++
	}
	if filter.AssignedTo != nil && *filter.AssignedTo != "" {
		conditions = append(conditions, fmt.Sprintf("t.assigned_to::text = $%d", argIdx))
		args = append(args, *filter.AssignedTo)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM tasks t WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.created_at DESC", taskSelect, whereClause)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	}

	tasks, err := r.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ListByAssignee implements task.TaskRepository.
func (r *taskRepositoryImpl) ListByAssignee(ctx context.Context, employeeID string) ([]task.Task, error) {
	return r.queryTasks(ctx, taskSelect+` WHERE t.assigned_to::text = $1 ORDER BY t.created_at DESC`, employeeID)
}

// ListOpenBelowHigh implements task.TaskRepository.
func (r *taskRepositoryImpl) ListOpenBelowHigh(ctx context.Context) ([]task.Task, error) {
	return r.queryTasks(ctx, taskSelect+`
		WHERE t.status IN ('assigned', 'in_progress') AND t.priority <> 'high'
		ORDER BY t.created_at ASC`)
}

// Update implements task.TaskRepository. It writes every mutable column of t.
func (r *taskRepositoryImpl) Update(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, assigned_to = $3, status = $4, priority = $5,
			due_date = $6, price = $7, completed_at = $8, updated_at = NOW()
		WHERE id = $9`
	tag, err := q.Exec(ctx, query,
		t.Title, t.Description, t.AssignedTo, t.Status, t.Priority, t.DueDate, t.Price, t.CompletedAt, t.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return task.Task{}, task.ErrAssigneeNotFound
		}
		return task.Task{}, fmt.Errorf("failed to update task %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return task.Task{}, task.ErrTaskNotFound
	}
	return r.GetByID(ctx, t.ID)
}

// UpdatePriority implements task.TaskRepository. updated_at is left alone
// so escalation does not look like a user edit.
func (r *taskRepositoryImpl) UpdatePriority(ctx context.Context, id string, priority task.Priority) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE tasks SET priority = $1 WHERE id = $2`, priority, id)
	if err != nil {
		return fmt.Errorf("failed to update priority for task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// Delete implements task.TaskRepository.
func (r *taskRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// CountByStatus implements task.TaskRepository.
func (r *taskRepositoryImpl) CountByStatus(ctx context.Context) (map[task.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := map[task.Status]int64{}
	for rows.Next() {
		var (
			status task.Status
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountOpenByPriority implements task.TaskRepository.
func (r *taskRepositoryImpl) CountOpenByPriority(ctx context.Context) (map[task.Priority]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT priority, COUNT(*) FROM tasks
		WHERE status IN ('assigned', 'in_progress')
		GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	defer rows.Close()

	counts := map[task.Priority]int64{}
	for rows.Next() {
		var (
			priority task.Priority
			n        int64
		)
		if err := rows.Scan(&priority, &n); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		counts[priority] = n
	}
	return counts, rows.Err()
}

// SumCompletedRevenue implements task.TaskRepository.
func (r *taskRepositoryImpl) SumCompletedRevenue(ctx context.Context, month *string) (decimal.Decimal, int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(price), 0), COUNT(*)
		FROM tasks
		WHERE status = 'completed'
			AND ($1::text IS NULL OR to_char(completed_at AT TIME ZONE $2, 'YYYY-MM') = $1)`

	var (
		total decimal.Decimal
		count int64
	)
	if err := q.QueryRow(ctx, query, month, r.loc.String()).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum completed revenue: %w", err)
	}
	return total, count, nil
}
