package memory

import (
	"context"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/salary"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/task"
	"github.com/shopspring/decimal"
)

type TaskRepository struct{ s *Store }

func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

// join must be called with s.mu held.
func (r *TaskRepository) join(t task.Task) task.Task {
	t.AssigneeName = nil
	if e, ok := r.s.data.employees[t.AssignedTo]; ok {
		name := e.Name
		t.AssigneeName = &name
	}
	t.AssignerEmail = nil
	if u, ok := r.s.data.users[t.AssignedBy]; ok {
		email := u.Email
		t.AssignerEmail = &email
	}
	return t
}

func (r *TaskRepository) Create(_ context.Context, t task.Task) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	r.s.data.tasks[t.ID] = t
	return r.join(t), nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return r.join(t), nil
}

func (r *TaskRepository) List(_ context.Context, f task.TaskFilter) ([]task.Task, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []task.Task
	for _, t := range sortedValues(r.s.data.tasks, func(a, b task.Task) bool { return a.CreatedAt.After(b.CreatedAt) }) {
		if f.Status != nil && *f.Status != "" && string(t.Status) != *f.Status {
			continue
		}
		if f.Priority != nil && *f.Priority != "" && string(t.Priority) != *f.Priority {
			continue
		}
		if f.AssignedTo != nil && *f.AssignedTo != "" && t.AssignedTo != *f.AssignedTo {
			continue
		}
		out = append(out, r.join(t))
	}
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, employeeID string) ([]task.Task, error) {
	tasks, _, err := r.List(ctx, task.TaskFilter{AssignedTo: &employeeID})
	return tasks, err
}

func (r *TaskRepository) ListOpenBelowHigh(_ context.Context) ([]task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []task.Task
	for _, t := range sortedValues(r.s.data.tasks, func(a, b task.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }) {
		if t.Status.IsOpen() && t.Priority != task.PriorityHigh {
			out = append(out, r.join(t))
		}
	}
	return out, nil
}

func (r *TaskRepository) Update(_ context.Context, t task.Task) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.data.tasks[t.ID]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	r.s.data.tasks[t.ID] = t
	return r.join(t), nil
}

func (r *TaskRepository) UpdatePriority(_ context.Context, id string, p task.Priority) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tasks[id]
	if !ok {
		return task.ErrTaskNotFound
	}
	t.Priority = p
	r.s.data.tasks[id] = t
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.tasks[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(r.s.data.tasks, id)
	return nil
}

func (r *TaskRepository) CountByStatus(_ context.Context) (map[task.Status]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[task.Status]int64{}
	for _, t := range r.s.data.tasks {
		out[t.Status]++
	}
	return out, nil
}

func (r *TaskRepository) CountOpenByPriority(_ context.Context) (map[task.Priority]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[task.Priority]int64{}
	for _, t := range r.s.data.tasks {
		if t.Status.IsOpen() {
			out[t.Priority]++
		}
	}
	return out, nil
}

func (r *TaskRepository) SumCompletedRevenue(_ context.Context, month *string) (decimal.Decimal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	var n int64
	for _, t := range r.s.data.tasks {
		if t.Status != task.StatusCompleted {
			continue
		}
		if month != nil {
			if t.CompletedAt == nil || t.CompletedAt.UTC().Format(salary.MonthLayout) != *month {
				continue
			}
		}
		n++
		if t.Price != nil {
			total = total.Add(*t.Price)
		}
	}
	return total, n, nil
}
