package memory

import (
	"context"
	"strings"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeRepository struct{ s *Store }

func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{s: s} }

func (r *EmployeeRepository) emailTaken(email, exceptID string) bool {
	for id, e := range r.s.data.employees {
		if e.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *EmployeeRepository) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("employee.create", e.Email); err != nil {
		return employee.Employee{}, err
	}
	if r.emailTaken(e.Email, "") {
		return employee.Employee{}, employee.ErrEmailExists
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CurrentStatus == "" {
		e.CurrentStatus = employee.StatusCheckedOut
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.data.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.data.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.emailTaken(email, ""), nil
}

func (r *EmployeeRepository) List(_ context.Context, f employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := sortedValues(r.s.data.employees, func(a, b employee.Employee) bool { return a.CreatedAt.After(b.CreatedAt) })
	var out []employee.Employee
	for _, e := range all {
		if f.Department != nil && *f.Department != "" && e.Department != *f.Department {
			continue
		}
		if f.Status != nil && *f.Status != "" && string(e.CurrentStatus) != *f.Status {
			continue
		}
		if f.IsActive != nil && e.IsActive != *f.IsActive {
			continue
		}
		if f.IsLeaving != nil && e.IsLeaving != *f.IsLeaving {
			continue
		}
		if f.Search != nil && *f.Search != "" {
			q := strings.ToLower(*f.Search)
			hay := strings.ToLower(e.Name + " " + e.Email + " " + e.Position)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, e)
	}
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *EmployeeRepository) ListLeaving(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []employee.Employee
	for _, e := range sortedValues(r.s.data.employees, func(a, b employee.Employee) bool { return a.CreatedAt.Before(b.CreatedAt) }) {
		if e.IsLeaving {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EmployeeRepository) Update(_ context.Context, req employee.UpdateEmployeeRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[req.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Email != nil {
		email := validator.NormalizeEmail(*req.Email)
		if r.emailTaken(email, e.ID) {
			return employee.ErrEmailExists
		}
		e.Email = email
	}
	if req.Phone != nil {
		e.Phone = *req.Phone
	}
	if req.Position != nil {
		e.Position = *req.Position
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if req.Salary != nil {
		e.Salary = *req.Salary
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.Address != nil {
		e.Address = req.Address
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			e.DateOfBirth = nil
		} else if t, ok := validator.IsValidDate(*req.DateOfBirth); ok {
			e.DateOfBirth = &t
		}
	}
	if req.EmergencyContact != nil {
		e.EmergencyContact = req.EmergencyContact
	}
	if req.IsLeaving != nil {
		e.IsLeaving = *req.IsLeaving
	}
	if req.LeavingDate != nil {
		if *req.LeavingDate == "" {
			e.LeavingDate = nil
		} else if t, ok := validator.ParseDateOrDateTime(*req.LeavingDate); ok {
			e.LeavingDate = &t
		}
	}
	e.UpdatedAt = time.Now()
	r.s.data.employees[e.ID] = e
	return nil
}

func (r *EmployeeRepository) UpdateSalary(_ context.Context, id string, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Salary = amount
	e.UpdatedAt = time.Now()
	r.s.data.employees[id] = e
	return nil
}

func (r *EmployeeRepository) MarkLeaving(_ context.Context, id string, leavingDate time.Time, reason *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.IsLeaving = true
	e.LeavingDate = &leavingDate
	if reason != nil {
		e.LeavingReason = reason
	}
	e.UpdatedAt = time.Now()
	r.s.data.employees[id] = e
	return nil
}

func (r *EmployeeRepository) TransitionStatus(_ context.Context, id string, from, to employee.AttendanceStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if e.CurrentStatus != from {
		return employee.ErrStatusConflict
	}
	e.CurrentStatus = to
	if to == employee.StatusCheckedIn {
		e.LastPunchIn = &at
	} else {
		e.LastPunchOut = &at
	}
	e.UpdatedAt = time.Now()
	r.s.data.employees[id] = e
	return nil
}

// deleteCascade mirrors ON DELETE CASCADE. Tasks are kept so completed
// revenue survives the assignee. Must hold s.mu.
func (r *EmployeeRepository) deleteCascade(id string) {
	delete(r.s.data.employees, id)
	for k, rec := range r.s.data.salaries {
		if rec.EmployeeID == id {
			delete(r.s.data.salaries, k)
		}
	}
	for k, rec := range r.s.data.attendance {
		if rec.EmployeeID == id {
			delete(r.s.data.attendance, k)
		}
	}
	for k, ru := range r.s.data.rollups {
		if ru.EmployeeID == id {
			delete(r.s.data.rollups, k)
		}
	}
}

func (r *EmployeeRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("employee.delete", id); err != nil {
		return err
	}
	if _, ok := r.s.data.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	r.deleteCascade(id)
	return nil
}

func (r *EmployeeRepository) DeleteByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.data.employees {
		if e.Email == email {
			r.deleteCascade(id)
			return true, nil
		}
	}
	return false, nil
}

func (r *EmployeeRepository) CountActive(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.data.employees {
		if e.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *EmployeeRepository) CountActiveCheckedIn(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.data.employees {
		if e.IsActive && e.CurrentStatus == employee.StatusCheckedIn {
			n++
		}
	}
	return n, nil
}
