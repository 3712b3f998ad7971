package memory

import (
	"context"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/archive"
)

type PreviousStaffRepository struct{ s *Store }

func (s *Store) PreviousStaff() *PreviousStaffRepository { return &PreviousStaffRepository{s: s} }

func (r *PreviousStaffRepository) Create(_ context.Context, p archive.PreviousStaff) (archive.PreviousStaff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("previous_staff.create", p.OriginalEmployeeID); err != nil {
		return archive.PreviousStaff{}, err
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.s.data.previousStaff[p.ID] = p
	return p, nil
}

func (r *PreviousStaffRepository) GetByID(_ context.Context, id string) (archive.PreviousStaff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.previousStaff[id]
	if !ok {
		return archive.PreviousStaff{}, archive.ErrPreviousStaffNotFound
	}
	return p, nil
}

func (r *PreviousStaffRepository) List(_ context.Context, page, limit int) ([]archive.PreviousStaff, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := sortedValues(r.s.data.previousStaff, func(a, b archive.PreviousStaff) bool { return a.CreatedAt.After(b.CreatedAt) })
	return paginate(all, page, limit), int64(len(all)), nil
}
