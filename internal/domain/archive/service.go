package archive

import "context"

type ArchiveService interface {
	// DeleteEmployee archives then removes any employee, leaving or not.
	DeleteEmployee(ctx context.Context, employeeID string) (ArchiveResult, error)
	MoveToPreviousStaff(ctx context.Context, req MoveToPreviousStaffRequest) (ArchiveResult, error)
	CleanupLeftEmployees(ctx context.Context) (CleanupResponse, error)
	ListPreviousStaff(ctx context.Context, page, limit int) (ListPreviousStaffResponse, error)
	GetPreviousStaff(ctx context.Context, id string) (PreviousStaffResponse, error)
}
