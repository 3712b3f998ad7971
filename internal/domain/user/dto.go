package user

import (
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

type UpdateUserRoleRequest struct {
	ID   string `json:"-"`
	Role string `json:"role"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Role) {
		errs.Add("role", "role is required")
	} else if !Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of super_admin, admin, employee")
	}

	return errs.Err()
}

type DeleteUserResponse struct {
	UserDeleted     bool `json:"userDeleted"`
	EmployeeDeleted bool `json:"employeeDeleted"`
}

type UserStatsResponse struct {
	TotalUsers  int64 `json:"totalUsers"`
	SuperAdmins int64 `json:"superAdmins"`
	Admins      int64 `json:"admins"`
	Employees   int64 `json:"employees"`
}
