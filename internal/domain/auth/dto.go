package auth

import (
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`

	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
}

// Validate defaults Role to employee and requires a phone for that role.
func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters long")
	}
	if !user.Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of super_admin, admin, employee")
	}
	if user.Role(r.Role) == user.RoleEmployee {
		if validator.IsEmpty(r.Phone) {
			errs.Add("phone", "phone is required for employee registration")
		} else if !validator.IsValidPhoneNumber(r.Phone) {
			errs.Add("phone", "phone must contain 7-15 digits")
		}
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken          string            `json:"accessToken"`
	AccessTokenExpiresAt int64             `json:"accessTokenExpiresAt"`
	User                 user.UserResponse `json:"user"`
}

type RegisterResponse struct {
	TokenResponse
	Employee *employee.EmployeeResponse `json:"employee,omitempty"`
}

type ProfileResponse struct {
	User     user.UserResponse          `json:"user"`
	Employee *employee.EmployeeResponse `json:"employee,omitempty"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
