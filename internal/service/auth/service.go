package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/auth"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPosition   = "General"
	defaultDepartment = "Staff"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	employee.EmployeeRepository
	jwt.Service
	statsCache attendance.StatsCache
	now        func() time.Time
}

// NewAuthService builds the service. statsCache may be nil.
func NewAuthService(tx database.Transactor, userRepository user.UserRepository, employeeRepository employee.EmployeeRepository, statsCache attendance.StatsCache, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		tx:                 tx,
		UserRepository:     userRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		statsCache:         statsCache,
		now:                time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) issueToken(u user.User) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
		User:                 user.NewUserResponse(u),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	exists, err := a.UserRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return auth.RegisterResponse{}, user.ErrUserEmailExists
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var (
		created     user.User
		createdEmpl *employee.Employee
	)
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = a.UserRepository.Create(txCtx, user.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashed,
			Role:         user.Role(req.Role),
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if created.Role != user.RoleEmployee {
			return nil
		}

		// An employee record may already exist when management added the
		// person before they signed up.
		hasEmployee, err := a.EmployeeRepository.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check employee: %w", err)
		}
		if hasEmployee {
			return nil
		}

		position, department := req.Position, req.Department
		if position == "" {
			position = defaultPosition
		}
		if department == "" {
			department = defaultDepartment
		}
		empl, err := a.EmployeeRepository.Create(txCtx, employee.Employee{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Position:      position,
			Department:    department,
			JoinDate:      a.now(),
			IsActive:      true,
			Salary:        decimal.Zero,
			CurrentStatus: employee.StatusCheckedOut,
		})
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		createdEmpl = &empl
		return nil
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	token, err := a.issueToken(created)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	resp := auth.RegisterResponse{TokenResponse: token}
	if createdEmpl != nil {
		attendance.InvalidateStats(ctx, a.statsCache)
		er := employee.NewEmployeeResponse(*createdEmpl)
		resp.Employee = &er
	}
	return resp, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueToken(userData)
}

// GetProfile implements auth.AuthService.
func (a *AuthServiceImpl) GetProfile(ctx context.Context, userID string) (auth.ProfileResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	resp := auth.ProfileResponse{User: user.NewUserResponse(userData)}

	empl, err := a.EmployeeRepository.GetByEmail(ctx, userData.Email)
	switch {
	case err == nil:
		er := employee.NewEmployeeResponse(empl)
		resp.Employee = &er
	case errors.Is(err, employee.ErrEmployeeNotFound):
	default:
		return auth.ProfileResponse{}, fmt.Errorf("failed to get employee profile: %w", err)
	}

	return resp, nil
}
