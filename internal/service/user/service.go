package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
)

type UserServiceImpl struct {
	tx           database.Transactor
	userRepo     user.UserRepository
	employeeRepo employee.EmployeeRepository
	statsCache   attendance.StatsCache
	publisher    realtime.Publisher
}

func NewUserService(tx database.Transactor, userRepo user.UserRepository, employeeRepo employee.EmployeeRepository, statsCache attendance.StatsCache, publisher realtime.Publisher) user.UserService {
	return &UserServiceImpl{
		tx:           tx,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		statsCache:   statsCache,
		publisher:    publisher,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, user.NewUserResponse(u))
	}
	return out, nil
}

func (s *UserServiceImpl) GetUserStats(ctx context.Context) (user.UserStatsResponse, error) {
	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return user.UserStatsResponse{}, fmt.Errorf("failed to count users: %w", err)
	}
	stats := user.UserStatsResponse{
		SuperAdmins: counts[user.RoleSuperAdmin],
		Admins:      counts[user.RoleAdmin],
		Employees:   counts[user.RoleEmployee],
	}
	stats.TotalUsers = stats.SuperAdmins + stats.Admins + stats.Employees
	return stats, nil
}

func (s *UserServiceImpl) UpdateUserRole(ctx context.Context, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	role := user.Role(req.Role)
	if !role.IsValid() {
		return user.UserResponse{}, user.ErrInvalidRole
	}
	if err := s.userRepo.UpdateRole(ctx, req.ID, role); err != nil {
		return user.UserResponse{}, err
	}
	updated, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("user role updated", "user_id", req.ID, "role", role)
	return user.NewUserResponse(updated), nil
}

// DeleteUser removes the account and, in the same transaction, the employee
// sharing its email. A missing employee is not an error.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, requesterID string, id string) (user.DeleteUserResponse, error) {
	if requesterID == id {
		return user.DeleteUserResponse{}, user.ErrCannotDeleteSelf
	}

	var (
		resp       user.DeleteUserResponse
		employeeID string
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		target, err := s.userRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if e, err := s.employeeRepo.GetByEmail(txCtx, target.Email); err == nil {
			employeeID = e.ID
		} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return fmt.Errorf("failed to look up employee: %w", err)
		}

		if err := s.userRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		resp.UserDeleted = true

		deleted, err := s.employeeRepo.DeleteByEmail(txCtx, target.Email)
		if err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		resp.EmployeeDeleted = deleted
		return nil
	})
	if err != nil {
		return user.DeleteUserResponse{}, err
	}

	if resp.EmployeeDeleted {
		attendance.InvalidateStats(ctx, s.statsCache)
	}
	if resp.EmployeeDeleted && employeeID != "" {
		s.publisher.Publish(ctx, realtime.NewEvent(
			realtime.EventEmployeeUpdate,
			realtime.TypeEmployeeChange,
			realtime.Change{Action: realtime.ActionDeleted, ID: employeeID},
			realtime.ManagementRooms(),
			time.Now(),
		))
	}
	slog.Info("user deleted", "user_id", id, "employee_deleted", resp.EmployeeDeleted)
	return resp, nil
}
