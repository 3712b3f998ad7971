package user

import "context"

type UserService interface {
	ListUsers(ctx context.Context) ([]UserResponse, error)
	GetUserStats(ctx context.Context) (UserStatsResponse, error)
	UpdateUserRole(ctx context.Context, req UpdateUserRoleRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, requesterID string, id string) (DeleteUserResponse, error)
}
