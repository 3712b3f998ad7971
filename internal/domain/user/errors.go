package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidRole             = errors.New("invalid role")
	ErrCannotDeleteSelf        = errors.New("cannot delete your own account")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
