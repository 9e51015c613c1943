package ports

import (
	"context"

	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/user"
)

type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*user.User, error)
	Profile(ctx context.Context, actor *access.Actor) (*user.User, error)
	ListUsers(ctx context.Context, actor *access.Actor) (user.Usages, error)
	ToggleAdminRole(ctx context.Context, actor *access.Actor, targetID user.ID) (*user.User, error)
	DeleteUser(ctx context.Context, actor *access.Actor, targetID user.ID) error
}
