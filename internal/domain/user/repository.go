package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	FetchUserByUsername(ctx context.Context, username string) (*User, error)
	FetchUsersUsage(ctx context.Context) (Usages, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	ToggleAdmin(ctx context.Context, id ID) (*User, error)
	DeleteUser(ctx context.Context, id ID) (bool, error)
}
