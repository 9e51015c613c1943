package ports

import (
	"context"

	"file-storage-api/internal/domain/user"
)

type Auth interface {
	Login(ctx context.Context, username, password string) (string, *user.User, error)
	IssueToken(u *user.User) (string, error)
	Authenticate(ctx context.Context, bearer string) (*user.User, error)
	Logout(ctx context.Context, bearer string) error
}
