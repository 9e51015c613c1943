package user_file

import (
	"context"
	"time"

	"github.com/google/uuid"

	"file-storage-api/internal/domain/user"
)

type Repository interface {
	FetchUserFiles(ctx context.Context, ownerID user.ID) (UserFiles, error)
	FetchUserFileByID(ctx context.Context, id int64) (*UserFile, error)
	FetchUserFileByLink(ctx context.Context, link uuid.UUID) (*UserFile, error)
	CreateUserFile(ctx context.Context, req *UserFile) (*UserFile, error)
	UpdateOriginalName(ctx context.Context, id int64, name string) (*UserFile, error)
	UpdateComment(ctx context.Context, id int64, comment string) (*UserFile, error)
	TouchLastDownload(ctx context.Context, id int64, at time.Time) error
	DeleteUserFile(ctx context.Context, id int64) error
	DeleteUserFiles(ctx context.Context, ownerID user.ID) error
}
