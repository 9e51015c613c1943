package ports

import (
	"context"
	"io"

	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/user"
	"file-storage-api/internal/domain/user_file"
)

type (
	UploadInput struct {
		Content io.Reader
		// FileName is the client supplied name of the uploaded part,
		// DisplayName an optional override for it.
		FileName    string
		DisplayName string
		Comment     string
	}

	ListResult struct {
		Files user_file.UserFiles
		// Owner is set when an admin listed another user's files.
		Owner *user.User
	}

	// Download must be closed by the caller.
	Download struct {
		Content  io.ReadCloser
		Size     int64
		FileName string
	}
)

type UserFileService interface {
	Upload(ctx context.Context, actor *access.Actor, in UploadInput) (*user_file.UserFile, error)
	List(ctx context.Context, actor *access.Actor, userID *int64) (*ListResult, error)
	Rename(ctx context.Context, actor *access.Actor, fileID int64, newName string) (*user_file.UserFile, error)
	Comment(ctx context.Context, actor *access.Actor, fileID int64, comment string) (*user_file.UserFile, error)
	Delete(ctx context.Context, actor *access.Actor, fileID int64) error
	Download(ctx context.Context, actor *access.Actor, fileID int64) (*Download, error)
	DownloadByLink(ctx context.Context, link string) (*Download, error)
	FilePurger
}

// FilePurger removes everything a user owns. Used by user deletion.
type FilePurger interface {
	PurgeUserFiles(ctx context.Context, owner *user.User) error
}
