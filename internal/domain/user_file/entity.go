package user_file

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"file-storage-api/internal/domain/user"
)

var (
	ErrNotFound = errors.New("user file not found")
	// ErrDuplicateKey reports a stored_name or special_link collision at insert.
	ErrDuplicateKey = errors.New("user file key already exists")
)

type (
	UserFile struct {
		ID      int64
		OwnerID user.ID

		OriginalName string
		// StoredName locates the bytes inside the owner's namespace. It is
		// generated once and never derived from user input alone.
		StoredName string
		Comment    string
		SizeBytes  int64

		UploadDate   time.Time
		LastDownload *time.Time
		SpecialLink  uuid.UUID
	}
	UserFiles []*UserFile
)

// New builds a record that is not persisted yet. StoredName and SpecialLink
// come from crypto/rand through uuid; SizeBytes is filled after the write.
func New(ownerID user.ID, originalName, comment string) *UserFile {
	return &UserFile{
		OwnerID:      ownerID,
		OriginalName: originalName,
		StoredName:   NewStoredName(originalName),
		Comment:      comment,
		SpecialLink:  uuid.New(),
	}
}
