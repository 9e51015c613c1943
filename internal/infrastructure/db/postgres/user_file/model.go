package user_file

import (
	"time"

	"github.com/google/uuid"
)

type (
	UserFile struct {
		ID     int64
		UserID int64

		OriginalName string
		StoredName   string
		Comment      string
		Size         int64

		UploadDate   time.Time
		LastDownload *time.Time
		SpecialLink  uuid.UUID
	}
	UserFiles []*UserFile
)
