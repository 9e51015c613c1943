package user_file

import (
	"time"

	"file-storage-api/internal/interface/api/rest/dto/user"
)

type (
	UserFile struct {
		ID           int64      `json:"id"`
		OwnerID      int64      `json:"owner_id"`
		OriginalName string     `json:"original_name"`
		Comment      string     `json:"comment"`
		Size         int64      `json:"size"`
		UploadDate   time.Time  `json:"upload_date"`
		LastDownload *time.Time `json:"last_download"`
		SpecialLink  string     `json:"special_link"`
		DownloadURL  string     `json:"download_url"`
	}
	UserFiles    []UserFile
	ResponseData struct {
		Data UserFiles `json:"data"`
		// Owner is present when an admin listed another user's files.
		Owner *user.User `json:"owner,omitempty"`
	}

	RenameRequest struct {
		NewName string `json:"new_name"`
	}
	CommentRequest struct {
		Comment *string `json:"comment"`
	}
)
