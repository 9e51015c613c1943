package user

import (
	"time"
)

type (
	User struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		FullName  string    `json:"full_name"`
		Email     string    `json:"email"`
		IsAdmin   bool      `json:"is_admin"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
	}

	Usage struct {
		User
		FileCount  int64   `json:"file_count"`
		TotalBytes int64   `json:"total_bytes"`
		FileSizeMB float64 `json:"file_size_mb"`
	}
	Usages []Usage

	ResponseData struct {
		Data Usages `json:"data"`
	}
)
