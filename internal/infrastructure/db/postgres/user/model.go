package user

import (
	"time"
)

type (
	User struct {
		ID           int64
		Username     string
		FullName     string
		Email        string
		PasswordHash string
		IsAdmin      bool
		IsActive     bool
		StoragePath  string

		CreatedAt time.Time
	}
	Users []*User

	Usage struct {
		User
		FileCount  int64
		TotalBytes int64
	}
	Usages []*Usage
)
