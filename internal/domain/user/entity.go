package user

import (
	"errors"
	"time"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

type (
	ID   = int64
	User struct {
		ID           ID
		Username     string
		FullName     string
		Email        string
		PasswordHash string
		IsAdmin      bool
		IsActive     bool
		// StoragePath is the namespace token for the user's content. It is
		// assigned once at registration and never derived from other fields.
		StoragePath string

		CreatedAt time.Time
	}
	Users []*User

	// Usage is a user together with the aggregate size of everything they own.
	Usage struct {
		User       *User
		FileCount  int64
		TotalBytes int64
	}
	Usages []*Usage
)

const bytesPerMB = 1024 * 1024

// SizeMB is TotalBytes in MiB rounded to two decimals.
func (u Usage) SizeMB() float64 {
	mb := float64(u.TotalBytes) / bytesPerMB
	return float64(int64(mb*100+0.5)) / 100
}
