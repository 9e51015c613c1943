package user

import (
	"file-storage-api/internal/domain/user"
)

// ToResponseUser never carries the password hash or the storage path.
func ToResponseUser(uDomain user.User) User {
	var u = User{
		ID:        uDomain.ID,
		Username:  uDomain.Username,
		FullName:  uDomain.FullName,
		Email:     uDomain.Email,
		IsAdmin:   uDomain.IsAdmin,
		IsActive:  uDomain.IsActive,
		CreatedAt: uDomain.CreatedAt,
	}

	return u
}

func ToResponseUsages(usDomain user.Usages) Usages {
	us := make(Usages, 0, len(usDomain))
	for _, u := range usDomain {
		if u == nil || u.User == nil {
			continue
		}
		us = append(us, Usage{
			User:       ToResponseUser(*u.User),
			FileCount:  u.FileCount,
			TotalBytes: u.TotalBytes,
			FileSizeMB: u.SizeMB(),
		})
	}

	return us
}
