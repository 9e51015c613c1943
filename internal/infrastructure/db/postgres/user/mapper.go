package user

import (
	domain "file-storage-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:           model.ID,
		Username:     model.Username,
		FullName:     model.FullName,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		IsAdmin:      model.IsAdmin,
		IsActive:     model.IsActive,
		StoragePath:  model.StoragePath,

		CreatedAt: model.CreatedAt,
	}

	return u
}

func fromDBUsages(models Usages) domain.Usages {
	us := make(domain.Usages, len(models))
	for idx, m := range models {
		us[idx] = &domain.Usage{
			User:       fromDBModel(&m.User),
			FileCount:  m.FileCount,
			TotalBytes: m.TotalBytes,
		}
	}

	return us
}
