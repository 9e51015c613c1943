package user_file

import (
	domain "file-storage-api/internal/domain/user_file"
)

func fromDBModel(model *UserFile) *domain.UserFile {
	var uf = &domain.UserFile{
		ID:      model.ID,
		OwnerID: model.UserID,

		OriginalName: model.OriginalName,
		StoredName:   model.StoredName,
		Comment:      model.Comment,
		SizeBytes:    model.Size,

		UploadDate:   model.UploadDate,
		LastDownload: model.LastDownload,
		SpecialLink:  model.SpecialLink,
	}

	return uf
}

func fromDBModels(models UserFiles) domain.UserFiles {
	ufs := make(domain.UserFiles, len(models))
	for idx, u := range models {
		ufs[idx] = fromDBModel(u)
	}

	return ufs
}
