package user_file

import (
	"file-storage-api/internal/domain/user_file"
)

// ToResponseUserFile leaves out the stored name, clients only ever see the
// original name and the public link. linkPath builds the download URL.
func ToResponseUserFile(ufDomain user_file.UserFile, linkPath func(string) string) UserFile {
	link := ufDomain.SpecialLink.String()
	var uf = UserFile{
		ID:           ufDomain.ID,
		OwnerID:      ufDomain.OwnerID,
		OriginalName: ufDomain.OriginalName,
		Comment:      ufDomain.Comment,
		Size:         ufDomain.SizeBytes,
		UploadDate:   ufDomain.UploadDate,
		LastDownload: ufDomain.LastDownload,
		SpecialLink:  link,
		DownloadURL:  linkPath(link),
	}

	return uf
}

func ToResponseUserFiles(ufDomain user_file.UserFiles, linkPath func(string) string) UserFiles {
	ufs := make(UserFiles, len(ufDomain))
	for idx, uf := range ufDomain {
		ufs[idx] = ToResponseUserFile(*uf, linkPath)
	}

	return ufs
}
