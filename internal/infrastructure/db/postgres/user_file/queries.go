package user_file

const (
	fileColumns = `id, user_id, original_name, stored_name, comment, size, upload_date, last_download, special_link`

	SelectUserFiles = `
		SELECT ` + fileColumns + `
		FROM user_files
		WHERE user_id = $1
		ORDER BY upload_date DESC, id DESC
	`
	SelectUserFileByID = `
		SELECT ` + fileColumns + `
		FROM user_files
		WHERE id = $1
	`
	SelectUserFileByLink = `
		SELECT ` + fileColumns + `
		FROM user_files
		WHERE special_link = $1
	`
	InsertUserFile = `
		INSERT INTO user_files (user_id, original_name, stored_name, comment, size, special_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fileColumns + `
	`
	UpdateOriginalNameByID = `
		UPDATE user_files
		SET original_name = $1
		WHERE id = $2
		RETURNING ` + fileColumns + `
	`
	UpdateCommentByID = `
		UPDATE user_files
		SET comment = $1
		WHERE id = $2
		RETURNING ` + fileColumns + `
	`
	UpdateLastDownloadByID = `UPDATE user_files SET last_download = $1 WHERE id = $2`
	DeleteUserFileByID     = `DELETE FROM user_files WHERE id = $1`
	DeleteUserFilesByOwner = `DELETE FROM user_files WHERE user_id = $1`
)
