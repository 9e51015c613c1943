package user

const (
	userColumns = `id, username, full_name, email, password_hash, is_admin, is_active, storage_path, created_at`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	SelectUserByUsername = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`
	SelectUsersUsage = `
		SELECT u.id, u.username, u.full_name, u.email, u.password_hash, u.is_admin, u.is_active, u.storage_path, u.created_at,
		       COUNT(f.id), COALESCE(SUM(f.size), 0)::BIGINT
		FROM users u
		LEFT JOIN user_files f ON f.user_id = u.id
		GROUP BY u.id
		ORDER BY u.id
	`
	InsertUser = `
		INSERT INTO users (username, full_name, email, password_hash, storage_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns + `
	`
	ToggleAdminByID = `
		UPDATE users
		SET is_admin = NOT is_admin
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	DeleteUserByID = `DELETE FROM users WHERE id = $1`

	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
)
