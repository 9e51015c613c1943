package token

const (
	InsertRevoked = `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`
	SelectRevoked       = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	DeleteExpiredBefore = `DELETE FROM revoked_tokens WHERE expires_at < $1`
)
