package token

import (
	"context"
	"time"

	"github.com/google/uuid"

	"file-storage-api/internal/domain/token"
	"file-storage-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) token.Repository {
	return &Repository{db: db}
}

func (r *Repository) Revoke(ctx context.Context, jti uuid.UUID, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, InsertRevoked, jti, expiresAt)
	return err
}

func (r *Repository) IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error) {
	var revoked bool
	if err := r.db.QueryRow(ctx, SelectRevoked, jti).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

func (r *Repository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteExpiredBefore, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
