package token

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists revoked token ids until the token would have expired
// on its own.
type Repository interface {
	Revoke(ctx context.Context, jti uuid.UUID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
