package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_RevokeAndCheck(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	ctx := context.Background()
	jti := uuid.New()
	exp := time.Now().Add(time.Hour).UTC()

	mock.ExpectExec(InsertRevoked).WithArgs(jti, exp).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(SelectRevoked).WithArgs(jti).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(SelectRevoked).WithArgs(pgxmock.AnyArg()).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewRepository(mock)
	require.NoError(t, repo.Revoke(ctx, jti, exp))

	revoked, err := repo.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PurgeExpired(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectExec(DeleteExpiredBefore).WithArgs(now).WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := NewRepository(mock).PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
