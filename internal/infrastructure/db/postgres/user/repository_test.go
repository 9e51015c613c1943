package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "file-storage-api/internal/domain/user"
)

var userCols = []string{"id", "username", "full_name", "email", "password_hash", "is_admin", "is_active", "storage_path", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func aliceRow(created time.Time, isAdmin bool) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		int64(1), "alice", "Alice A", "a@x.com", "$2a$hash", isAdmin, true, "7c9e6679-7425-40de-944b-e07fc1f90ae7", created,
	)
}

func TestRepository_FetchUserByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(SelectUserByID).WithArgs(int64(1)).WillReturnRows(aliceRow(created, false))

		u, err := NewRepository(mock).FetchUserByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "Alice A", u.FullName)
		assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", u.StoragePath)
		assert.True(t, u.IsActive)
		assert.Equal(t, created, u.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing returns nil", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(SelectUserByID).WithArgs(int64(5)).WillReturnRows(pgxmock.NewRows(userCols))

		u, err := NewRepository(mock).FetchUserByID(ctx, 5)
		require.NoError(t, err)
		assert.Nil(t, u)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(SelectUserByID).WithArgs(int64(1)).WillReturnError(errors.New("conn reset"))

		u, err := NewRepository(mock).FetchUserByID(ctx, 1)
		require.Error(t, err)
		assert.Nil(t, u)
	})
}

func TestRepository_CreateUser(t *testing.T) {
	ctx := context.Background()
	req := domain.User{
		Username:     "alice",
		FullName:     "Alice A",
		Email:        "a@x.com",
		PasswordHash: "$2a$hash",
		StoragePath:  "7c9e6679-7425-40de-944b-e07fc1f90ae7",
	}

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "created"},
		{
			name:    "duplicate username",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			wantErr: domain.ErrUsernameTaken,
		},
		{
			name:    "duplicate email",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantErr: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			exp := mock.ExpectQuery(InsertUser).
				WithArgs(req.Username, req.FullName, req.Email, req.PasswordHash, req.StoragePath)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(aliceRow(time.Now().UTC(), false))
			}

			u, err := NewRepository(mock).CreateUser(ctx, req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), u.ID)
			assert.False(t, u.IsAdmin)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CreateUser_OtherUniqueViolationIsWrapped(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(InsertUser).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_storage_path_key"})

	_, err := NewRepository(mock).CreateUser(context.Background(), domain.User{Username: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUsernameTaken)
	assert.NotErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRepository_FetchUsersUsage(t *testing.T) {
	mock := newMock(t)
	created := time.Now().UTC()
	cols := append(append([]string{}, userCols...), "count", "coalesce")
	mock.ExpectQuery(SelectUsersUsage).WillReturnRows(pgxmock.NewRows(cols).
		AddRow(int64(1), "alice", "Alice A", "a@x.com", "h", false, true, "ns-a", created, int64(2), int64(3*1024*1024)).
		AddRow(int64(2), "bob", "Bob B", "b@x.com", "h", true, true, "ns-b", created, int64(0), int64(0)),
	)

	us, err := NewRepository(mock).FetchUsersUsage(context.Background())
	require.NoError(t, err)
	require.Len(t, us, 2)
	assert.Equal(t, "alice", us[0].User.Username)
	assert.Equal(t, int64(2), us[0].FileCount)
	assert.Equal(t, 3.0, us[0].SizeMB())
	assert.True(t, us[1].User.IsAdmin)
	assert.Equal(t, int64(0), us[1].TotalBytes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ToggleAdmin(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(ToggleAdminByID).WithArgs(int64(1)).WillReturnRows(aliceRow(time.Now(), true))

	u, err := NewRepository(mock).ToggleAdmin(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(DeleteUserByID).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(DeleteUserByID).WithArgs(int64(2)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewRepository(mock)

	ok, err := repo.DeleteUser(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteUser(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}
