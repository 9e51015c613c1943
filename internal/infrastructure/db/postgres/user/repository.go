package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"file-storage-api/internal/domain/user"
	"file-storage-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.IsActive,
		&u.StoragePath,

		&u.CreatedAt,
	); err != nil {
		return nil, err
	}

	return u, nil
}

// fetchOne maps pgx.ErrNoRows to (nil, nil).
func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, id)
}

func (r *Repository) FetchUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByUsername, username)
}

func (r *Repository) FetchUsersUsage(ctx context.Context) (user.Usages, error) {
	rows, err := r.db.Query(ctx, SelectUsersUsage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var us Usages
	for rows.Next() {
		u := new(Usage)

		if err = rows.Scan(
			&u.ID,
			&u.Username,
			&u.FullName,
			&u.Email,
			&u.PasswordHash,
			&u.IsAdmin,
			&u.IsActive,
			&u.StoragePath,

			&u.CreatedAt,

			&u.FileCount,
			&u.TotalBytes,
		); err != nil {
			return nil, err
		}

		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBUsages(us), nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		req.Username, req.FullName, req.Email, req.PasswordHash, req.StoragePath,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			switch postgres.ViolatedConstraint(err) {
			case constraintUsername:
				return nil, user.ErrUsernameTaken
			case constraintEmail:
				return nil, user.ErrEmailTaken
			}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return fromDBModel(u), nil
}

func (r *Repository) ToggleAdmin(ctx context.Context, id user.ID) (*user.User, error) {
	return r.fetchOne(ctx, ToggleAdminByID, id)
}

func (r *Repository) DeleteUser(ctx context.Context, id user.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteUserByID, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
