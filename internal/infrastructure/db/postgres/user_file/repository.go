package user_file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"file-storage-api/internal/domain/user"
	"file-storage-api/internal/domain/user_file"
	"file-storage-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user_file.Repository {
	return &Repository{db: db}
}

func scanUserFile(row pgx.Row) (*UserFile, error) {
	uf := new(UserFile)
	if err := row.Scan(
		&uf.ID,
		&uf.UserID,

		&uf.OriginalName,
		&uf.StoredName,
		&uf.Comment,
		&uf.Size,

		&uf.UploadDate,
		&uf.LastDownload,
		&uf.SpecialLink,
	); err != nil {
		return nil, err
	}

	return uf, nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user_file.UserFile, error) {
	uf, err := scanUserFile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(uf), nil
}

// updateOne is fetchOne for mutations: a missing row is an error.
func (r *Repository) updateOne(ctx context.Context, query string, args ...any) (*user_file.UserFile, error) {
	uf, err := r.fetchOne(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if uf == nil {
		return nil, user_file.ErrNotFound
	}

	return uf, nil
}

func (r *Repository) FetchUserFiles(ctx context.Context, ownerID user.ID) (user_file.UserFiles, error) {
	rows, err := r.db.Query(ctx, SelectUserFiles, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ufs := make(UserFiles, 0)
	for rows.Next() {
		uf, err := scanUserFile(rows)
		if err != nil {
			return nil, err
		}

		ufs = append(ufs, uf)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(ufs), nil
}

func (r *Repository) FetchUserFileByID(ctx context.Context, id int64) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, SelectUserFileByID, id)
}

func (r *Repository) FetchUserFileByLink(ctx context.Context, link uuid.UUID) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, SelectUserFileByLink, link)
}

func (r *Repository) CreateUserFile(ctx context.Context, req *user_file.UserFile) (*user_file.UserFile, error) {
	uf, err := scanUserFile(r.db.QueryRow(
		ctx,
		InsertUserFile,
		req.OwnerID, req.OriginalName, req.StoredName, req.Comment, req.SizeBytes, req.SpecialLink,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", user_file.ErrDuplicateKey, postgres.ViolatedConstraint(err))
		}
		return nil, fmt.Errorf("insert user file: %w", err)
	}

	return fromDBModel(uf), nil
}

func (r *Repository) UpdateOriginalName(ctx context.Context, id int64, name string) (*user_file.UserFile, error) {
	return r.updateOne(ctx, UpdateOriginalNameByID, name, id)
}

func (r *Repository) UpdateComment(ctx context.Context, id int64, comment string) (*user_file.UserFile, error) {
	return r.updateOne(ctx, UpdateCommentByID, comment, id)
}

func (r *Repository) TouchLastDownload(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, UpdateLastDownloadByID, at, id)
}

func (r *Repository) DeleteUserFile(ctx context.Context, id int64) error {
	return r.execOne(ctx, DeleteUserFileByID, id)
}

func (r *Repository) DeleteUserFiles(ctx context.Context, ownerID user.ID) error {
	_, err := r.db.Exec(ctx, DeleteUserFilesByOwner, ownerID)
	return err
}

func (r *Repository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user_file.ErrNotFound
	}

	return nil
}
