package services

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/apperr"
	"file-storage-api/internal/domain/user"
	domain "file-storage-api/internal/domain/user_file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
)

const (
	maxOriginalNameLen = 255
	defaultFileName    = "file"
)

type UserFileService struct {
	content            ports.ContentStore
	userFileRepository domain.Repository
	userRepository     user.Repository
	events             ports.EventPublisher
	logger             *zap.Logger
	mCounter           *prometheus.CounterVec
	now                func() time.Time
}

func NewUserFileService(
	content ports.ContentStore,
	userFileRepository domain.Repository,
	userRepository user.Repository,
	events ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.UserFileService {
	return &UserFileService{
		content:            content,
		userFileRepository: userFileRepository,
		userRepository:     userRepository,
		events:             events,
		logger:             logger,
		mCounter:           mCounter,
		now:                time.Now,
	}
}

func actorID(actor *access.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}

func filePayload(uf *domain.UserFile) mq.FilePayload {
	return mq.FilePayload{
		ID:           uf.ID,
		OwnerID:      uf.OwnerID,
		OriginalName: uf.OriginalName,
		Size:         uf.SizeBytes,
	}
}

// displayName picks the name shown to users: the explicit override when given,
// otherwise the last element of the client file name.
func displayName(fileName, override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	s := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if s == "." || s == "/" || s == "" {
		return defaultFileName
	}
	return s
}

func validateOriginalName(name string) error {
	if utf8.RuneCountInString(name) > maxOriginalNameLen {
		return apperr.Invalid("name is too long", map[string]string{"name": "at most 255 characters"})
	}
	return nil
}

func (ufs *UserFileService) Upload(ctx context.Context, actor *access.Actor, in ports.UploadInput) (*domain.UserFile, error) {
	if err := access.Check(actor, access.OpUploadFile, access.Target{OwnerID: actorID(actor)}); err != nil {
		return nil, err
	}
	if in.Content == nil {
		return nil, apperr.Invalid("file is required", map[string]string{"file": "required"})
	}
	name := displayName(in.FileName, in.DisplayName)
	if err := validateOriginalName(name); err != nil {
		return nil, err
	}

	owner, err := ufs.userRepository.FetchUserByID(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if owner == nil {
		return nil, apperr.Unauthenticated("account no longer exists")
	}

	rec := domain.New(owner.ID, name, in.Comment)

	if err = ufs.content.EnsureNamespace(ctx, owner.StoragePath); err != nil {
		return nil, apperr.Storage(err)
	}
	n, err := ufs.content.Write(ctx, owner.StoragePath, rec.StoredName, in.Content)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	rec.SizeBytes = n

	created, err := ufs.userFileRepository.CreateUserFile(ctx, rec)
	if err != nil {
		ufs.removeContent(ctx, owner.StoragePath, rec.StoredName)
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, apperr.Wrap(apperr.KindConflict, "file key collision, retry the upload", err)
		}
		return nil, apperr.Internal(err)
	}

	ufs.events.Publish(mq.NewEvent(mq.FileUploaded, actor.ID, filePayload(created)))
	ufs.mCounter.WithLabelValues(metrics.FileUploadedTotal).Inc()

	return created, nil
}

func (ufs *UserFileService) List(ctx context.Context, actor *access.Actor, userID *int64) (*ports.ListResult, error) {
	if actor == nil {
		return nil, access.Check(nil, access.OpListFiles, access.Target{})
	}
	ownerID, filtered := access.ListOwner(*actor, userID)
	if err := access.Check(actor, access.OpListFiles, access.Target{OwnerID: ownerID}); err != nil {
		return nil, err
	}

	res := new(ports.ListResult)
	if filtered {
		owner, err := ufs.userRepository.FetchUserByID(ctx, ownerID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if owner == nil {
			return nil, apperr.NotFound("user not found")
		}
		res.Owner = owner
	}

	files, err := ufs.userFileRepository.FetchUserFiles(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	res.Files = files

	return res, nil
}

// loadFile fetches the record and authorizes op on it. A missing record and a
// foreign record look the same to non-admins.
func (ufs *UserFileService) loadFile(ctx context.Context, actor *access.Actor, fileID int64, op access.Operation) (*domain.UserFile, error) {
	if actor == nil {
		return nil, access.Check(nil, op, access.Target{})
	}
	rec, err := ufs.userFileRepository.FetchUserFileByID(ctx, fileID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if rec == nil {
		return nil, access.Missing(actor)
	}
	if err = access.Check(actor, op, access.Target{OwnerID: rec.OwnerID}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (ufs *UserFileService) mutationError(actor *access.Actor, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return access.Missing(actor)
	}
	return apperr.Internal(err)
}

func (ufs *UserFileService) Rename(ctx context.Context, actor *access.Actor, fileID int64, newName string) (*domain.UserFile, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, apperr.Invalid("new name is required", map[string]string{"new_name": "must not be blank"})
	}
	if err := validateOriginalName(name); err != nil {
		return nil, err
	}

	if _, err := ufs.loadFile(ctx, actor, fileID, access.OpRenameFile); err != nil {
		return nil, err
	}
	updated, err := ufs.userFileRepository.UpdateOriginalName(ctx, fileID, name)
	if err != nil {
		return nil, ufs.mutationError(actor, err)
	}

	ufs.events.Publish(mq.NewEvent(mq.FileRenamed, actor.ID, filePayload(updated)))
	ufs.mCounter.WithLabelValues(metrics.FileRenamedTotal).Inc()

	return updated, nil
}

func (ufs *UserFileService) Comment(ctx context.Context, actor *access.Actor, fileID int64, comment string) (*domain.UserFile, error) {
	if _, err := ufs.loadFile(ctx, actor, fileID, access.OpCommentFile); err != nil {
		return nil, err
	}
	updated, err := ufs.userFileRepository.UpdateComment(ctx, fileID, comment)
	if err != nil {
		return nil, ufs.mutationError(actor, err)
	}

	ufs.events.Publish(mq.NewEvent(mq.FileCommented, actor.ID, filePayload(updated)))
	ufs.mCounter.WithLabelValues(metrics.FileCommentedTotal).Inc()

	return updated, nil
}

// Delete removes the content first, best effort, and then always the record.
func (ufs *UserFileService) Delete(ctx context.Context, actor *access.Actor, fileID int64) error {
	rec, err := ufs.loadFile(ctx, actor, fileID, access.OpDeleteFile)
	if err != nil {
		return err
	}

	owner, err := ufs.userRepository.FetchUserByID(ctx, rec.OwnerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if owner != nil {
		ufs.removeContent(ctx, owner.StoragePath, rec.StoredName)
	}

	if err = ufs.userFileRepository.DeleteUserFile(ctx, rec.ID); err != nil {
		return ufs.mutationError(actor, err)
	}

	ufs.events.Publish(mq.NewEvent(mq.FileDeleted, actor.ID, filePayload(rec)))
	ufs.mCounter.WithLabelValues(metrics.FileDeletedTotal).Inc()

	return nil
}

func (ufs *UserFileService) Download(ctx context.Context, actor *access.Actor, fileID int64) (*ports.Download, error) {
	rec, err := ufs.loadFile(ctx, actor, fileID, access.OpDownloadFile)
	if err != nil {
		return nil, err
	}
	return ufs.serve(ctx, rec, actor.ID)
}

// DownloadByLink needs no identity. Unknown and malformed links are both
// reported as not found.
func (ufs *UserFileService) DownloadByLink(ctx context.Context, link string) (*ports.Download, error) {
	if err := access.Check(nil, access.OpDownloadByLink, access.Target{}); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(link)
	if err != nil {
		return nil, apperr.NotFound("file not found")
	}
	rec, err := ufs.userFileRepository.FetchUserFileByLink(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if rec == nil {
		return nil, apperr.NotFound("file not found")
	}
	return ufs.serve(ctx, rec, 0)
}

func (ufs *UserFileService) serve(ctx context.Context, rec *domain.UserFile, actorID int64) (*ports.Download, error) {
	owner, err := ufs.userRepository.FetchUserByID(ctx, rec.OwnerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if owner == nil {
		return nil, apperr.NotFound("file not found")
	}

	rc, size, err := ufs.content.Open(ctx, owner.StoragePath, rec.StoredName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ufs.mCounter.WithLabelValues(metrics.ContentMissingTotal).Inc()
			ufs.logger.Warn("file content missing",
				zap.Int64("file_id", rec.ID),
				zap.String("stored_name", rec.StoredName),
			)
			return nil, apperr.Wrap(apperr.KindContentMissing, "file content is missing", err)
		}
		return nil, apperr.Storage(err)
	}

	if err = ufs.userFileRepository.TouchLastDownload(ctx, rec.ID, ufs.now().UTC()); err != nil {
		rc.Close()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("file not found")
		}
		return nil, apperr.Internal(err)
	}

	ufs.events.Publish(mq.NewEvent(mq.FileDownloaded, actorID, filePayload(rec)))
	ufs.mCounter.WithLabelValues(metrics.FileDownloadedTotal).Inc()

	return &ports.Download{
		Content:  rc,
		Size:     size,
		FileName: rec.OriginalName,
	}, nil
}

// PurgeUserFiles removes every file of owner: content first, log and continue
// on failure, then all records, then the namespace if it ended up empty.
func (ufs *UserFileService) PurgeUserFiles(ctx context.Context, owner *user.User) error {
	files, err := ufs.userFileRepository.FetchUserFiles(ctx, owner.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	for _, f := range files {
		ufs.removeContent(ctx, owner.StoragePath, f.StoredName)
	}
	if err = ufs.userFileRepository.DeleteUserFiles(ctx, owner.ID); err != nil {
		return apperr.Internal(err)
	}
	ufs.content.RemoveNamespaceIfEmpty(ctx, owner.StoragePath)

	ufs.logger.Info("user files purged", zap.Int64("user_id", owner.ID), zap.Int("count", len(files)))

	return nil
}

func (ufs *UserFileService) removeContent(ctx context.Context, namespace, storedName string) {
	if err := ufs.content.Remove(ctx, namespace, storedName); err != nil {
		ufs.mCounter.WithLabelValues(metrics.CleanupFailedTotal).Inc()
		ufs.logger.Warn("content cleanup failed",
			zap.String("namespace", namespace),
			zap.String("stored_name", storedName),
			zap.Error(err),
		)
	}
}
