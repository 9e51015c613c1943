package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/apperr"
	domain "file-storage-api/internal/domain/user"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
)

type UserService struct {
	userRepository domain.Repository
	content        ports.ContentStore
	files          ports.FilePurger
	events         ports.EventPublisher
	logger         *zap.Logger
	mCounter       *prometheus.CounterVec
	bcryptCost     int
}

func NewUserService(
	userRepository domain.Repository,
	content ports.ContentStore,
	files ports.FilePurger,
	events ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		content:        content,
		files:          files,
		events:         events,
		logger:         logger,
		mCounter:       mCounter,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

func userPayload(u *domain.User) mq.UserPayload {
	return mq.UserPayload{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// Register stores a new regular user. Field shape is validated by the caller;
// uniqueness is decided by the database constraints only.
func (us *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), us.bcryptCost)
	if err != nil {
		return nil, apperr.Invalid("password cannot be used", map[string]string{"password": err.Error()})
	}

	created, err := us.userRepository.CreateUser(ctx, domain.User{
		Username:     strings.TrimSpace(in.Username),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		IsActive:     true,
		StoragePath:  us.content.NewNamespace(),
	})
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return nil, apperr.Conflict("username already taken")
	case errors.Is(err, domain.ErrEmailTaken):
		return nil, apperr.Conflict("email already registered")
	case err != nil:
		return nil, apperr.Internal(err)
	}

	us.events.Publish(mq.NewEvent(mq.UserRegistered, created.ID, userPayload(created)))
	us.mCounter.WithLabelValues(metrics.UserRegisteredTotal).Inc()

	return created, nil
}

func (us *UserService) Profile(ctx context.Context, actor *access.Actor) (*domain.User, error) {
	if actor == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	u, err := us.userRepository.FetchUserByID(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (us *UserService) ListUsers(ctx context.Context, actor *access.Actor) (domain.Usages, error) {
	if err := access.Check(actor, access.OpListUsers, access.Target{}); err != nil {
		return nil, err
	}
	usages, err := us.userRepository.FetchUsersUsage(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return usages, nil
}

// ToggleAdminRole flips is_admin in one statement. An admin may toggle their
// own flag.
func (us *UserService) ToggleAdminRole(ctx context.Context, actor *access.Actor, targetID domain.ID) (*domain.User, error) {
	if err := access.Check(actor, access.OpToggleAdmin, access.Target{UserID: targetID}); err != nil {
		return nil, err
	}
	u, err := us.userRepository.ToggleAdmin(ctx, targetID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	us.events.Publish(mq.NewEvent(mq.UserAdminToggled, actor.ID, userPayload(u)))
	us.mCounter.WithLabelValues(metrics.UserAdminToggledTotal).Inc()

	return u, nil
}

// DeleteUser purges the target's files and then the user row.
func (us *UserService) DeleteUser(ctx context.Context, actor *access.Actor, targetID domain.ID) error {
	if err := access.Check(actor, access.OpDeleteUser, access.Target{UserID: targetID}); err != nil {
		return err
	}
	target, err := us.userRepository.FetchUserByID(ctx, targetID)
	if err != nil {
		return apperr.Internal(err)
	}
	if target == nil {
		return apperr.NotFound("user not found")
	}

	if err = us.files.PurgeUserFiles(ctx, target); err != nil {
		return err
	}
	deleted, err := us.userRepository.DeleteUser(ctx, target.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return apperr.NotFound("user not found")
	}

	us.logger.Info("user deleted", zap.Int64("user_id", target.ID), zap.Int64("by", actor.ID))
	us.events.Publish(mq.NewEvent(mq.UserDeleted, actor.ID, userPayload(target)))
	us.mCounter.WithLabelValues(metrics.UserDeletedTotal).Inc()

	return nil
}
