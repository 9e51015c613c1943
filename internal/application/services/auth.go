package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/apperr"
	"file-storage-api/internal/domain/token"
	"file-storage-api/internal/domain/user"
	"file-storage-api/internal/infrastructure/jwt"
	"file-storage-api/internal/infrastructure/metrics"
)

const revokedCacheSize = 4096

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// dummyHash keeps the unknown-user path as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

type AuthService struct {
	jwtService      *jwt.Service
	userRepository  user.Repository
	tokenRepository token.Repository
	revoked         *expirable.LRU[uuid.UUID, struct{}]
	ttl             time.Duration
	logger          *zap.Logger
	mCounter        *prometheus.CounterVec
}

func NewAuthService(
	jwtService *jwt.Service,
	userRepository user.Repository,
	tokenRepository token.Repository,
	ttl time.Duration,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.Auth {
	return &AuthService{
		jwtService:      jwtService,
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		revoked:         expirable.NewLRU[uuid.UUID, struct{}](revokedCacheSize, nil, ttl),
		ttl:             ttl,
		logger:          logger,
		mCounter:        mCounter,
	}
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := as.userRepository.FetchUserByUsername(ctx, username)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		as.mCounter.WithLabelValues(metrics.LoginFailedTotal).Inc()
		return "", nil, apperr.Wrap(apperr.KindUnauthenticated, ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}
	if err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		as.mCounter.WithLabelValues(metrics.LoginFailedTotal).Inc()
		return "", nil, apperr.Wrap(apperr.KindUnauthenticated, ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}
	if !u.IsActive {
		return "", nil, apperr.Wrap(apperr.KindUnauthenticated, ErrAccountDisabled.Error(), ErrAccountDisabled)
	}

	tok, err := as.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (as *AuthService) IssueToken(u *user.User) (string, error) {
	tok, err := as.jwtService.GenerateJWT(u.ID, jwt.RoleOf(u.IsAdmin), as.ttl)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return tok, nil
}

func (as *AuthService) claims(ctx context.Context, bearer string) (*jwt.Claims, error) {
	c, err := as.jwtService.ValidateToken(bearer)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired token", err)
	}

	jti := c.TokenID()
	if as.revoked.Contains(jti) {
		return nil, apperr.Unauthenticated("token has been revoked")
	}
	revoked, err := as.tokenRepository.IsRevoked(ctx, jti)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		as.revoked.Add(jti, struct{}{})
		return nil, apperr.Unauthenticated("token has been revoked")
	}

	return c, nil
}

// Authenticate resolves a bearer token to the current user record, so role
// changes and deactivation take effect on the next request.
func (as *AuthService) Authenticate(ctx context.Context, bearer string) (*user.User, error) {
	c, err := as.claims(ctx, bearer)
	if err != nil {
		return nil, err
	}

	u, err := as.userRepository.FetchUserByID(ctx, c.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.Unauthenticated("account no longer exists")
	}
	if !u.IsActive {
		return nil, apperr.Unauthenticated(ErrAccountDisabled.Error())
	}

	return u, nil
}

func (as *AuthService) Logout(ctx context.Context, bearer string) error {
	c, err := as.claims(ctx, bearer)
	if err != nil {
		return err
	}

	jti := c.TokenID()
	if err = as.tokenRepository.Revoke(ctx, jti, c.Expiry()); err != nil {
		return apperr.Internal(err)
	}
	as.revoked.Add(jti, struct{}{})

	as.logger.Debug("token revoked", zap.Int64("user_id", c.UserID), zap.String("jti", jti.String()))

	return nil
}
