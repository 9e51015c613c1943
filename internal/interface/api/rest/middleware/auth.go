package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/apperr"
	"file-storage-api/internal/domain/user"
	"file-storage-api/internal/interface/api/rest/response"
)

const (
	CtxUser  = "user"
	CtxToken = "token"
)

// Authenticator resolves a bearer token to the current user record.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*user.User, error)
}

func AuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, logger, apperr.Unauthenticated("missing Authorization header"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || strings.TrimSpace(tokenStr) == "" {
			response.Error(c, logger, apperr.Unauthenticated("invalid token format"))
			return
		}

		u, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			response.Error(c, logger, err)
			return
		}

		c.Set(CtxUser, u)
		c.Set(CtxToken, tokenStr)

		c.Next()
	}
}

// CurrentUser is nil outside of AuthMiddleware.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

func Actor(c *gin.Context) *access.Actor {
	u := CurrentUser(c)
	if u == nil {
		return nil
	}
	return &access.Actor{ID: u.ID, IsAdmin: u.IsAdmin}
}

func Token(c *gin.Context) string {
	return c.GetString(CtxToken)
}
