// Package response renders application errors as JSON bodies.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/domain/apperr"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindForbidden:       http.StatusForbidden,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindInvalidInput:    http.StatusBadRequest,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindContentMissing:  http.StatusGone,
	apperr.KindStorageFailure:  http.StatusInternalServerError,
	apperr.KindInternal:        http.StatusInternalServerError,
}

func Status(kind apperr.Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error aborts the request with {"error", "code"[, "details"]}. Causes of
// server side failures go to the log only.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal(err)
	}

	status := Status(e.Kind)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.String("code", string(e.Kind)),
			zap.Error(err),
		)
	}

	body := gin.H{"error": e.Msg, "code": e.Kind}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	c.AbortWithStatusJSON(status, body)
}

// Invalid is a shortcut for a 400 with optional per-field details.
func Invalid(c *gin.Context, msg string, details map[string]string) {
	Error(c, nil, apperr.Invalid(msg, details))
}
