package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/interface/api/rest/dto/user"
	"file-storage-api/internal/interface/api/rest/middleware"
	"file-storage-api/internal/interface/api/rest/response"
	"file-storage-api/internal/interface/api/rest/validator"
)

// UserController is the admin surface. Role checks live in the service.
type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	auth middleware.Authenticator,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	authMW := middleware.AuthMiddleware(auth, logger)

	r.GET(RouteUsers, authMW, uc.GetUsersHandler)
	r.DELETE(RouteUser, authMW, uc.DeleteUserHandler)
	r.POST(RouteUserToggleAdmin, authMW, uc.ToggleAdminHandler)

	return uc
}

func (uc *UserController) GetUsersHandler(c *gin.Context) {
	usages, err := uc.userService.ListUsers(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		response.Error(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsages(usages),
	})
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("user_id"))
	if !ok {
		response.Invalid(c, "user_id must be a positive integer", nil)
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.Error(c, uc.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (uc *UserController) ToggleAdminHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("user_id"))
	if !ok {
		response.Invalid(c, "user_id must be a positive integer", nil)
		return
	}

	u, err := uc.userService.ToggleAdminRole(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.Error(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}
