package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/interface/api/rest/dto/auth"
	"file-storage-api/internal/interface/api/rest/dto/user"
	"file-storage-api/internal/interface/api/rest/middleware"
	"file-storage-api/internal/interface/api/rest/response"
	"file-storage-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	userService ports.UserService
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		userService: userService,
		authService: authService,
	}

	authMW := middleware.AuthMiddleware(authService, logger)

	r.POST(RouteRegister, ac.RegisterHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, authMW, ac.LogoutHandler)
	r.GET(RouteProfile, authMW, ac.ProfileHandler)

	return ac
}

// RegisterHandler creates the account and logs it in right away.
func (ac *AuthController) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, "invalid json", nil)
		return
	}
	if errs := validator.ValidateRegister(req); errs != nil {
		response.Invalid(c, "invalid request body", errs)
		return
	}

	u, err := ac.userService.Register(c.Request.Context(), ports.RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, ac.logger, err)
		return
	}

	token, err := ac.authService.IssueToken(u)
	if err != nil {
		response.Error(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusCreated, auth.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenTypeBearer,
		User:        user.ToResponseUser(*u),
	})
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, "invalid json", nil)
		return
	}
	if errs := validator.ValidateLogin(req); errs != nil {
		response.Invalid(c, "invalid request body", errs)
		return
	}

	token, u, err := ac.authService.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		response.Error(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenTypeBearer,
		User:        user.ToResponseUser(*u),
	})
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	if err := ac.authService.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		response.Error(c, ac.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ac *AuthController) ProfileHandler(c *gin.Context) {
	u, err := ac.userService.Profile(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		response.Error(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}
