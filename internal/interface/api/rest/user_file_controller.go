package rest

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/apperr"
	"file-storage-api/internal/interface/api/rest/dto/user"
	"file-storage-api/internal/interface/api/rest/dto/user_file"
	"file-storage-api/internal/interface/api/rest/middleware"
	"file-storage-api/internal/interface/api/rest/response"
	"file-storage-api/internal/interface/api/rest/validator"
)

const (
	formFile    = "file"
	formComment = "comment"
	formName    = "name"

	defaultContentType = "application/octet-stream"
)

type UserFileController struct {
	userFileService ports.UserFileService
	logger          *zap.Logger
	// maxUploadBytes caps the whole multipart body, 0 disables the cap.
	maxUploadBytes int64
}

func NewUserFileController(
	r *gin.Engine,
	userFileService ports.UserFileService,
	logger *zap.Logger,
	auth middleware.Authenticator,
	maxUploadBytes int64,
) *UserFileController {
	ufc := &UserFileController{
		userFileService: userFileService,
		logger:          logger,
		maxUploadBytes:  maxUploadBytes,
	}

	authMW := middleware.AuthMiddleware(auth, logger)

	r.GET(RouteFiles, authMW, ufc.GetUserFilesHandler)
	r.POST(RouteFiles, authMW, ufc.UploadUserFileHandler)
	r.DELETE(RouteFile, authMW, ufc.DeleteUserFileHandler)
	r.POST(RouteFileRename, authMW, ufc.RenameUserFileHandler)
	r.POST(RouteFileComment, authMW, ufc.CommentUserFileHandler)
	r.GET(RouteFileDownload, authMW, ufc.DownloadUserFileHandler)
	// public
	r.GET(RouteFileByLink, ufc.DownloadByLinkHandler)

	return ufc
}

func (ufc *UserFileController) GetUserFilesHandler(c *gin.Context) {
	userID, ok := validator.ParseOptionalID(c.Query("user_id"))
	if !ok {
		response.Invalid(c, "user_id must be a positive integer", nil)
		return
	}

	res, err := ufc.userFileService.List(c.Request.Context(), middleware.Actor(c), userID)
	if err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	out := user_file.ResponseData{
		Data: user_file.ToResponseUserFiles(res.Files, SpecialLinkPath),
	}
	if res.Owner != nil {
		owner := user.ToResponseUser(*res.Owner)
		out.Owner = &owner
	}

	c.JSON(http.StatusOK, out)
}

func (ufc *UserFileController) UploadUserFileHandler(c *gin.Context) {
	if ufc.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ufc.maxUploadBytes)
	}

	fh, err := c.FormFile(formFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "file is too large",
				"code":  apperr.KindInvalidInput,
			})
			return
		}
		response.Invalid(c, "file is required", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, ufc.logger, apperr.Internal(err))
		return
	}
	defer f.Close()

	uf, err := ufc.userFileService.Upload(c.Request.Context(), middleware.Actor(c), ports.UploadInput{
		Content:     f,
		FileName:    fh.Filename,
		DisplayName: c.PostForm(formName),
		Comment:     c.PostForm(formComment),
	})
	if err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user_file.ToResponseUserFile(*uf, SpecialLinkPath))
}

func (ufc *UserFileController) DeleteUserFileHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Invalid(c, "file_id must be a positive integer", nil)
		return
	}

	if err := ufc.userFileService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ufc *UserFileController) RenameUserFileHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Invalid(c, "file_id must be a positive integer", nil)
		return
	}

	var req user_file.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, "invalid json", nil)
		return
	}

	uf, err := ufc.userFileService.Rename(c.Request.Context(), middleware.Actor(c), id, req.NewName)
	if err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	c.JSON(http.StatusOK, user_file.ToResponseUserFile(*uf, SpecialLinkPath))
}

func (ufc *UserFileController) CommentUserFileHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Invalid(c, "file_id must be a positive integer", nil)
		return
	}

	var req user_file.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, "invalid json", nil)
		return
	}
	if req.Comment == nil {
		response.Invalid(c, "invalid request body", map[string]string{"comment": "comment is required"})
		return
	}

	uf, err := ufc.userFileService.Comment(c.Request.Context(), middleware.Actor(c), id, *req.Comment)
	if err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	c.JSON(http.StatusOK, user_file.ToResponseUserFile(*uf, SpecialLinkPath))
}

func (ufc *UserFileController) DownloadUserFileHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Invalid(c, "file_id must be a positive integer", nil)
		return
	}

	d, err := ufc.userFileService.Download(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	ufc.stream(c, d)
}

func (ufc *UserFileController) DownloadByLinkHandler(c *gin.Context) {
	d, err := ufc.userFileService.DownloadByLink(c.Request.Context(), c.Param("special_link"))
	if err != nil {
		response.Error(c, ufc.logger, err)
		return
	}

	ufc.stream(c, d)
}

// stream always sends the file as an attachment named after original_name.
func (ufc *UserFileController) stream(c *gin.Context, d *ports.Download) {
	defer d.Content.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": d.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	contentType := mime.TypeByExtension(path.Ext(d.FileName))
	if contentType == "" {
		contentType = defaultContentType
	}

	c.DataFromReader(http.StatusOK, d.Size, contentType, d.Content, map[string]string{
		"Content-Disposition":    disposition,
		"X-Content-Type-Options": "nosniff",
	})
}
