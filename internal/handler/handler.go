package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fairway/backend/internal/hub"
	"fairway/backend/internal/photo"
	"fairway/backend/internal/service"
	"fairway/backend/internal/settings"
	"fairway/backend/internal/storage"
	"fairway/backend/pkg/logger"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse is returned by actions that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message" example:"Done"`
}

// Handler serves the HTTP API on top of the services.
type Handler struct {
	Profiles *service.ProfileService
	Follows  service.FollowService
	Rounds   *service.RoundService
	Social   *service.SocialService
	Feed     *service.FeedService
	Courses  *service.CourseService
	Admin    *service.AdminService
	Settings *settings.Provider
	Hub      *hub.Hub

	// MaxUploadBytes caps a single uploaded file before compression.
	MaxUploadBytes int64
}

var errConfirmationRequired = errors.New("confirmation required: repeat the request with confirm=true")

// confirmed reports whether a destructive request carries confirm=true and answers 428 if not.
func confirmed(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	c.JSON(http.StatusPreconditionRequired, gin.H{"error": errConfirmationRequired.Error()})
	return false
}

// respondError maps service errors onto status codes. Unknown errors are logged and
// reported without detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrInvalidReaction),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrCommentTooLong),
		errors.Is(err, service.ErrMissingScore),
		errors.Is(err, service.ErrInvalidRound),
		errors.Is(err, service.ErrInvalidCourse),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidList),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, settings.ErrInvalid),
		errors.Is(err, photo.ErrTooLarge),
		errors.Is(err, photo.ErrDecode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Uploads are not available"})
	default:
		_ = c.Error(err)
		if sh := sentrygin.GetHubFromContext(c); sh != nil {
			sh.CaptureException(err)
		}
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

var errFileTooLarge = fmt.Errorf("%w: upload exceeds the size limit", photo.ErrTooLarge)

// readUpload reads one multipart file, refusing anything over MaxUploadBytes.
func (h *Handler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		return nil, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := io.Reader(f)
	if h.MaxUploadBytes > 0 {
		r = io.LimitReader(f, h.MaxUploadBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if h.MaxUploadBytes > 0 && int64(len(data)) > h.MaxUploadBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}
