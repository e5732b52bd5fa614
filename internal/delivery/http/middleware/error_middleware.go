package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"studio-inquiry-backend/internal/delivery/http/response"
	"studio-inquiry-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error attached to the context into the wire body.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Never expose internal error details to clients
			log.Error("Unhandled error", "error", err, "path", c.Request.URL.Path, "request_id", c.GetString(RequestIDKey))
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
			return
		}

		if appErr.Code >= http.StatusInternalServerError && appErr.Err != nil {
			log.Error("Request failed", "kind", appErr.Kind, "error", appErr.Err, "request_id", c.GetString(RequestIDKey))
		}

		if appErr.Kind == apperror.KindValidationFailed {
			response.ValidationError(c, appErr.Code, appErr.Fields)
			return
		}
		response.Error(c, appErr.Code, appErr.Message)
	}
}
