package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/logger"
)

// ErrorHandler renders the last error attached to the context with
// c.Error as the standard {"error": {code, message}} body. Anything that is
// not an AppError becomes INTERNAL_ERROR so driver messages never reach
// clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := resolveError(c, c.Errors.Last().Err)
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{"code": appErr.Code, "message": appErr.Message},
		})
	}
}

func resolveError(c *gin.Context, err error) *apperrors.AppError {
	log := logger.Named("http").With("method", c.Request.Method, "path", c.FullPath())

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unhandled error", "error", err)
		return apperrors.ErrInternalServer
	}
	if appErr.Internal != nil {
		log.Errorw("request failed", "code", appErr.Code, "error", appErr.Internal)
	}
	return appErr
}

// AbortWithError writes err in the standard error body and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	appErr := resolveError(c, err)
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}
