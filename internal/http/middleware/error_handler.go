package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bazaar-gateway/internal/logger"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: хэндлеры кладут ошибку
// в контекст, а ответ клиенту формируется здесь по её типу. Внутренние
// ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		var vErr *apperror.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "ошибка валидации",
				"fields": vErr.Fields,
			})
			return
		}

		var remote *apperror.RemoteCommandError
		if errors.As(err, &remote) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  remote.Error(),
				"reason": remote.Reason,
				"action": remote.Action,
			})
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
	}
}
