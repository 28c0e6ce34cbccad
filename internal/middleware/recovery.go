package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/view"
	"github.com/ping-crm/dashboard/pkg/response"
)

const msgUnexpected = "Something went wrong. Please try again."

// Recovery turns a panic into a 500 page (or JSON body on /api/ routes).
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(ContextRequestID)),
		)
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			response.Internal(c, msgUnexpected)
			c.Abort()
			return
		}
		c.HTML(http.StatusInternalServerError, "error.html", view.Page{Title: "Error", Error: msgUnexpected})
		c.Abort()
	})
}
