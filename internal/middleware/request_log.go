package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/logger"
)

// RequestLogger logs one line per request through the structured logger.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
