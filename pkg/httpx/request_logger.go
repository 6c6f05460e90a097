package httpx

import (
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/gin-gonic/gin"
)

// RequestLogger — middleware для логирования HTTP-запросов.
// request_id и trace_id добавляет сам логгер из контекста.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// не логируем /metrics, /ping
		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := c.Writer.Status()
		logf := log.Infof
		if status >= 500 {
			logf = log.Errorf
		}
		logf(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			status,
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
