package httpx

import (
	"strings"

	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID    = "X-Request-ID"
	maxRequestIDLength = 64
)

// NormalizeRequestID — id от клиента или продюсера, если он пригоден для логов, иначе новый UUID.
// Пригоден: после обрезки пробелов не пуст, не длиннее 64 байт, только видимые ASCII-символы.
func NormalizeRequestID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLength {
		return uuid.NewString()
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return uuid.NewString()
		}
	}
	return id
}

// RequestIDMiddleware кладёт request_id в контекст запроса и в ответный X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := NormalizeRequestID(c.GetHeader(HeaderRequestID))
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
