package httpx

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseAccountID — идентификатор аккаунта из path-параметра name.
// Нечисловое значение или переполнение int64 дают 0: дальше такой аккаунт отклоняется как невалидный.
func ParseAccountID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
