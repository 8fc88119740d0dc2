package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// 外部传入的 Request-ID 超过此长度时丢弃重新生成，防止日志注入
const requestIDMaxLen = 64

// RequestID 为每个请求分配追踪 ID
// 优先沿用请求头 X-Request-ID，缺失或非法时生成 UUID，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
