package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// BodyLimit 限制请求体大小为 maxBytes 字节
// 超限读取由 MaxBytesReader 截断，这里统一转成 413 响应
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
