package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	KeySessionID    = "session_id"
)

// RequestID 透传或生成请求 ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Session 保证每个浏览器有一个会话 cookie，用于缓存最近一次查询
func Session(cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie, sid, 0, "/", "", false, true)
		}
		c.Set(KeySessionID, sid)
		c.Next()
	}
}
