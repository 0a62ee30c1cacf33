// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-content-gen-api/internal/domain/entity"
	"ai-content-gen-api/pkg/logger"
)

const (
	// SessionCookieName 表单页使用的会话 Cookie
	SessionCookieName = "cg_session"
	// sessionContextKey gin.Context 中保存会话 ID 的键
	sessionContextKey = "session_id"
)

// SessionEnsurer 会话不存在时创建
type SessionEnsurer interface {
	EnsureSession(ctx context.Context, sessionID string) (*entity.SessionView, error)
}

// SessionParam 将路径中的 :sid 注入日志上下文
func SessionParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid := c.Param("sid"); sid != "" {
			c.Set(sessionContextKey, sid)
			ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sid)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// SessionCookie 表单页会话：从 Cookie 读取，不存在则签发新的会话
func SessionCookie(sessions SessionEnsurer, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
		}

		ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sid)
		c.Request = c.Request.WithContext(ctx)

		if _, err := sessions.EnsureSession(ctx, sid); err != nil {
			logger.Error(ctx, "failed to ensure page session", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, sid, maxAge, "/", "", false, true)
		c.Set(sessionContextKey, sid)
		c.Next()
	}
}

// GetSessionID 获取当前请求的会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
