// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"ai-content-gen-api/internal/interfaces/http/handler"
	"ai-content-gen-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, generationHandler *handler.GenerationHandler) {
	v1.GET("/options", generationHandler.Options)

	// 会话
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", generationHandler.CreateSession)

		session := sessions.Group("/:sid", middleware.SessionParam())
		{
			session.POST("/generations", generationHandler.Generate)
			session.GET("/view", generationHandler.View)
			session.GET("/download", generationHandler.Download)

			// 历史记录
			session.GET("/history", generationHandler.History)
			session.POST("/history/:id/select", generationHandler.SelectHistory)
		}
	}
}

// RegisterPageRoutes 注册表单页路由
func RegisterPageRoutes(page *gin.RouterGroup, pageHandler *handler.PageHandler) {
	page.GET("/", pageHandler.Index)
	page.POST("/generate", pageHandler.Generate)
	page.POST("/history/:id/select", pageHandler.SelectHistory)
	page.GET("/download", pageHandler.Download)
}
