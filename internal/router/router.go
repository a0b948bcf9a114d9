package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/reelbot/internal/config"
	"github.com/user/reelbot/internal/handler"
	"github.com/user/reelbot/internal/middleware"
)

// Setup 注册所有路由
func Setup(r *gin.Engine, h *handler.Handler, cfg *config.Config) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Telegram webhook（Telegram 只会 POST，其他方法直接 200 打发掉）
	r.Any("/webhook", h.Webhook)

	// 管理后台 API
	admin := r.Group("/admin")
	{
		admin.POST("/login", h.AdminLogin)

		authed := admin.Group("")
		authed.Use(middleware.RequireAuth(cfg.AppSecret))
		{
			authed.GET("/stats", h.AdminStats)
		}
	}
}
