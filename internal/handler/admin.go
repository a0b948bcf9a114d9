package handler

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/user/reelbot/internal/middleware"
	"github.com/user/reelbot/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// 管理员密码哈希在设置表里的键
const adminPasswordKey = "admin_password_hash"

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6"`
}

// AdminLogin 管理员登录，校验通过后签发 JWT
func (h *Handler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "用户名或密码格式不正确")
		return
	}

	hash, err := h.repos.Setting.Get(adminPasswordKey)
	if err != nil {
		log.Printf("[Admin] 读取管理员密码失败: %v", err)
		utils.InternalError(c, "服务器内部错误")
		return
	}
	if hash == "" {
		// 从未设置过管理员密码，登录入口直接关闭
		utils.Unauthorized(c, "管理后台未启用")
		return
	}

	if req.Username != "admin" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		utils.Unauthorized(c, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(req.Username, "admin", h.cfg.AppSecret, h.cfg.JWTExpiry)
	if err != nil {
		log.Printf("[Admin] 签发 Token 失败: %v", err)
		utils.InternalError(c, "服务器内部错误")
		return
	}

	utils.Success(c, gin.H{
		"token":      token,
		"expires_in": int(h.cfg.JWTExpiry.Seconds()),
	})
}

// AdminStats 管理后台统计数据
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.repos.Analytics.Stats()
	if err != nil {
		log.Printf("[Admin] 统计查询失败: %v", err)
		utils.InternalError(c, "统计查询失败")
		return
	}
	utils.Success(c, stats)
}
