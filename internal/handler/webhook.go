package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Webhook Telegram webhook 入口
// 无论处理成败一律返回 200，否则 Telegram 会不停重投同一条更新
func (h *Handler) Webhook(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusOK, "OK")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		log.Printf("[Webhook] 解析更新失败: %v", err)
		c.String(http.StatusOK, "OK")
		return
	}

	h.Dispatch(c.Request.Context(), &update)
	c.String(http.StatusOK, "OK")
}

// Dispatch 分发单条更新，panic 不能影响 webhook 响应
func (h *Handler) Dispatch(ctx context.Context, update *tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Webhook] 处理更新 %d 时 panic: %v", update.UpdateID, r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(update.Message)
	}
}
