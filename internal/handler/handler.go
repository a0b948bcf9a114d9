package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/reelbot/internal/config"
	"github.com/user/reelbot/internal/repository"
	"github.com/user/reelbot/internal/service"
)

// BotSender Telegram 出站接口（*tgbotapi.BotAPI 天然满足），测试时可替换
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler Telegram 更新处理器
type Handler struct {
	repos   *repository.Repositories
	cfg     *config.Config
	content service.ContentSource
	bot     BotSender
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, content service.ContentSource, bot BotSender) *Handler {
	return &Handler{
		repos:   repos,
		cfg:     cfg,
		content: content,
		bot:     bot,
	}
}
