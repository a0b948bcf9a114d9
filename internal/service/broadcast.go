package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/reelbot/internal/config"
	"github.com/user/reelbot/internal/model"
	"github.com/user/reelbot/internal/repository"
)

// ContentSource 内容列表来源
type ContentSource interface {
	FetchList(ctx context.Context, category Category, contentType, genre string, page int) *ContentPage
}

// MessageSender 出站消息发送方（*tgbotapi.BotAPI 天然满足）
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Broadcaster 每日新片广播服务
type Broadcaster struct {
	repos   *repository.Repositories
	content ContentSource
	sender  MessageSender
	cfg     *config.Config
}

// NewBroadcaster 创建广播服务
func NewBroadcaster(repos *repository.Repositories, content ContentSource, sender MessageSender, cfg *config.Config) *Broadcaster {
	return &Broadcaster{
		repos:   repos,
		content: content,
		sender:  sender,
		cfg:     cfg,
	}
}

// Start 启动定时广播任务，每天在配置的整点运行一次
func (b *Broadcaster) Start() {
	go func() {
		for {
			next := nextRunAt(time.Now().UTC(), b.cfg.BroadcastHour)
			log.Printf("[Broadcaster] 下次广播时间: %s", next.Format(time.RFC3339))
			time.Sleep(time.Until(next))
			b.Run(context.Background())
		}
	}()
}

// nextRunAt 计算下一个目标整点
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run 执行一轮广播：逐个用户发送按题材过滤的新片，再给频道发送通用榜单
// 单个用户失败只记录并跳过，不重试
func (b *Broadcaster) Run(ctx context.Context) {
	log.Println("[Broadcaster] 开始每日广播...")

	users, err := b.repos.User.ListActive()
	if err != nil {
		log.Printf("[Broadcaster] 获取用户列表失败: %v", err)
		return
	}

	sent := 0
	for _, user := range users {
		if user.Genre == "" {
			continue
		}
		page := b.content.FetchList(ctx, CategoryNewReleases, user.ContentType, user.Genre, 1)
		if len(page.Items) == 0 {
			continue
		}

		msg := tgbotapi.NewMessage(user.TelegramID, formatDigest(user.Genre, user.ContentType, page.Items))
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := b.sender.Send(msg); err != nil {
			log.Printf("[Broadcaster] 发送给用户 %d 失败: %v", user.TelegramID, err)
			if isBlockedErr(err) {
				if markErr := b.repos.User.MarkBlocked(user.TelegramID); markErr != nil {
					log.Printf("[Broadcaster] 标记屏蔽状态失败: %v", markErr)
				}
			}
			continue
		}
		sent++
	}

	// 频道通用广播（未配置则跳过）
	if b.cfg.ChannelID != 0 {
		page := b.content.FetchList(ctx, CategoryNewReleases, model.ContentTypeMovie, "", 1)
		if len(page.Items) > 0 {
			msg := tgbotapi.NewMessage(b.cfg.ChannelID, formatDigest("", model.ContentTypeMovie, page.Items))
			msg.ParseMode = tgbotapi.ModeHTML
			if _, err := b.sender.Send(msg); err != nil {
				log.Printf("[Broadcaster] 发送到频道失败: %v", err)
			}
		}
	}

	log.Printf("[Broadcaster] 广播完成，成功发送 %d/%d 个用户", sent, len(users))
}

// formatDigest 拼装每日摘要（HTML）
func formatDigest(genre, contentType string, items []ContentItem) string {
	var sb strings.Builder

	label := "Movie"
	if contentType == model.ContentTypeSeries {
		label = "TV Series"
	}
	if genre != "" {
		sb.WriteString(fmt.Sprintf("🎬 Daily %s %s Updates:\n\n", titleCase(genre), label))
	} else {
		sb.WriteString(fmt.Sprintf("🎬 Daily %s Updates:\n\n", label))
	}

	for _, item := range items {
		sb.WriteString(fmt.Sprintf("🎭 <b>%s</b> (%s)\n", item.Title, item.Year))
		sb.WriteString(fmt.Sprintf("⭐ Rating: %s/10\n", item.Rating))
		plot := item.Plot
		if r := []rune(plot); len(r) > 150 {
			plot = string(r[:150]) + "..."
		}
		sb.WriteString(fmt.Sprintf("📝 %s\n\n", plot))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// titleCase 首字母大写
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// isBlockedErr 判断发送失败是否因为用户屏蔽/注销
func isBlockedErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "blocked") || strings.Contains(msg, "deactivated")
}
