package handler

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/reelbot/internal/model"
	"github.com/user/reelbot/internal/utils"
)

// handleMessage 处理普通消息和命令
func (h *Handler) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// /stop 不能先 upsert，否则"未订阅"状态就被重新创建覆盖了
	if msg.IsCommand() && msg.Command() == "stop" {
		h.cmdStop(msg.Chat.ID, msg.From.ID)
		return
	}

	user, err := h.upsertFrom(msg.From)
	if err != nil {
		log.Printf("[Handler] 保存用户 %d 失败: %v", msg.From.ID, err)
		return
	}

	msgType := "text"
	if msg.IsCommand() {
		msgType = "command"
	}
	h.logMessage(user, int64(msg.MessageID), msg.Text, msgType)

	if !msg.IsCommand() {
		// 非命令文本：引导回菜单
		reply := tgbotapi.NewMessage(msg.Chat.ID, "I work best with buttons! Use /start to open the menu. 🎬")
		h.send(reply)
		return
	}

	switch msg.Command() {
	case "start":
		h.cmdStart(msg.Chat.ID, user)
	case "help":
		h.cmdHelp(msg.Chat.ID, user)
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Unknown command. Try /start, /help or /stop.")
		h.send(reply)
	}
}

// cmdStart 欢迎 + 主菜单
func (h *Handler) cmdStart(chatID int64, user *model.User) {
	h.track("command_start", "", user.ID)

	name := user.FirstName
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"👋 Welcome, %s!\n\n"+
			"I'm your daily movie & TV series companion. 🎬\n"+
			"Pick what you're in the mood for and I'll keep the recommendations coming — "+
			"including a daily digest of new releases in your favorite genre.\n\n"+
			"What would you like to explore?",
		name)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard()
	h.send(msg)
}

// 用户计数缓存键
const userCountCacheKey = "stats:user_count"

// cmdHelp 帮助文案，顺带报告当前订阅人数
func (h *Handler) cmdHelp(chatID int64, user *model.User) {
	h.track("command_help", "", user.ID)

	// 计数走缓存，帮助命令不值得每次打数据库
	var count int64
	if v, ok := utils.CacheGet(userCountCacheKey); ok {
		count = v.(int64)
	} else if c, err := h.repos.User.Count(); err == nil {
		count = c
		utils.CacheSet(userCountCacheKey, c, 5*time.Minute)
	} else {
		log.Printf("[Handler] 统计用户数失败: %v", err)
	}

	text := fmt.Sprintf(
		"🎬 <b>%s</b>\n\n"+
			"Commands:\n"+
			"/start — open the main menu\n"+
			"/help — show this message\n"+
			"/stop — unsubscribe from daily updates\n\n"+
			"Pick a genre from the menu and you'll get a daily digest of new releases.\n"+
			"Currently serving <b>%d</b> subscribers. 🍿",
		h.cfg.BotName, count)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	h.send(msg)
}

// cmdStop 退订：删除用户记录，不存在时也友好回应
func (h *Handler) cmdStop(chatID, telegramID int64) {
	deleted, err := h.repos.User.Delete(telegramID)
	if err != nil {
		log.Printf("[Handler] 删除用户 %d 失败: %v", telegramID, err)
		h.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again later."))
		return
	}

	if !deleted {
		h.send(tgbotapi.NewMessage(chatID, "You weren't subscribed. Send /start anytime to join! 👋"))
		return
	}
	h.track("command_stop", "", 0)
	h.send(tgbotapi.NewMessage(chatID, "You've been unsubscribed. 😢\nSend /start whenever you want to come back!"))
}

// upsertFrom 把 Telegram 用户资料写入库，返回库内记录
func (h *Handler) upsertFrom(from *tgbotapi.User) (*model.User, error) {
	return h.repos.User.Upsert(&model.User{
		TelegramID:   from.ID,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		Username:     from.UserName,
		LanguageCode: from.LanguageCode,
		IsBot:        from.IsBot,
	})
}

// logMessage 记录消息日志，会话按 30 分钟空闲切分
func (h *Handler) logMessage(user *model.User, messageID int64, text, msgType string) {
	sess, err := h.repos.Session.Touch(user.ID)
	if err != nil {
		log.Printf("[Handler] 维护会话失败: %v", err)
		return
	}
	if err := h.repos.Message.Create(user.ID, sess.ID, messageID, text, msgType); err != nil {
		log.Printf("[Handler] 记录消息失败: %v", err)
	}
}

// track 埋点，失败只记日志
func (h *Handler) track(event, data string, userID int) {
	if err := h.repos.Analytics.Track(event, data, userID); err != nil {
		log.Printf("[Handler] 埋点 %s 失败: %v", event, err)
	}
}

// send 发送消息，失败只记日志
func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		log.Printf("[Handler] 发送消息失败: %v", err)
	}
}
