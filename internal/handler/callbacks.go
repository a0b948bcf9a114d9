package handler

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/reelbot/internal/model"
	"github.com/user/reelbot/internal/service"
)

// handleCallback 处理内联键盘回调
func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// 先应答，避免客户端按钮一直转圈
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("[Handler] 应答回调失败: %v", err)
	}

	if cb.From == nil || cb.Message == nil {
		return
	}

	user, err := h.upsertFrom(cb.From)
	if err != nil {
		log.Printf("[Handler] 保存用户 %d 失败: %v", cb.From.ID, err)
		return
	}
	h.logMessage(user, int64(cb.Message.MessageID), cb.Data, "callback")

	token, err := ParseToken(cb.Data)
	if err != nil {
		// 旧版本残留的按钮或伪造数据，直接回主菜单
		log.Printf("[Handler] 解析回调数据失败: %v", err)
		h.showMainMenu(cb)
		return
	}

	chatID := cb.Message.Chat.ID

	switch token.Action {
	case ActionMenu:
		h.track("menu_open", "", user.ID)
		h.showMainMenu(cb)

	case ActionHelp:
		h.track("menu_help", "", user.ID)
		h.cmdHelp(chatID, user)

	case ActionType:
		if token.ContentType != model.ContentTypeMovie && token.ContentType != model.ContentTypeSeries {
			h.showMainMenu(cb)
			return
		}
		h.track("pick_type", token.ContentType, user.ID)
		if err := h.repos.User.SetContentType(user.TelegramID, token.ContentType); err != nil {
			log.Printf("[Handler] 保存内容类型失败: %v", err)
		}
		label := "movies"
		if token.ContentType == model.ContentTypeSeries {
			label = "TV series"
		}
		h.editOrSend(cb, fmt.Sprintf("Great choice! 🍿 What kind of %s are you looking for?", label),
			categoryKeyboard(token.ContentType))

	case ActionGenre:
		h.handleGenre(ctx, cb, user, token)

	case ActionBrowse:
		h.handleBrowse(ctx, cb, user, token)

	default:
		h.showMainMenu(cb)
	}
}

// handleGenre 题材选择：空题材展示菜单，具体题材先校验再落库并展示结果
func (h *Handler) handleGenre(ctx context.Context, cb *tgbotapi.CallbackQuery, user *model.User, token Token) {
	contentType := token.ContentType
	if contentType == "" {
		contentType = preferredType(user)
	}

	if token.Genre == "" {
		h.editOrSend(cb, "🎭 Pick your favorite genre — I'll remember it for your daily digest:",
			genreKeyboard(contentType))
		return
	}

	// 拒绝未知题材，而不是默默吞掉
	if !service.ValidGenre(token.Genre, contentType) {
		log.Printf("[Handler] 用户 %d 提交未知题材: %q", user.TelegramID, token.Genre)
		h.editOrSend(cb, "That genre isn't available. Pick one from the list:", genreKeyboard(contentType))
		return
	}

	h.track("pick_genre", token.Genre, user.ID)
	if err := h.repos.User.SetPreference(user.TelegramID, token.Genre, contentType); err != nil {
		log.Printf("[Handler] 保存偏好失败: %v", err)
	}

	confirm := tgbotapi.NewMessage(cb.Message.Chat.ID,
		fmt.Sprintf("✅ Got it! %s it is.\nYou'll get daily %s updates — here's what's hot right now:",
			genreLabel(token.Genre), genreLabel(token.Genre)))
	h.send(confirm)

	h.handleBrowse(ctx, cb, user, Token{
		Action:      ActionBrowse,
		Category:    string(service.CategoryByGenre),
		ContentType: contentType,
		Genre:       token.Genre,
		Page:        1,
	})
}

// handleBrowse 拉取榜单并逐条发送结果
func (h *Handler) handleBrowse(ctx context.Context, cb *tgbotapi.CallbackQuery, user *model.User, token Token) {
	contentType := token.ContentType
	if contentType == "" {
		contentType = preferredType(user)
	}
	page := token.Page
	if page < 1 {
		page = 1
	}

	h.track("browse", token.Encode(), user.ID)

	result := h.content.FetchList(ctx, service.Category(token.Category), contentType, token.Genre, page)
	chatID := cb.Message.Chat.ID

	if len(result.Items) == 0 {
		msg := tgbotapi.NewMessage(chatID, "😔 Nothing found right now. Try another category!")
		msg.ReplyMarkup = resultsKeyboard(token.Category, contentType, token.Genre, page, false)
		h.send(msg)
		return
	}

	header := tgbotapi.NewMessage(chatID, browseHeader(token.Category, contentType, token.Genre, page))
	h.send(header)

	// 每页从 1 开始编号
	for i, item := range result.Items {
		h.sendItem(chatID, i+1, item)
	}

	footer := tgbotapi.NewMessage(chatID, "What's next?")
	footer.ReplyMarkup = resultsKeyboard(token.Category, contentType, token.Genre, page, result.HasMore)
	h.send(footer)
}

// sendItem 发送单个条目：优先海报配文字说明，发图失败退回纯文本
func (h *Handler) sendItem(chatID int64, index int, item service.ContentItem) {
	caption := FormatItem(index, item.Title, item.Year, item.Rating, item.Plot)

	var markup *tgbotapi.InlineKeyboardMarkup
	if item.TrailerURL != "" {
		kb := trailerKeyboard(item.TrailerURL)
		markup = &kb
	}

	if item.PosterURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(item.PosterURL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdown
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		if _, err := h.bot.Send(photo); err == nil {
			return
		} else {
			log.Printf("[Handler] 发送海报失败，退回纯文本: %v", err)
		}
	}

	msg := tgbotapi.NewMessage(chatID, caption)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	h.send(msg)
}

// showMainMenu 把当前消息改写为主菜单
func (h *Handler) showMainMenu(cb *tgbotapi.CallbackQuery) {
	h.editOrSend(cb, "🎬 What would you like to explore?", mainMenuKeyboard())
}

// editOrSend 原地编辑消息，编辑失败（消息过旧等）则改为发送新消息
func (h *Handler) editOrSend(cb *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, markup)
	if _, err := h.bot.Send(edit); err != nil {
		log.Printf("[Handler] 编辑消息失败，改为新消息: %v", err)
		msg := tgbotapi.NewMessage(cb.Message.Chat.ID, text)
		msg.ReplyMarkup = markup
		h.send(msg)
	}
}

// browseHeader 榜单标题
func browseHeader(category, contentType, genre string, page int) string {
	label := "Movies"
	if contentType == model.ContentTypeSeries {
		label = "TV Series"
	}

	var title string
	switch service.Category(category) {
	case service.CategoryTrending:
		title = "🔥 Trending " + label
	case service.CategoryPopular:
		title = "🌟 Popular " + label
	case service.CategoryTopRated:
		title = "⭐ Top Rated " + label
	case service.CategoryNowPlaying:
		if contentType == model.ContentTypeSeries {
			title = "📺 Now Airing"
		} else {
			title = "🎬 Now Playing"
		}
	case service.CategoryNewReleases:
		title = "📅 New " + label
	case service.CategoryByGenre:
		title = fmt.Sprintf("🎭 %s %s", genreLabel(genre), label)
	default:
		title = label
	}

	if page > 1 {
		title += fmt.Sprintf(" — page %d", page)
	}
	return title
}

// preferredType 用户存量偏好，兜底为电影
func preferredType(user *model.User) string {
	if user.ContentType == model.ContentTypeSeries {
		return model.ContentTypeSeries
	}
	return model.ContentTypeMovie
}
