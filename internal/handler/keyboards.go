package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/reelbot/internal/model"
	"github.com/user/reelbot/internal/service"
)

// mainMenuKeyboard 主菜单
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Movies", typeToken(model.ContentTypeMovie)),
			tgbotapi.NewInlineKeyboardButtonData("📺 TV Series", typeToken(model.ContentTypeSeries)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔥 Trending Now", browseToken(string(service.CategoryTrending), "", "", 1)),
			tgbotapi.NewInlineKeyboardButtonData("📅 New Releases", browseToken(string(service.CategoryNewReleases), "", "", 1)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Help & Commands", Token{Action: ActionHelp}.Encode()),
		),
	)
}

// categoryKeyboard 选完内容类型后的榜单菜单
func categoryKeyboard(contentType string) tgbotapi.InlineKeyboardMarkup {
	trendingLabel, nowLabel := "🔥 Trending Movies", "🎬 Now Playing"
	if contentType == model.ContentTypeSeries {
		trendingLabel, nowLabel = "🔥 Trending Series", "📺 Now Airing"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(trendingLabel, browseToken(string(service.CategoryTrending), contentType, "", 1)),
			tgbotapi.NewInlineKeyboardButtonData("📅 New Releases", browseToken(string(service.CategoryNewReleases), contentType, "", 1)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Top Rated", browseToken(string(service.CategoryTopRated), contentType, "", 1)),
			tgbotapi.NewInlineKeyboardButtonData(nowLabel, browseToken(string(service.CategoryNowPlaying), contentType, "", 1)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎭 Pick a Genre", genreToken("", contentType)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Main Menu", menuToken()),
		),
	)
}

// genreKeyboard 题材选择菜单，两个一行
func genreKeyboard(contentType string) tgbotapi.InlineKeyboardMarkup {
	genres := service.MenuGenres()

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(genres); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(genreLabel(genres[i]), genreToken(genres[i], contentType)),
		}
		if i+1 < len(genres) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(genreLabel(genres[i+1]), genreToken(genres[i+1], contentType)))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Main Menu", menuToken()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// resultsKeyboard 结果列表尾部的翻页/返回键盘
func resultsKeyboard(category, contentType, genre string, page int, hasMore bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if hasMore {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Load More", browseToken(category, contentType, genre, page+1)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Main Menu", menuToken()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// trailerKeyboard 单个条目的"看预告片"按钮
func trailerKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("▶️ Watch Trailer", url),
		),
	)
}
