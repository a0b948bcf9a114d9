package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/user/reelbot/internal/config"
	"github.com/user/reelbot/internal/model"
	"github.com/user/reelbot/internal/repository"
	"github.com/user/reelbot/internal/service"
	"github.com/user/reelbot/internal/utils"
	"gorm.io/gorm"
)

// fakeBot 记录所有出站消息
type fakeBot struct {
	sent      []tgbotapi.Chattable
	failEdits bool
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if _, isEdit := c.(tgbotapi.EditMessageTextConfig); isEdit && b.failEdits {
		return tgbotapi.Message{}, fmt.Errorf("Bad Request: message to edit not found")
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts 所有已发送消息的文本（含编辑）
func (b *fakeBot) texts() []string {
	var out []string
	for _, c := range b.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		case tgbotapi.PhotoConfig:
			out = append(out, m.Caption)
		}
	}
	return out
}

// fakeContent 返回固定页面并记录最后一次请求
type fakeContent struct {
	page         *service.ContentPage
	lastCategory service.Category
	lastType     string
	lastGenre    string
	lastPage     int
}

func (f *fakeContent) FetchList(ctx context.Context, category service.Category, contentType, genre string, page int) *service.ContentPage {
	f.lastCategory = category
	f.lastType = contentType
	f.lastGenre = genre
	f.lastPage = page
	if f.page != nil {
		return f.page
	}
	return &service.ContentPage{Items: []service.ContentItem{}, Page: page}
}

func newTestHandler(t *testing.T) (*Handler, *fakeBot, *fakeContent, *repository.Repositories) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Message{}, &model.Session{}, &model.Analytics{}, &model.BotSetting{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	repos := repository.NewRepositories(db)
	utils.InitCache()
	bot := &fakeBot{}
	content := &fakeContent{
		page: &service.ContentPage{
			Items: []service.ContentItem{
				{TMDBID: 1, Title: "Inception", Year: "2010", Rating: "8.4", Plot: "Dreams."},
				{TMDBID: 2, Title: "Heat", Year: "1995", Rating: "8.3", Plot: "Cops and robbers."},
			},
			Page:       1,
			TotalPages: 3,
			HasMore:    true,
		},
	}

	cfg := &config.Config{BotName: "Test Bot", AppSecret: "secret", JWTExpiry: time.Hour}
	return NewHandler(repos, cfg, content, bot), bot, content, repos
}

func commandUpdate(userID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			From:      &tgbotapi.User{ID: userID, FirstName: "Dana"},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])},
			},
		},
	}
}

func callbackUpdate(userID int64, data string) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: userID, FirstName: "Dana"},
			Data:    data,
			Message: &tgbotapi.Message{MessageID: 11, Chat: &tgbotapi.Chat{ID: userID}},
		},
	}
}

func TestStartCommand_RegistersUserAndShowsMenu(t *testing.T) {
	h, bot, _, repos := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(500, "/start"))

	user, err := repos.User.FindByTelegramID(500)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user == nil {
		t.Fatalf("user not persisted")
	}
	if user.FirstName != "Dana" {
		t.Fatalf("profile not stored: %+v", user)
	}

	if len(bot.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(bot.sent))
	}
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected MessageConfig, got %T", bot.sent[0])
	}
	if !strings.Contains(msg.Text, "Welcome, Dana") {
		t.Fatalf("welcome text missing: %q", msg.Text)
	}
	if _, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Fatalf("main menu keyboard missing")
	}

	// 消息和会话都应当落库
	count, err := repos.Message.Count()
	if err != nil || count != 1 {
		t.Fatalf("message log count = %d (%v), want 1", count, err)
	}
}

func TestTypeCallback_PersistsContentType(t *testing.T) {
	h, bot, _, repos := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(501, "/start"))
	h.Dispatch(context.Background(), callbackUpdate(501, typeToken(model.ContentTypeSeries)))

	user, err := repos.User.FindByTelegramID(501)
	if err != nil || user == nil {
		t.Fatalf("find user: %v", err)
	}
	if user.ContentType != model.ContentTypeSeries {
		t.Fatalf("content type = %q, want series", user.ContentType)
	}

	found := false
	for _, text := range bot.texts() {
		if strings.Contains(text, "TV series") {
			found = true
		}
	}
	if !found {
		t.Fatalf("category menu not shown: %v", bot.texts())
	}
}

func TestGenreCallback_PersistsPreferenceAndBrowses(t *testing.T) {
	h, _, content, repos := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(502, "/start"))
	h.Dispatch(context.Background(), callbackUpdate(502, genreToken("horror", model.ContentTypeMovie)))

	user, err := repos.User.FindByTelegramID(502)
	if err != nil || user == nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Genre != "horror" || user.ContentType != model.ContentTypeMovie {
		t.Fatalf("preference not stored: genre=%q type=%q", user.Genre, user.ContentType)
	}

	if content.lastCategory != service.CategoryByGenre {
		t.Fatalf("expected by_genre fetch, got %q", content.lastCategory)
	}
	if content.lastGenre != "horror" || content.lastPage != 1 {
		t.Fatalf("unexpected fetch args: genre=%q page=%d", content.lastGenre, content.lastPage)
	}
}

func TestGenreCallback_RejectsUnknownGenre(t *testing.T) {
	h, bot, content, repos := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(503, "/start"))
	h.Dispatch(context.Background(), callbackUpdate(503, genreToken("polka", model.ContentTypeMovie)))

	user, err := repos.User.FindByTelegramID(503)
	if err != nil || user == nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Genre == "polka" {
		t.Fatalf("unknown genre must not be stored")
	}
	if content.lastCategory != "" {
		t.Fatalf("unknown genre must not trigger a fetch")
	}

	found := false
	for _, text := range bot.texts() {
		if strings.Contains(text, "isn't available") {
			found = true
		}
	}
	if !found {
		t.Fatalf("rejection message not shown: %v", bot.texts())
	}
}

func TestBrowseCallback_SendsItemsAndLoadMore(t *testing.T) {
	h, bot, _, _ := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(504, "/start"))
	bot.sent = nil

	h.Dispatch(context.Background(), callbackUpdate(504, browseToken("trending", model.ContentTypeMovie, "", 1)))

	texts := bot.texts()
	joined := strings.Join(texts, "\n---\n")
	if !strings.Contains(joined, "1. **Inception** (2010)") {
		t.Fatalf("first item missing:\n%s", joined)
	}
	if !strings.Contains(joined, "2. **Heat** (1995)") {
		t.Fatalf("second item missing:\n%s", joined)
	}

	// 最后一条消息带翻页键盘，且包含 Load More（HasMore 为真）
	last, ok := bot.sent[len(bot.sent)-1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected trailing MessageConfig, got %T", bot.sent[len(bot.sent)-1])
	}
	markup, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("results keyboard missing")
	}
	foundMore := false
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil && strings.HasPrefix(*btn.CallbackData, "browse:trending:movie::2") {
				foundMore = true
			}
		}
	}
	if !foundMore {
		t.Fatalf("load-more button with next page missing: %+v", markup)
	}
}

func TestBrowseCallback_NumbersItemsPerPage(t *testing.T) {
	h, bot, content, _ := newTestHandler(t)
	// 末页只剩一条：编号必须从 1 开始，不随页码累计
	content.page = &service.ContentPage{
		Items:      []service.ContentItem{{TMDBID: 9, Title: "Heat", Year: "1995", Rating: "8.3", Plot: "Plot."}},
		Page:       4,
		TotalPages: 4,
	}

	h.Dispatch(context.Background(), commandUpdate(509, "/start"))
	bot.sent = nil

	h.Dispatch(context.Background(), callbackUpdate(509, browseToken("top_rated", model.ContentTypeMovie, "", 4)))

	joined := strings.Join(bot.texts(), "\n---\n")
	if !strings.Contains(joined, "1. **Heat** (1995)") {
		t.Fatalf("expected item numbered from 1:\n%s", joined)
	}
	if strings.Contains(joined, "4. **Heat**") {
		t.Fatalf("item numbering leaked page offset:\n%s", joined)
	}
}

func TestBrowseCallback_NoLoadMoreOnLastPage(t *testing.T) {
	h, bot, content, _ := newTestHandler(t)
	content.page.HasMore = false

	h.Dispatch(context.Background(), commandUpdate(505, "/start"))
	bot.sent = nil

	h.Dispatch(context.Background(), callbackUpdate(505, browseToken("trending", model.ContentTypeMovie, "", 3)))

	last := bot.sent[len(bot.sent)-1].(tgbotapi.MessageConfig)
	markup := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil && strings.HasPrefix(*btn.CallbackData, "browse:") {
				t.Fatalf("unexpected load-more on final page: %s", *btn.CallbackData)
			}
		}
	}
}

func TestStopCommand_DeletesUser(t *testing.T) {
	h, bot, _, repos := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(506, "/start"))
	h.Dispatch(context.Background(), commandUpdate(506, "/stop"))

	user, err := repos.User.FindByTelegramID(506)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user != nil {
		t.Fatalf("user should be deleted after /stop")
	}

	// 再退订一次必须是友好的 no-op
	h.Dispatch(context.Background(), commandUpdate(506, "/stop"))
	texts := bot.texts()
	if !strings.Contains(texts[len(texts)-1], "weren't subscribed") {
		t.Fatalf("expected no-op reply, got %q", texts[len(texts)-1])
	}
}

func TestEditFallback_SendsFreshMessage(t *testing.T) {
	h, bot, _, _ := newTestHandler(t)
	bot.failEdits = true

	h.Dispatch(context.Background(), commandUpdate(507, "/start"))
	bot.sent = nil

	h.Dispatch(context.Background(), callbackUpdate(507, menuToken()))

	if len(bot.sent) == 0 {
		t.Fatalf("expected fallback message after failed edit")
	}
	if _, ok := bot.sent[len(bot.sent)-1].(tgbotapi.MessageConfig); !ok {
		t.Fatalf("fallback should be a fresh message, got %T", bot.sent[len(bot.sent)-1])
	}
}

func TestWebhook_AlwaysReturns200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _, _, _ := newTestHandler(t)

	r := gin.New()
	r.Any("/webhook", h.Webhook)

	// 坏 JSON 也必须 200，否则 Telegram 会无限重投
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bad json status = %d, want 200", w.Code)
	}

	// 非 POST 直接 200 打发
	req = httptest.NewRequest(http.MethodGet, "/webhook", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
}

func TestMalformedCallback_FallsBackToMenu(t *testing.T) {
	h, bot, _, _ := newTestHandler(t)

	h.Dispatch(context.Background(), commandUpdate(508, "/start"))
	bot.sent = nil

	h.Dispatch(context.Background(), callbackUpdate(508, "legacy_button_v1"))

	if len(bot.sent) == 0 {
		t.Fatalf("expected main menu fallback")
	}
}
