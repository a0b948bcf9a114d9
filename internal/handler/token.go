package handler

import (
	"fmt"
	"strconv"
	"strings"
)

// 回调动作
const (
	ActionMenu   = "menu"   // 回到主菜单
	ActionType   = "type"   // 选择内容类型
	ActionGenre  = "genre"  // 选择题材
	ActionBrowse = "browse" // 浏览榜单（含翻页）
	ActionHelp   = "help"   // 帮助
)

// Token 统一的回调令牌
// 编码为固定五段 action:category:contentType:genre:page，
// 翻页状态放在令牌参数里，而不是为每一页造一个新令牌名
type Token struct {
	Action      string
	Category    string
	ContentType string
	Genre       string
	Page        int
}

// Encode 编码为回调数据字符串
func (t Token) Encode() string {
	return fmt.Sprintf("%s:%s:%s:%s:%d", t.Action, t.Category, t.ContentType, t.Genre, t.Page)
}

// ParseToken 解析回调数据
func ParseToken(data string) (Token, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 5 {
		return Token{}, fmt.Errorf("非法回调令牌: %q", data)
	}

	page, err := strconv.Atoi(parts[4])
	if err != nil {
		return Token{}, fmt.Errorf("非法页码 %q: %w", parts[4], err)
	}

	return Token{
		Action:      parts[0],
		Category:    parts[1],
		ContentType: parts[2],
		Genre:       parts[3],
		Page:        page,
	}, nil
}

// menuToken 主菜单令牌
func menuToken() string {
	return Token{Action: ActionMenu}.Encode()
}

// typeToken 内容类型选择令牌
func typeToken(contentType string) string {
	return Token{Action: ActionType, ContentType: contentType}.Encode()
}

// genreToken 题材选择令牌
func genreToken(genre, contentType string) string {
	return Token{Action: ActionGenre, ContentType: contentType, Genre: genre}.Encode()
}

// browseToken 榜单浏览令牌
func browseToken(category, contentType, genre string, page int) string {
	return Token{Action: ActionBrowse, Category: category, ContentType: contentType, Genre: genre, Page: page}.Encode()
}
