package service

import (
	"sort"
	"strings"

	"github.com/user/reelbot/internal/model"
)

// movieGenres TMDB 电影题材表
var movieGenres = map[string]int{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science fiction": 878,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

// tvGenres TMDB 剧集题材表
// 剧集题材和电影不是同一套 ID，常见电影题材名折算到最接近的剧集分类
var tvGenres = map[string]int{
	"action & adventure": 10759,
	"animation":          16,
	"comedy":             35,
	"crime":              80,
	"documentary":        99,
	"drama":              18,
	"family":             10751,
	"kids":               10762,
	"mystery":            9648,
	"news":               10763,
	"reality":            10764,
	"sci-fi & fantasy":   10765,
	"soap":               10766,
	"talk":               10767,
	"war & politics":     10768,
	"western":            37,
	// 电影题材名 → 最接近的剧集分类（有意的近似，不是 bug）
	"action":          10759,
	"adventure":       10759,
	"fantasy":         10765,
	"science fiction": 10765,
	"horror":          10765,
	"thriller":        18,
	"romance":         18,
	"music":           18,
	"history":         18,
	"war":             10768,
}

// GenreID 把人类可读的题材名解析为上游数字 ID
// 未知题材返回 (0, false)，不报错
func GenreID(name, contentType string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return 0, false
	}
	if contentType == model.ContentTypeSeries {
		id, ok := tvGenres[key]
		return id, ok
	}
	id, ok := movieGenres[key]
	return id, ok
}

// GenreName 反查题材名（取第一个命中的规范名）
func GenreName(id int, contentType string) (string, bool) {
	table := movieGenres
	if contentType == model.ContentTypeSeries {
		table = tvGenres
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if table[name] == id {
			return name, true
		}
	}
	return "", false
}

// ValidGenre 判断题材名对指定内容类型是否有效
func ValidGenre(name, contentType string) bool {
	_, ok := GenreID(name, contentType)
	return ok
}

// MenuGenres 菜单上展示的题材（固定顺序的常用子集）
func MenuGenres() []string {
	return []string{
		"action", "comedy", "drama", "horror",
		"romance", "science fiction", "thriller", "animation",
		"crime", "documentary", "fantasy", "mystery",
	}
}
