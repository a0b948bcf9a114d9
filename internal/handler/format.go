package handler

import (
	"fmt"
	"strings"
)

// 简介在列表条目里的最大展示长度（按字符数，不是字节）
const plotPreviewLen = 120

// FormatItem 渲染单个列表条目
// 形如：
//
//	1. **Title** (2024)
//	⭐ 8.1
//	📝 简介前 120 字...
func FormatItem(index int, title, year, rating, plot string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d. **%s** (%s)\n", index, title, year))
	if rating == "" || rating == "N/A" {
		sb.WriteString("⭐ No rating yet\n")
	} else {
		sb.WriteString(fmt.Sprintf("⭐ %s\n", rating))
	}
	sb.WriteString(fmt.Sprintf("📝 %s", truncatePlot(plot, plotPreviewLen)))

	return sb.String()
}

// truncatePlot 按字符截断简介，截断时补省略号
func truncatePlot(plot string, max int) string {
	r := []rune(plot)
	if len(r) <= max {
		return plot
	}
	return strings.TrimSpace(string(r[:max])) + "..."
}

// genreLabel 题材按钮文案（首字母大写）
func genreLabel(genre string) string {
	if genre == "" {
		return genre
	}
	words := strings.Fields(genre)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
