package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/reelbot/internal/utils"
)

// ChartScraper IMDb 热门榜单抓取器
// 只在 TMDB 完全不可用时作为最后的降级数据源
type ChartScraper struct {
	http     *utils.HTTPClient
	chartURL string
	maxItems int
}

// NewChartScraper 创建榜单抓取器
func NewChartScraper(timeout time.Duration) *ChartScraper {
	return &ChartScraper{
		http:     utils.NewHTTPClient(timeout),
		chartURL: "https://www.imdb.com/chart/moviemeter/",
		maxItems: 5,
	}
}

// PopularMovies 抓取 IMDb 人气榜前几名
// 任何失败都返回空切片，调用方自行决定下一级降级
func (s *ChartScraper) PopularMovies(ctx context.Context) []ContentItem {
	resp, err := s.http.Get(ctx, s.chartURL)
	if err != nil {
		log.Printf("[ChartScraper] 请求榜单失败: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Printf("[ChartScraper] 榜单返回状态码: %d", resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("[ChartScraper] 解析 HTML 失败: %v", err)
		return nil
	}

	var items []ContentItem
	doc.Find("tbody.lister-list tr").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= s.maxItems {
			return false
		}

		title := strings.TrimSpace(sel.Find(".titleColumn a").Text())
		year := strings.Trim(strings.TrimSpace(sel.Find(".titleColumn .secondaryInfo").Text()), "()")
		rating := strings.TrimSpace(sel.Find(".imdbRating strong").Text())

		if len(title) <= 2 {
			return true
		}
		if year == "" {
			year = time.Now().Format("2006")
		}
		if rating == "" {
			rating = "N/A"
		}

		items = append(items, ContentItem{
			Title:  title,
			Year:   year,
			Rating: rating,
			Plot:   "Popular movie",
		})
		return true
	})

	log.Printf("[ChartScraper] 从榜单抓取到 %d 部影片", len(items))
	return items
}
