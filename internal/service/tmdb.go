package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/user/reelbot/internal/model"
	"github.com/user/reelbot/internal/utils"
	"golang.org/x/sync/singleflight"
)

// Category 内容榜单类别
type Category string

const (
	CategoryTrending    Category = "trending"
	CategoryPopular     Category = "popular"
	CategoryTopRated    Category = "top_rated"
	CategoryNowPlaying  Category = "now_playing" // 剧集对应"正在播出"
	CategoryNewReleases Category = "new_releases"
	CategoryByGenre     Category = "by_genre"
)

// ContentItem 规范化后的影片/剧集条目
// 上游电影和剧集字段名不同（title/name、release_date/first_air_date），统一在此抹平
type ContentItem struct {
	TMDBID     int    `json:"tmdb_id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Rating     string `json:"rating"` // 一位小数，缺失时为 "N/A"
	Plot       string `json:"plot"`
	PosterURL  string `json:"poster_url"`
	TrailerURL string `json:"trailer_url,omitempty"`
}

// ContentPage 一页结果及分页信息
type ContentPage struct {
	Items      []ContentItem `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
}

// TMDBConfig TMDB 客户端配置
type TMDBConfig struct {
	APIKey         string
	BaseURL        string
	ImageBaseURL   string
	Language       string
	ListTimeout    time.Duration // 列表请求超时
	TrailerTimeout time.Duration // 预告片查询超时（短）
	MaxItems       int           // 每页向用户展示的条数
	MaxRetries     int
	RetryBaseDelay time.Duration
	WithTrailers   bool
	UseFallback    bool // 重试耗尽后是否降级到静态兜底数据
	CacheSize      int
	CacheTTL       time.Duration
}

// TMDBClient TMDB 内容客户端
type TMDBClient struct {
	cfg     TMDBConfig
	http    *utils.HTTPClient
	trailer *utils.HTTPClient
	pages   *utils.PageCache[*ContentPage]
	scraper *ChartScraper
	group   singleflight.Group
}

// NewTMDBClient 创建 TMDB 客户端
func NewTMDBClient(cfg TMDBConfig) *TMDBClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.ListTimeout == 0 {
		cfg.ListTimeout = 8 * time.Second
	}
	if cfg.TrailerTimeout == 0 {
		cfg.TrailerTimeout = 3 * time.Second
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 5
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 500
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &TMDBClient{
		cfg:     cfg,
		http:    utils.NewHTTPClient(cfg.ListTimeout),
		trailer: utils.NewHTTPClient(cfg.TrailerTimeout),
		pages:   utils.NewPageCache[*ContentPage](cfg.CacheSize, cfg.CacheTTL),
		scraper: NewChartScraper(cfg.ListTimeout),
	}
}

// listResponse 上游列表响应信封
type listResponse struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
	Results      []listItem `json:"results"`
}

type listItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"` // 剧集
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"` // 剧集
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
}

// FetchList 获取指定榜单的一页规范化结果
// 对调用方永不报错：超时 / 非 2xx / 网络错误一律返回空页；
// 内部带重试（指数退避），重试耗尽且开启兜底时降级到抓取器和静态数据
func (c *TMDBClient) FetchList(ctx context.Context, category Category, contentType, genre string, page int) *ContentPage {
	if page < 1 {
		page = 1
	}

	// 未知题材是永久性错误，直接空页，不进重试也不降级
	if genre != "" && !ValidGenre(genre, contentType) {
		switch category {
		case CategoryByGenre, CategoryNewReleases:
			log.Printf("[TMDB] 未知题材 %q (%s)，返回空页", genre, contentType)
			return &ContentPage{Items: []ContentItem{}, Page: page, TotalPages: 0, HasMore: false}
		}
	}

	key := fmt.Sprintf("%s:%s:%s:%d", category, contentType, genre, page)
	if cached, ok := c.pages.Get(key); ok {
		return cached
	}

	// singleflight 避免并发重复抓取同一页
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := Retry(ctx, c.cfg.MaxRetries, c.cfg.RetryBaseDelay, func() (*ContentPage, error) {
			return c.fetchListOnce(ctx, category, contentType, genre, page)
		})
		if err != nil {
			return nil, err
		}
		c.pages.Set(key, result)
		return result, nil
	})

	if err != nil {
		log.Printf("[TMDB] 获取 %s 失败: %v", key, err)
		if c.cfg.UseFallback {
			return c.fallbackPage(ctx, contentType)
		}
		return &ContentPage{Items: []ContentItem{}, Page: page, TotalPages: 0, HasMore: false}
	}

	return val.(*ContentPage)
}

// fetchListOnce 单次列表请求
func (c *TMDBClient) fetchListOnce(ctx context.Context, category Category, contentType, genre string, page int) (*ContentPage, error) {
	endpoint, params, err := c.buildRequest(category, contentType, genre, page)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.ListTimeout)
	defer cancel()

	var resp listResponse
	if err := c.http.GetJSON(reqCtx, c.cfg.BaseURL+endpoint+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	items := resp.Results
	if len(items) > c.cfg.MaxItems {
		items = items[:c.cfg.MaxItems]
	}

	result := &ContentPage{
		Items:      make([]ContentItem, 0, len(items)),
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		HasMore:    resp.Page < resp.TotalPages,
	}
	if result.Page == 0 {
		result.Page = page
	}
	for _, it := range items {
		result.Items = append(result.Items, c.normalize(it))
	}

	if c.cfg.WithTrailers {
		c.enrichTrailers(ctx, contentType, result.Items)
	}

	return result, nil
}

// buildRequest 把类别映射到上游端点和查询参数
func (c *TMDBClient) buildRequest(category Category, contentType, genre string, page int) (string, url.Values, error) {
	mediaType := "movie"
	if contentType == model.ContentTypeSeries {
		mediaType = "tv"
	}

	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)
	params.Set("page", fmt.Sprintf("%d", page))

	var endpoint string
	switch category {
	case CategoryTrending:
		endpoint = fmt.Sprintf("/trending/%s/week", mediaType)
	case CategoryPopular:
		endpoint = fmt.Sprintf("/%s/popular", mediaType)
	case CategoryTopRated:
		endpoint = fmt.Sprintf("/%s/top_rated", mediaType)
	case CategoryNowPlaying:
		if mediaType == "tv" {
			endpoint = "/tv/on_the_air"
		} else {
			endpoint = "/movie/now_playing"
		}
	case CategoryNewReleases:
		endpoint = fmt.Sprintf("/discover/%s", mediaType)
		today := time.Now().Format("2006-01-02")
		if mediaType == "tv" {
			params.Set("sort_by", "first_air_date.desc")
			params.Set("first_air_date.gte", today)
		} else {
			params.Set("sort_by", "release_date.desc")
			params.Set("release_date.gte", today)
		}
		if genre != "" {
			if id, ok := GenreID(genre, contentType); ok {
				params.Set("with_genres", fmt.Sprintf("%d", id))
			}
		}
	case CategoryByGenre:
		id, ok := GenreID(genre, contentType)
		if !ok {
			// 未知题材：返回空结果而不是报错
			return "", nil, errUnknownGenre
		}
		endpoint = fmt.Sprintf("/discover/%s", mediaType)
		params.Set("sort_by", "popularity.desc")
		params.Set("with_genres", fmt.Sprintf("%d", id))
	default:
		return "", nil, fmt.Errorf("未知榜单类别: %s", category)
	}

	return endpoint, params, nil
}

var errUnknownGenre = fmt.Errorf("未知题材")

// normalize 统一电影/剧集的字段
func (c *TMDBClient) normalize(it listItem) ContentItem {
	title := it.Title
	if title == "" {
		title = it.Name
	}
	if title == "" {
		title = "Unknown Title"
	}

	date := it.ReleaseDate
	if date == "" {
		date = it.FirstAirDate
	}
	year := "N/A"
	if len(date) >= 4 {
		year = date[:4]
	}

	// 缺失评分按约定渲染为 "N/A" 字符串，调用方会直接拼进文案
	rating := "N/A"
	if it.VoteAverage > 0 {
		rating = fmt.Sprintf("%.1f", it.VoteAverage)
	}

	plot := it.Overview
	if plot == "" {
		plot = "No description available"
	}

	poster := ""
	if it.PosterPath != "" {
		poster = c.cfg.ImageBaseURL + it.PosterPath
	}

	return ContentItem{
		TMDBID:    it.ID,
		Title:     title,
		Year:      year,
		Rating:    rating,
		Plot:      plot,
		PosterURL: poster,
	}
}

// videosResponse 预告片列表响应
type videosResponse struct {
	Results []struct {
		Key      string `json:"key"`
		Site     string `json:"site"`
		Type     string `json:"type"`
		Official bool   `json:"official"`
	} `json:"results"`
}

// enrichTrailers 并行补充预告片链接
// 单独的短超时，失败只是没有链接，不影响整页结果
func (c *TMDBClient) enrichTrailers(ctx context.Context, contentType string, items []ContentItem) {
	mediaType := "movie"
	if contentType == model.ContentTypeSeries {
		mediaType = "tv"
	}

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			items[idx].TrailerURL = c.fetchTrailer(ctx, mediaType, items[idx].TMDBID)
		}(i)
	}
	wg.Wait()
}

// fetchTrailer 查询单个条目的预告片，优先级：官方 Trailer > Teaser > 任意 YouTube 视频
func (c *TMDBClient) fetchTrailer(ctx context.Context, mediaType string, id int) string {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.TrailerTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)

	var resp videosResponse
	endpoint := fmt.Sprintf("%s/%s/%d/videos?%s", c.cfg.BaseURL, mediaType, id, params.Encode())
	if err := c.trailer.GetJSON(reqCtx, endpoint, &resp); err != nil {
		// 静默失败，预告片缺失不值得打断列表
		return ""
	}

	var teaser, any string
	for _, v := range resp.Results {
		if !strings.EqualFold(v.Site, "YouTube") {
			continue
		}
		switch {
		case v.Type == "Trailer" && v.Official:
			return "https://www.youtube.com/watch?v=" + v.Key
		case v.Type == "Teaser" && teaser == "":
			teaser = v.Key
		case any == "":
			any = v.Key
		}
	}
	if teaser != "" {
		return "https://www.youtube.com/watch?v=" + teaser
	}
	if any != "" {
		return "https://www.youtube.com/watch?v=" + any
	}
	return ""
}

// fallbackPage 上游完全不可用时的降级：先试榜单抓取，再退回静态数据
func (c *TMDBClient) fallbackPage(ctx context.Context, contentType string) *ContentPage {
	if contentType != model.ContentTypeSeries {
		if scraped := c.scraper.PopularMovies(ctx); len(scraped) > 0 {
			log.Printf("[TMDB] 已降级到榜单抓取，返回 %d 条", len(scraped))
			return &ContentPage{Items: scraped, Page: 1, TotalPages: 1, HasMore: false}
		}
	}
	log.Printf("[TMDB] 已降级到静态兜底数据 (%s)", contentType)
	return FallbackPage(contentType)
}
