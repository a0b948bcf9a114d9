package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/reelbot/internal/model"
)

// newTestClient 指向假上游的客户端，重试一次、不降级，便于断言失败路径
func newTestClient(baseURL string) *TMDBClient {
	return NewTMDBClient(TMDBConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		ListTimeout:    500 * time.Millisecond,
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
	})
}

func listJSON(page, totalPages int, results ...map[string]interface{}) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"page":        page,
		"total_pages": totalPages,
		"results":     results,
	})
	return body
}

func TestFetchList_NormalizesMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listJSON(1, 1,
			map[string]interface{}{
				"id":             1,
				"name":           "Severance", // 剧集用 name 字段
				"first_air_date": "2022-02-18",
				"vote_average":   0, // 无评分
			},
			map[string]interface{}{
				"id":           2,
				"title":        "Some Film",
				"vote_average": 8.34,
				"overview":     "A film.",
				"poster_path":  "/abc.jpg",
			},
		))
	}))
	defer srv.Close()

	page := newTestClient(srv.URL).FetchList(context.Background(), CategoryTrending, model.ContentTypeSeries, "", 1)
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}

	first := page.Items[0]
	if first.Title != "Severance" {
		t.Fatalf("name field not folded into title: %q", first.Title)
	}
	if first.Year != "2022" {
		t.Fatalf("year = %q, want 2022", first.Year)
	}
	if first.Rating != "N/A" {
		t.Fatalf("missing rating should render as N/A, got %q", first.Rating)
	}
	if first.Plot != "No description available" {
		t.Fatalf("missing overview should get placeholder, got %q", first.Plot)
	}

	second := page.Items[1]
	if second.Rating != "8.3" {
		t.Fatalf("rating should round to one decimal, got %q", second.Rating)
	}
	if second.Year != "N/A" {
		t.Fatalf("missing date should give N/A year, got %q", second.Year)
	}
	if second.PosterURL != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("poster url = %q", second.PosterURL)
	}
}

func TestFetchList_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "2":
			w.Write(listJSON(2, 2, map[string]interface{}{"id": 2, "title": "B"}))
		default:
			w.Write(listJSON(1, 5, map[string]interface{}{"id": 1, "title": "A"}))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	first := client.FetchList(context.Background(), CategoryPopular, model.ContentTypeMovie, "", 1)
	if !first.HasMore {
		t.Fatalf("page 1 of 5 should have more")
	}

	last := client.FetchList(context.Background(), CategoryPopular, model.ContentTypeMovie, "", 2)
	if last.HasMore {
		t.Fatalf("page 2 of 2 should not have more")
	}
	if last.Page != 2 {
		t.Fatalf("page = %d, want 2", last.Page)
	}
}

func TestFetchList_TimeoutReturnsEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	start := time.Now()
	page := newTestClient(srv.URL).FetchList(context.Background(), CategoryTrending, model.ContentTypeMovie, "", 1)
	elapsed := time.Since(start)

	if len(page.Items) != 0 {
		t.Fatalf("expected empty page on timeout, got %d items", len(page.Items))
	}
	if page.HasMore {
		t.Fatalf("timed out page should not advertise more")
	}
	// 单次重试 + 500ms 超时，必须远早于上游的 2s 返回
	if elapsed > 1500*time.Millisecond {
		t.Fatalf("fetch did not respect timeout, took %v", elapsed)
	}
}

func TestFetchList_StaticFallbackForSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTMDBClient(TMDBConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		ListTimeout:    500 * time.Millisecond,
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
		UseFallback:    true,
	})

	page := client.FetchList(context.Background(), CategoryTrending, model.ContentTypeSeries, "", 1)
	if len(page.Items) == 0 {
		t.Fatalf("expected static fallback items")
	}
	if page.HasMore {
		t.Fatalf("fallback page must be a single page")
	}
	if page.Items[0].Title != "Breaking Bad" {
		t.Fatalf("unexpected fallback list head: %q", page.Items[0].Title)
	}
}

func TestFetchList_CachesPages(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(listJSON(1, 1, map[string]interface{}{"id": 1, "title": "A"}))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	client.FetchList(ctx, CategoryTopRated, model.ContentTypeMovie, "", 1)
	client.FetchList(ctx, CategoryTopRated, model.ContentTypeMovie, "", 1)

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", n)
	}
}

func TestFetchList_UnknownGenreGivesEmptyPage(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	// 生产配置开着兜底：未知题材也必须是空页，不得换成经典片单
	client := NewTMDBClient(TMDBConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		ListTimeout:    500 * time.Millisecond,
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
		UseFallback:    true,
	})

	for _, category := range []Category{CategoryByGenre, CategoryNewReleases} {
		start := time.Now()
		page := client.FetchList(context.Background(), category, model.ContentTypeMovie, "polka", 1)
		if len(page.Items) != 0 {
			t.Fatalf("%s: unknown genre should yield empty page, got %d items (first %q)",
				category, len(page.Items), page.Items[0].Title)
		}
		if page.HasMore {
			t.Fatalf("%s: empty page must not advertise more", category)
		}
		// 永久性错误不重试也不抓兜底榜单，必须立刻返回
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Fatalf("%s: unknown genre took %v, looks like it entered the retry path", category, elapsed)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("unknown genre must not reach upstream, got %d hits", n)
	}
}

func TestBuildRequest_Endpoints(t *testing.T) {
	client := newTestClient("http://example.invalid")

	cases := []struct {
		category    Category
		contentType string
		endpoint    string
	}{
		{CategoryTrending, model.ContentTypeMovie, "/trending/movie/week"},
		{CategoryTrending, model.ContentTypeSeries, "/trending/tv/week"},
		{CategoryNowPlaying, model.ContentTypeMovie, "/movie/now_playing"},
		{CategoryNowPlaying, model.ContentTypeSeries, "/tv/on_the_air"},
		{CategoryNewReleases, model.ContentTypeMovie, "/discover/movie"},
		{CategoryTopRated, model.ContentTypeSeries, "/tv/top_rated"},
	}
	for _, tc := range cases {
		endpoint, _, err := client.buildRequest(tc.category, tc.contentType, "", 1)
		if err != nil {
			t.Fatalf("buildRequest(%s, %s): %v", tc.category, tc.contentType, err)
		}
		if endpoint != tc.endpoint {
			t.Fatalf("buildRequest(%s, %s) = %q, want %q", tc.category, tc.contentType, endpoint, tc.endpoint)
		}
	}

	_, params, err := client.buildRequest(CategoryByGenre, model.ContentTypeMovie, "horror", 3)
	if err != nil {
		t.Fatalf("buildRequest by_genre: %v", err)
	}
	if params.Get("with_genres") != "27" {
		t.Fatalf("with_genres = %q, want 27", params.Get("with_genres"))
	}
	if params.Get("page") != "3" {
		t.Fatalf("page param = %q, want 3", params.Get("page"))
	}
}

func TestBroadcastDigestFormat(t *testing.T) {
	items := []ContentItem{
		{Title: "Alien: Earth", Year: "2025", Rating: "8.1", Plot: "A ship crash-lands on Earth."},
	}
	got := formatDigest("horror", model.ContentTypeSeries, items)

	want := "🎬 Daily Horror TV Series Updates:\n\n" +
		"🎭 <b>Alien: Earth</b> (2025)\n" +
		"⭐ Rating: 8.1/10\n" +
		"📝 A ship crash-lands on Earth."
	if got != want {
		t.Fatalf("digest mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestNextRunAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	next := nextRunAt(now, 9)
	if !next.Equal(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected same-day run, got %v", next)
	}

	next = nextRunAt(now, 8)
	if !next.Equal(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected next-day run, got %v", next)
	}

	// 正好在整点上，跳到明天而不是立即再跑一轮
	onTheHour := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	next = nextRunAt(onTheHour, 9)
	if !next.Equal(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected tomorrow, got %v", next)
	}
}

func ExampleFallbackPage() {
	page := FallbackPage(model.ContentTypeMovie)
	fmt.Println(page.Items[0].Title)
	// Output: The Shawshank Redemption
}
