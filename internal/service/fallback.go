package service

import "github.com/user/reelbot/internal/model"

// 上游彻底不可用时替换的经典片单

var fallbackMovies = []ContentItem{
	{
		Title:     "The Shawshank Redemption",
		Year:      "1994",
		Rating:    "9.3",
		Plot:      "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		PosterURL: "https://image.tmdb.org/t/p/w500/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
	},
	{
		Title:     "The Godfather",
		Year:      "1972",
		Rating:    "9.2",
		Plot:      "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		PosterURL: "https://image.tmdb.org/t/p/w500/3bhkrj58Vtu7enYsRolD1fZdja1.jpg",
	},
	{
		Title:     "The Dark Knight",
		Year:      "2008",
		Rating:    "9.0",
		Plot:      "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
		PosterURL: "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
	},
}

var fallbackSeries = []ContentItem{
	{
		Title:     "Breaking Bad",
		Year:      "2008",
		Rating:    "9.5",
		Plot:      "A high school chemistry teacher diagnosed with inoperable lung cancer turns to manufacturing and selling methamphetamine in order to secure his family's future.",
		PosterURL: "https://image.tmdb.org/t/p/w500/ggFHVNu6YYI5L9pCfOacjizRGt.jpg",
	},
	{
		Title:     "Game of Thrones",
		Year:      "2011",
		Rating:    "9.3",
		Plot:      "Nine noble families fight for control over the lands of Westeros, while an ancient enemy returns after being dormant for millennia.",
		PosterURL: "https://image.tmdb.org/t/p/w500/u3bZgnGQ9T01sWNhyveQz0wH0Hl.jpg",
	},
	{
		Title:     "The Sopranos",
		Year:      "1999",
		Rating:    "9.2",
		Plot:      "New Jersey mob boss Tony Soprano deals with personal and professional issues in his home and business life that affect his mental state, leading him to seek professional psychiatric counseling.",
		PosterURL: "https://image.tmdb.org/t/p/w500/rTc7ZXdroqjkKivFPvCPX0Ru2UW.jpg",
	},
}

// FallbackPage 返回静态兜底片单（单页，无后续分页）
func FallbackPage(contentType string) *ContentPage {
	items := fallbackMovies
	if contentType == model.ContentTypeSeries {
		items = fallbackSeries
	}
	out := make([]ContentItem, len(items))
	copy(out, items)
	return &ContentPage{Items: out, Page: 1, TotalPages: 1, HasMore: false}
}
