package feed

import (
	"html"
	"strings"
	"time"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

func normalize(w wireArticle) cache.Article {
	pub := parsePubDate(w.PubDate)
	title := plainText(w.Title)
	return cache.Article{
		ID:          cache.ArticleID(w.Link, title, pub),
		Title:       title,
		Description: plainText(w.Description),
		Content:     plainText(w.Content),
		ImageURL:    strings.TrimSpace(w.ImageURL),
		PublishedAt: pub,
		Link:        strings.TrimSpace(w.Link),
	}
}

// plainText strips markup and collapses whitespace.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(textPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// parsePubDate accepts the API's "2006-01-02 15:04:05" form and anything else
// dateparse understands. Times without a zone are UTC.
func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
