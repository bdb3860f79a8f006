// Package locale holds the user-facing strings and date layouts for the
// supported interface languages.
package locale

import (
	"time"

	"golang.org/x/text/language"

	"github.com/DuongDinhDang/newsapp/internal/errkind"
)

var supported = []language.Tag{language.English, language.Vietnamese}

var matcher = language.NewMatcher(supported)

// Messages is one language's catalog.
type Messages struct {
	Tag language.Tag

	NoTitle       string
	NoDate        string
	NoContent     string
	NoDescription string
	NoResults     string
	SearchHint    string
	SearchPrompt  string
	RetryHint     string
	Loading       string
	OpenLink      string

	DateLayout string

	load   map[errkind.Kind]string
	search map[errkind.Kind]string
}

var english = &Messages{
	Tag:           language.English,
	NoTitle:       "No title",
	NoDate:        "No date",
	NoContent:     "No content",
	NoDescription: "No description",
	NoResults:     "No articles found",
	SearchHint:    "Type a keyword to search",
	SearchPrompt:  "Search news...",
	RetryHint:     "Press r to retry",
	Loading:       "Loading news...",
	OpenLink:      "Open in browser",
	DateLayout:    "Jan 2, 2006",
	load: map[errkind.Kind]string{
		errkind.RateLimited:  "Too many requests. Please try again later.",
		errkind.Unauthorized: "Invalid API key. Please check your configuration.",
		errkind.Unreachable:  "Could not load news. Check your connection or try again.",
	},
	search: map[errkind.Kind]string{
		errkind.RateLimited:  "Too many requests. Please try again later.",
		errkind.Unauthorized: "Invalid API key. Please check your configuration.",
		errkind.Unreachable:  "Could not search news. Try a different keyword.",
	},
}

var vietnamese = &Messages{
	Tag:           language.Vietnamese,
	NoTitle:       "Không có tiêu đề",
	NoDate:        "Không có ngày",
	NoContent:     "Không có nội dung",
	NoDescription: "Không có mô tả",
	NoResults:     "Không tìm thấy tin tức",
	SearchHint:    "Nhập từ khóa để tìm kiếm",
	SearchPrompt:  "Tìm kiếm tin tức...",
	RetryHint:     "Bấm r để thử lại",
	Loading:       "Đang tải tin tức...",
	OpenLink:      "Mở trong trình duyệt",
	DateLayout:    "02/01/2006",
	load: map[errkind.Kind]string{
		errkind.RateLimited:  "Quá nhiều yêu cầu. Vui lòng thử lại sau.",
		errkind.Unauthorized: "Khóa API không hợp lệ. Vui lòng kiểm tra lại.",
		errkind.Unreachable:  "Không thể tải tin tức. Vui lòng kiểm tra kết nối hoặc thử lại.",
	},
	search: map[errkind.Kind]string{
		errkind.RateLimited:  "Quá nhiều yêu cầu. Vui lòng thử lại sau.",
		errkind.Unauthorized: "Khóa API không hợp lệ. Vui lòng kiểm tra lại.",
		errkind.Unreachable:  "Không thể tìm kiếm tin tức. Vui lòng thử từ khóa khác.",
	},
}

// For picks the catalog best matching pref ("vi", "vi-VN", "en-US", ...).
// Unknown or empty preferences get English.
func For(pref string) *Messages {
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return english
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return english
	}
	if supported[idx] == language.Vietnamese {
		return vietnamese
	}
	return english
}

// ErrorMessage is the text shown when loading the home list failed.
func (m *Messages) ErrorMessage(kind errkind.Kind) string {
	return m.message(m.load, kind)
}

// SearchErrorMessage is the text shown when a search failed.
func (m *Messages) SearchErrorMessage(kind errkind.Kind) string {
	return m.message(m.search, kind)
}

func (m *Messages) message(table map[errkind.Kind]string, kind errkind.Kind) string {
	if kind == errkind.None {
		return ""
	}
	if msg, ok := table[kind]; ok {
		return msg
	}
	return table[errkind.Unreachable]
}

func (m *Messages) Date(t time.Time) string {
	if t.IsZero() {
		return m.NoDate
	}
	return t.Local().Format(m.DateLayout)
}

func (m *Messages) Title(title string) string {
	if title == "" {
		return m.NoTitle
	}
	return title
}
