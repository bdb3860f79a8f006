package locale

import (
	"testing"
	"time"

	"github.com/DuongDinhDang/newsapp/internal/errkind"
)

func TestFor(t *testing.T) {
	tests := []struct {
		pref string
		want *Messages
	}{
		{"vi", vietnamese},
		{"vi-VN", vietnamese},
		{"en", english},
		{"en-US", english},
		{"", english},
		{"ja", english},
		{"not a tag!!", english},
	}
	for _, tt := range tests {
		if got := For(tt.pref); got != tt.want {
			t.Errorf("For(%q) = %v, want %v", tt.pref, got.Tag, tt.want.Tag)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	vi := For("vi")
	if got := vi.ErrorMessage(errkind.RateLimited); got != "Quá nhiều yêu cầu. Vui lòng thử lại sau." {
		t.Errorf("unexpected rate limited message %q", got)
	}
	if got := vi.ErrorMessage(errkind.Unauthorized); got != "Khóa API không hợp lệ. Vui lòng kiểm tra lại." {
		t.Errorf("unexpected unauthorized message %q", got)
	}
	if vi.ErrorMessage(errkind.Unreachable) == vi.SearchErrorMessage(errkind.Unreachable) {
		t.Error("load and search should word unreachable differently")
	}
	if got := vi.ErrorMessage(errkind.None); got != "" {
		t.Errorf("expected no message for None, got %q", got)
	}
	// Kinds outside the remote taxonomy fall back to the unreachable text
	if got := english.ErrorMessage(errkind.CacheFault); got != english.ErrorMessage(errkind.Unreachable) {
		t.Errorf("unexpected cache fault message %q", got)
	}
}

func TestDate(t *testing.T) {
	when := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)

	if got := vietnamese.Date(when); got != "09/03/2024" {
		t.Errorf("vi date = %q", got)
	}
	if got := english.Date(when); got != "Mar 9, 2024" {
		t.Errorf("en date = %q", got)
	}
	if got := vietnamese.Date(time.Time{}); got != "Không có ngày" {
		t.Errorf("zero date = %q", got)
	}
}

func TestTitle(t *testing.T) {
	if got := english.Title(""); got != "No title" {
		t.Errorf("Title(\"\") = %q", got)
	}
	if got := english.Title("Headline"); got != "Headline" {
		t.Errorf("Title() = %q", got)
	}
}
