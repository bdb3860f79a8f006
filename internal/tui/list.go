package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/locale"
)

func renderListItem(a cache.Article, msgs *locale.Messages, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	title := msgs.Title(a.Title)
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(title, width-4))
	}

	meta := "  " + itemTimeStyle.Render(msgs.Date(a.PublishedAt))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(articles []cache.Article, msgs *locale.Messages, cursor int, height int, width int) string {
	if len(articles) == 0 {
		return center(msgs.NoResults, width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(articles) {
		end = len(articles)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(articles[i], msgs, i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func center(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
