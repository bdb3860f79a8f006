package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/locale"
)

func renderDetail(article cache.Article, msgs *locale.Messages, width, height, scroll int) string {
	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(msgs.Title(article.Title))
	date := detailDateStyle.Render(msgs.Date(article.PublishedAt))

	text := article.Body()
	if text == "" {
		text = msgs.NoContent
	}
	body := detailBodyStyle.Width(contentWidth).Render(wrapText(text, contentWidth))

	parts := []string{title, date, "", body}
	if article.Link != "" {
		parts = append(parts, "", detailLinkStyle.Width(contentWidth).Render("o  "+msgs.OpenLink+": "+article.Link))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
