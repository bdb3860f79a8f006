package cache

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// PlaceholderImage is shown when an article carries no image.
const PlaceholderImage = "https://via.placeholder.com/300"

type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Link        string    `json:"link,omitempty"`
}

// Image returns the article image or the placeholder.
func (a Article) Image() string {
	if a.ImageURL == "" {
		return PlaceholderImage
	}
	return a.ImageURL
}

// Body returns the description, falling back to content.
func (a Article) Body() string {
	if a.Description != "" {
		return a.Description
	}
	return a.Content
}

// ArticleID derives a stable identity: the link when present, otherwise
// title and publish time. Identity never depends on list position.
func ArticleID(link, title string, published time.Time) string {
	key := link
	if key == "" {
		key = title + "|"
		if !published.IsZero() {
			key += published.UTC().Format(time.RFC3339)
		}
	}
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h[:16])
}
