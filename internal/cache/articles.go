package cache

import (
	"encoding/json"

	"github.com/DuongDinhDang/newsapp/internal/errkind"
)

// ArticlesKey is the single slot holding the last fetched article list.
const ArticlesKey = "cachedArticles"

// KV is the durable storage the article cache writes through.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// Articles persists the most recent article list as one JSON value. There is
// no expiry: only Clear or the next Set replaces it.
type Articles struct {
	kv KV
}

func NewArticles(kv KV) *Articles {
	return &Articles{kv: kv}
}

// Get returns the cached list, or nil when nothing is cached.
func (c *Articles) Get() ([]Article, error) {
	raw, ok, err := c.kv.Get(ArticlesKey)
	if err != nil {
		return nil, errkind.E(errkind.CacheFault, "cache get", err)
	}
	if !ok {
		return nil, nil
	}
	var list []Article
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errkind.E(errkind.CacheFault, "cache decode", err)
	}
	return list, nil
}

// Set replaces the cached list.
func (c *Articles) Set(list []Article) error {
	if list == nil {
		list = []Article{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return errkind.E(errkind.CacheFault, "cache encode", err)
	}
	if err := c.kv.Put(ArticlesKey, string(data)); err != nil {
		return errkind.E(errkind.CacheFault, "cache set", err)
	}
	return nil
}

func (c *Articles) Clear() error {
	if err := c.kv.Delete(ArticlesKey); err != nil {
		return errkind.E(errkind.CacheFault, "cache clear", err)
	}
	return nil
}
