package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/errkind"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the newsdata.io latest-news endpoint.
const DefaultEndpoint = "https://newsdata.io/api/1/news"

type Options struct {
	Endpoint string
	APIKey   string
	Country  string
	Language string
	// Limiter, when set, paces outgoing requests.
	Limiter *rate.Limiter
}

// Client queries a single news endpoint. It never retries; retrying is up to
// the caller.
type Client struct {
	opts   Options
	http   *http.Client
	logger *slog.Logger
}

func NewClient(opts Options, httpClient *http.Client, logger *slog.Logger) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Country == "" {
		opts.Country = "us"
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{opts: opts, http: httpClient, logger: logger}
}

type envelope struct {
	Results []wireArticle `json:"results"`
}

type wireArticle struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Content     string `json:"content"`
	PubDate     string `json:"pubDate"`
	ImageURL    string `json:"image_url"`
}

// TopArticles fetches the current headlines.
func (c *Client) TopArticles(ctx context.Context) ([]cache.Article, error) {
	q := url.Values{}
	q.Set("apikey", c.opts.APIKey)
	q.Set("country", c.opts.Country)
	q.Set("language", c.opts.Language)
	return c.get(ctx, "top articles", q)
}

// Search fetches articles matching query.
func (c *Client) Search(ctx context.Context, query string) ([]cache.Article, error) {
	q := url.Values{}
	q.Set("apikey", c.opts.APIKey)
	q.Set("q", query)
	q.Set("language", c.opts.Language)
	return c.get(ctx, "search", q)
}

func (c *Client) get(ctx context.Context, op string, q url.Values) ([]cache.Article, error) {
	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx); err != nil {
			return nil, errkind.E(errkind.Unreachable, op, fmt.Errorf("waiting for request budget: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errkind.E(errkind.Unreachable, op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errkind.E(errkind.Unreachable, op, err)
	}
	defer resp.Body.Close()

	if kind := classifyStatus(resp.StatusCode); kind != errkind.None {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("feed request failed",
			"op", op,
			"status_code", resp.StatusCode,
			"kind", kind.String(),
			"response_body", string(body))
		return nil, &errkind.Error{Kind: kind, Op: op, Status: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errkind.E(errkind.Unreachable, op, fmt.Errorf("decoding response: %w", err))
	}

	articles := make([]cache.Article, 0, len(env.Results))
	for _, w := range env.Results {
		articles = append(articles, normalize(w))
	}
	c.logger.Debug("feed request done", "op", op, "count", len(articles))
	return articles, nil
}

func classifyStatus(code int) errkind.Kind {
	switch {
	case code == http.StatusTooManyRequests:
		return errkind.RateLimited
	case code == http.StatusUnauthorized:
		return errkind.Unauthorized
	case code < 200 || code > 299:
		return errkind.Unreachable
	default:
		return errkind.None
	}
}
