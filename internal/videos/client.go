package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the default video search endpoint, an
// Invidious-compatible API. Override with TUTORA_VIDEO_API_URL or
// WithBaseURL for self-hosted instances.
const DefaultBaseURL = "https://yewtu.be"

// DefaultLimit is the number of videos fetched per topic.
const DefaultLimit = 10

// Video is one search result. Missing metadata falls back to display
// defaults rather than empty strings.
type Video struct {
	Title    string
	Link     string
	Channel  string
	Duration string
	Views    string
}

// Client searches an Invidious-compatible video API.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a video search client. TUTORA_VIDEO_API_URL takes
// effect unless WithBaseURL is given.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	if u := os.Getenv("TUTORA_VIDEO_API_URL"); u != "" {
		c.baseURL = u
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResult mirrors the Invidious /api/v1/search response shape.
// Only the fields we display are decoded.
type searchResult struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	VideoID       string `json:"videoId"`
	Author        string `json:"author"`
	LengthSeconds int    `json:"lengthSeconds"`
	ViewCount     int64  `json:"viewCount"`
	ViewCountText string `json:"viewCountText"`
}

// Search returns up to limit videos for the query. Results without a
// video ID are skipped. The caller is expected to treat an error as an
// empty result set; Search itself never panics.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Video, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	u := fmt.Sprintf("%s/api/v1/search?q=%s&type=video", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video search: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	videos := make([]Video, 0, limit)
	for _, r := range results {
		if r.VideoID == "" || (r.Type != "" && r.Type != "video") {
			continue
		}
		videos = append(videos, Video{
			Title:    orDefault(r.Title, "No title"),
			Link:     "https://www.youtube.com/watch?v=" + r.VideoID,
			Channel:  orDefault(r.Author, "Unknown"),
			Duration: formatDuration(r.LengthSeconds),
			Views:    formatViews(r.ViewCount, r.ViewCountText),
		})
		if len(videos) >= limit {
			break
		}
	}

	return videos, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	mins := seconds / 60
	secs := seconds % 60
	if mins >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", mins/60, mins%60, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func formatViews(count int64, text string) string {
	if text != "" {
		return text
	}
	if count <= 0 {
		return "N/A"
	}
	return strconv.FormatInt(count, 10) + " views"
}
