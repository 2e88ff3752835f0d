package dto

import "time"

// NewsItem is one ranked search result from a news provider.
type NewsItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Snippet     string     `json:"snippet,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SearchNewsParam describes one news lookup. Query drives search-based
// providers; Tickers drives feed-based providers.
type SearchNewsParam struct {
	Query   string
	Tickers []string
	Days    int
}
