package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/pkg/logger"

	"golang.org/x/time/rate"
)

type tavilyNewsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewTavilyNewsRepository creates a NewsRepository backed by the Tavily
// search API.
func NewTavilyNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Tavily.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &tavilyNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

type tavilySearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	Topic      string `json:"topic"`
	Days       int    `json:"days"`
	MaxResults int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (r *tavilyNewsRepository) Search(ctx context.Context, param dto.SearchNewsParam) ([]dto.NewsItem, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := tavilySearchRequest{
		APIKey:     r.cfg.Tavily.APIKey,
		Query:      param.Query,
		Topic:      "news",
		Days:       param.Days,
		MaxResults: r.cfg.News.MaxResults,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search payload: %w", err)
	}

	url := r.cfg.Tavily.BaseURL + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Tavily", logger.ErrorField(err), logger.StringField("query", param.Query))
		return nil, fmt.Errorf("failed to send request to Tavily: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.ErrorContext(ctx, "Received non-OK response from Tavily", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Tavily: %d - %s", resp.StatusCode, string(body))
	}

	var searchResp tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode Tavily response: %w", err)
	}

	items := make([]dto.NewsItem, 0, len(searchResp.Results))
	for _, result := range searchResp.Results {
		items = append(items, dto.NewsItem{
			Title:   result.Title,
			URL:     result.URL,
			Snippet: result.Content,
		})
	}

	r.log.DebugContext(ctx, "Tavily search completed", logger.StringField("query", param.Query), logger.IntField("results", len(items)))
	return items, nil
}
