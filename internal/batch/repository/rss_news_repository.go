package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/pkg/logger"
	"golang-alpha-seek/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

const snippetMaxLen = 280

type rssNewsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	parser     *gofeed.Parser
}

// NewRSSNewsRepository creates a NewsRepository that reads the public Yahoo
// Finance headline feeds instead of a paid search API. Snippets come from
// fetching each article and extracting readable text.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &rssNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		parser: gofeed.NewParser(),
	}
}

func (r *rssNewsRepository) Search(ctx context.Context, param dto.SearchNewsParam) ([]dto.NewsItem, error) {
	var items []dto.NewsItem
	cutoff := time.Now().Add(-time.Duration(param.Days*24) * time.Hour)

	for _, ticker := range param.Tickers {
		feedURL := fmt.Sprintf("https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US", ticker)
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
			continue
		}

		sort.Slice(feed.Items, func(i, j int) bool {
			if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
				return false
			}
			return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
		})

		for _, item := range feed.Items {
			if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
				continue
			}

			newsItem := dto.NewsItem{
				Title: utils.CleanToValidUTF8(item.Title),
				URL:   item.Link,
			}
			newsItem.PublishedAt = item.PublishedParsed

			if snippet, err := r.extractSnippet(ctx, item.Link); err != nil {
				r.log.DebugContext(ctx, "Failed to extract article snippet", logger.ErrorField(err), logger.StringField("url", item.Link))
			} else {
				newsItem.Snippet = snippet
			}

			items = append(items, newsItem)
			if len(items) >= r.cfg.News.MaxResults {
				return items, nil
			}
		}
	}

	return items, nil
}

func (r *rssNewsRepository) extractSnippet(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for news item: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch news content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch news content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}

	content := strings.Join(strings.Fields(docHTML.Text()), " ")
	content = utils.CleanToValidUTF8(content)
	if len(content) > snippetMaxLen {
		content = content[:snippetMaxLen] + "..."
	}
	return content, nil
}
