package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	quoteCache     *cache.Cache
}

// NewYahooFinanceRepository creates a MarketDataRepository backed by the
// Yahoo Finance HTTP API. Quote snapshots are cached in-process because
// many users subscribe to the same tickers within one batch cycle.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	ttl := cfg.YahooFinance.QuoteCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: requestLimiter,
		quoteCache:     cache.New(ttl, 2*ttl),
	}
}

// quoteSummaryResponse mirrors the subset of the quoteSummary payload the
// batch consumes. Every field is optional on the wire.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				MarketCap          rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				TargetMeanPrice   rawValue `json:"targetMeanPrice"`
				RecommendationKey string   `json:"recommendationKey"`
			} `json:"financialData"`
			SummaryProfile *struct {
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"summaryProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// rawValue is Yahoo's {"raw": 123.45, "fmt": "123.45"} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

func (r *yahooFinanceRepository) GetMetrics(ctx context.Context, ticker string) (*dto.StockMetrics, error) {
	if cached, found := r.quoteCache.Get(ticker); found {
		metrics := cached.(dto.StockMetrics)
		return &metrics, nil
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,financialData,summaryProfile",
		r.cfg.YahooFinance.BaseURL, ticker)

	body, err := r.sendRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote summary for %s: %w", ticker, err)
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary result for %s", ticker)
	}

	result := resp.QuoteSummary.Result[0]
	metrics := dto.StockMetrics{Ticker: ticker}
	if result.Price != nil {
		metrics.CurrentPrice = result.Price.RegularMarketPrice.Raw
		metrics.MarketCap = result.Price.MarketCap.Raw
	}
	if result.SummaryDetail != nil {
		metrics.PERatio = result.SummaryDetail.TrailingPE.Raw
	}
	if result.FinancialData != nil {
		metrics.TargetMeanPrice = result.FinancialData.TargetMeanPrice.Raw
		metrics.Recommendation = result.FinancialData.RecommendationKey
	}
	if result.SummaryProfile != nil {
		metrics.Summary = truncate(result.SummaryProfile.LongBusinessSummary, 500)
	}

	r.quoteCache.Set(ticker, metrics, cache.DefaultExpiration)
	return &metrics, nil
}

// chartResponse mirrors the v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (r *yahooFinanceRepository) GetHistory(ctx context.Context, param dto.GetStockDataParam) (*dto.StockSeries, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		r.cfg.YahooFinance.BaseURL, param.Ticker, param.Range, param.Interval)

	body, err := r.sendRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chart data for %s: %w", param.Ticker, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", param.Ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return &dto.StockSeries{Ticker: param.Ticker}, nil
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := &dto.StockSeries{Ticker: param.Ticker}
	for i, ts := range result.Timestamp {
		// Bars with a null close are gaps; skip them entirely.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := dto.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		series.Bars = append(series.Bars, bar)
	}

	return series, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance", logger.ErrorField(err), logger.StringField("url", url))
		return nil, fmt.Errorf("failed to send request to Yahoo Finance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", url))
		return nil, fmt.Errorf("received non-OK response from Yahoo Finance: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
