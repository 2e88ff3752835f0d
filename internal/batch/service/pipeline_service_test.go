package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/pkg/chart"
	"golang-alpha-seek/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketRepo struct {
	metrics    map[string]dto.StockMetrics
	metricsErr map[string]error
}

func (f *fakeMarketRepo) GetMetrics(_ context.Context, ticker string) (*dto.StockMetrics, error) {
	if err, ok := f.metricsErr[ticker]; ok {
		return nil, err
	}
	m, ok := f.metrics[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %s", ticker)
	}
	return &m, nil
}

func (f *fakeMarketRepo) GetHistory(_ context.Context, param dto.GetStockDataParam) (*dto.StockSeries, error) {
	return &dto.StockSeries{Ticker: param.Ticker}, nil
}

type fakeNewsRepo struct {
	items       []dto.NewsItem
	err         error
	searchCalls int
	queries     []string
}

func (f *fakeNewsRepo) Search(_ context.Context, param dto.SearchNewsParam) ([]dto.NewsItem, error) {
	f.searchCalls++
	f.queries = append(f.queries, param.Query)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeNarrativeRepo struct {
	err   error
	calls int
}

func (f *fakeNarrativeRepo) GenerateVerdict(_ context.Context, req dto.VerdictRequest) (*dto.TickerVerdict, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v := &dto.TickerVerdict{
		Summary:   "steady as she goes",
		Verdict:   "Buy",
		Rationale: "fundamentals look fine",
	}
	if req.PortfolioMode {
		v.Outlook = "stable within the portfolio"
	}
	return v, nil
}

// fakeChartRenderer writes a real file per ticker so cleanup behavior can be
// observed.
type fakeChartRenderer struct {
	dir string
}

func (f *fakeChartRenderer) Render(ticker string, _ []chart.Bar) (string, error) {
	path := filepath.Join(f.dir, ticker+"_chart.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeMailer struct {
	err       error
	sendCalls int
	lastTo    string
	lastBody  string
	lastPaths []string
}

func (f *fakeMailer) Send(_ context.Context, to, _ string, htmlBody string, attachmentPaths []string) error {
	f.sendCalls++
	f.lastTo = to
	f.lastBody = htmlBody
	f.lastPaths = append([]string(nil), attachmentPaths...)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Batch: config.Batch{
			MaxConcurrentTickers:  4,
			ReportSubjectTemplate: "Your Daily Portfolio Briefing - %s",
		},
		News: config.News{Days: 3, MaxResults: 3},
	}
}

func newTestPipeline(t *testing.T, market *fakeMarketRepo, news *fakeNewsRepo, narrative *fakeNarrativeRepo, mail *fakeMailer) PipelineService {
	t.Helper()
	return NewPipelineService(
		testConfig(),
		logger.NewNop(),
		market,
		news,
		narrative,
		&fakeChartRenderer{dir: t.TempDir()},
		mail,
	)
}

func TestRun_MissingInput(t *testing.T) {
	p := newTestPipeline(t, &fakeMarketRepo{}, &fakeNewsRepo{}, &fakeNarrativeRepo{}, &fakeMailer{})

	_, err := p.Run(context.Background(), dto.NewPipelineState("", []dto.Holding{{Ticker: "AAA"}}))
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = p.Run(context.Background(), dto.NewPipelineState("user@example.com", nil))
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestRun_PortfolioOrderAndTotal(t *testing.T) {
	market := &fakeMarketRepo{metrics: map[string]dto.StockMetrics{
		"AAA": {Ticker: "AAA", CurrentPrice: 10},
		"BBB": {Ticker: "BBB", CurrentPrice: 20},
	}}
	news := &fakeNewsRepo{items: []dto.NewsItem{{Title: "t", URL: "http://example.com"}}}
	mail := &fakeMailer{}
	p := newTestPipeline(t, market, news, &fakeNarrativeRepo{}, mail)

	state, err := p.Run(context.Background(), dto.NewPipelineState("user@example.com", []dto.Holding{
		{Ticker: "AAA", Shares: 100},
		{Ticker: "BBB", Shares: 50},
	}))
	require.NoError(t, err)

	require.Len(t, state.Positions, 2)
	assert.Equal(t, "AAA", state.Positions[0].Ticker)
	assert.Equal(t, "BBB", state.Positions[1].Ticker)
	assert.InDelta(t, 2000, state.TotalValue, 1e-9)
	assert.Equal(t, dto.DataComplete, state.ReportStatus)

	assert.Equal(t, 1, mail.sendCalls)
	assert.Equal(t, "user@example.com", mail.lastTo)
	assert.Contains(t, mail.lastBody, "AAA")
	assert.Contains(t, mail.lastBody, "BBB")
}

func TestRun_SingleTickerRetryIsBounded(t *testing.T) {
	market := &fakeMarketRepo{metrics: map[string]dto.StockMetrics{
		"AAA": {Ticker: "AAA", CurrentPrice: 10},
	}}
	news := &fakeNewsRepo{err: errors.New("search unavailable")}
	mail := &fakeMailer{}
	p := newTestPipeline(t, market, news, &fakeNarrativeRepo{}, mail)

	state, err := p.Run(context.Background(), dto.NewPipelineState("user@example.com", []dto.Holding{
		{Ticker: "AAA", Shares: 1},
	}))
	require.NoError(t, err)

	// initial pass plus two retries, then publish anyway
	assert.Equal(t, 3, news.searchCalls)
	assert.Equal(t, dto.MaxReportRetries, state.RetryCount)
	assert.Equal(t, dto.DataMissing, state.ReportStatus)
	assert.Equal(t, 1, mail.sendCalls)

	// retries rephrase the query instead of repeating it
	require.Len(t, news.queries, 3)
	assert.Equal(t, "AAA stock news", news.queries[0])
	assert.Equal(t, "AAA financial sentiment", news.queries[1])
	assert.Equal(t, "AAA financial sentiment", news.queries[2])
}

func TestRun_PortfolioNeverRetries(t *testing.T) {
	market := &fakeMarketRepo{metrics: map[string]dto.StockMetrics{
		"AAA": {Ticker: "AAA", CurrentPrice: 10},
		"BBB": {Ticker: "BBB", CurrentPrice: 20},
	}}
	news := &fakeNewsRepo{err: errors.New("search unavailable")}
	mail := &fakeMailer{}
	p := newTestPipeline(t, market, news, &fakeNarrativeRepo{}, mail)

	state, err := p.Run(context.Background(), dto.NewPipelineState("user@example.com", []dto.Holding{
		{Ticker: "AAA", Shares: 1},
		{Ticker: "BBB", Shares: 1},
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, news.searchCalls)
	assert.Equal(t, 0, state.RetryCount)
	assert.Equal(t, 1, mail.sendCalls)
}

func TestRun_FallbackVerdictStillPublishes(t *testing.T) {
	market := &fakeMarketRepo{metrics: map[string]dto.StockMetrics{
		"AAA": {Ticker: "AAA", CurrentPrice: 10},
		"BBB": {Ticker: "BBB", CurrentPrice: 20},
	}}
	news := &fakeNewsRepo{items: []dto.NewsItem{{Title: "t", URL: "http://example.com"}}}
	narrative := &fakeNarrativeRepo{err: errors.New("malformed model output")}
	mail := &fakeMailer{}
	p := newTestPipeline(t, market, news, narrative, mail)

	state, err := p.Run(context.Background(), dto.NewPipelineState("user@example.com", []dto.Holding{
		{Ticker: "AAA", Shares: 1},
		{Ticker: "BBB", Shares: 1},
	}))
	require.NoError(t, err)

	fallback := dto.FallbackVerdict()
	for _, pos := range state.Positions {
		assert.Equal(t, fallback, pos.Verdict)
	}
	assert.Equal(t, 1, mail.sendCalls)
	assert.Contains(t, mail.lastBody, "Pending manual review.")
}

func TestRun_MissingPriceCountsAsZero(t *testing.T) {
	market := &fakeMarketRepo{
		metrics:    map[string]dto.StockMetrics{"AAA": {Ticker: "AAA", CurrentPrice: 10}},
		metricsErr: map[string]error{"BBB": errors.New("quote unavailable")},
	}
	news := &fakeNewsRepo{items: []dto.NewsItem{{Title: "t", URL: "http://example.com"}}}
	mail := &fakeMailer{}
	p := newTestPipeline(t, market, news, &fakeNarrativeRepo{}, mail)

	state, err := p.Run(context.Background(), dto.NewPipelineState("user@example.com", []dto.Holding{
		{Ticker: "AAA", Shares: 5},
		{Ticker: "BBB", Shares: 7},
	}))
	require.NoError(t, err)

	require.Len(t, state.Positions, 2)
	assert.InDelta(t, 0, state.Positions[1].Value, 1e-9)
	assert.InDelta(t, 50, state.TotalValue, 1e-9)
	assert.Equal(t, dto.DataMissing, state.ReportStatus)
	assert.Equal(t, 1, mail.sendCalls)
}

func TestRun_ChartsRemovedEvenWhenDeliveryFails(t *testing.T) {
	market := &fakeMarketRepo{metrics: map[string]dto.StockMetrics{
		"AAA": {Ticker: "AAA", CurrentPrice: 10},
		"BBB": {Ticker: "BBB", CurrentPrice: 20},
	}}
	news := &fakeNewsRepo{items: []dto.NewsItem{{Title: "t", URL: "http://example.com"}}}
	mail := &fakeMailer{err: errors.New("smtp refused")}
	p := newTestPipeline(t, market, news, &fakeNarrativeRepo{}, mail)

	state, err := p.Run(context.Background(), dto.NewPipelineState("user@example.com", []dto.Holding{
		{Ticker: "AAA", Shares: 1},
		{Ticker: "BBB", Shares: 1},
	}))
	require.Error(t, err)

	require.NotEmpty(t, state.ChartPaths)
	for _, path := range state.ChartPaths {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "chart file should be removed: %s", path)
	}
}

func TestBuildNewsHTML_TopItemsOnly(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "first", URL: "http://a"},
		{Title: "second", URL: "http://b"},
		{Title: "third", URL: "http://c"},
		{Title: "fourth", URL: "http://d"},
	}

	html := buildNewsHTML(items, 3)
	assert.Equal(t, "<li><a href='http://a'>first</a></li><li><a href='http://b'>second</a></li><li><a href='http://c'>third</a></li>", html)
}
