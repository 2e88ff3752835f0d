package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/internal/batch/report"
	"golang-alpha-seek/internal/batch/repository"
	"golang-alpha-seek/pkg/chart"
	"golang-alpha-seek/pkg/logger"
	"golang-alpha-seek/pkg/mailer"
	"golang-alpha-seek/pkg/utils"
)

// ErrMissingInput is returned when a run starts without a user email or a
// non-empty portfolio. Nothing has been published when this is returned.
var ErrMissingInput = errors.New("missing user email or portfolio")

// PipelineService runs the briefing pipeline for one user: research the
// news, collect market data per holding, synthesize narrative verdicts,
// and publish the report by email.
type PipelineService interface {
	Run(ctx context.Context, state dto.PipelineState) (dto.PipelineState, error)
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	marketRepo repository.MarketDataRepository,
	newsRepo repository.NewsRepository,
	narrativeRepo repository.NarrativeRepository,
	chartRenderer chart.Renderer,
	mail mailer.Mailer,
) PipelineService {
	return &pipelineService{
		cfg:           cfg,
		logger:        log,
		marketRepo:    marketRepo,
		newsRepo:      newsRepo,
		narrativeRepo: narrativeRepo,
		chartRenderer: chartRenderer,
		mailer:        mail,
	}
}

type pipelineService struct {
	cfg           *config.Config
	logger        *logger.Logger
	marketRepo    repository.MarketDataRepository
	newsRepo      repository.NewsRepository
	narrativeRepo repository.NarrativeRepository
	chartRenderer chart.Renderer
	mailer        mailer.Mailer
}

func (s *pipelineService) Run(ctx context.Context, state dto.PipelineState) (dto.PipelineState, error) {
	if state.UserEmail == "" || len(state.Portfolio) == 0 {
		return state, ErrMissingInput
	}

	if len(state.Portfolio) == 1 {
		return s.runSingle(ctx, state)
	}
	return s.runPortfolio(ctx, state)
}

// runSingle runs the single-ticker flow. When synthesis reports missing
// data, the run loops back to research up to MaxReportRetries times before
// publishing whatever it has.
func (s *pipelineService) runSingle(ctx context.Context, state dto.PipelineState) (dto.PipelineState, error) {
	for {
		state = s.research(ctx, state)
		state = s.collect(ctx, state)
		state = s.synthesize(ctx, state)

		if state.ReportStatus == dto.DataMissing && state.RetryCount < dto.MaxReportRetries {
			state.RetryCount++
			s.logger.InfoContext(ctx, "Report has missing data, retrying research",
				logger.StringField("user", state.UserEmail),
				logger.IntField("retry_count", state.RetryCount),
			)
			continue
		}

		return s.publish(ctx, state)
	}
}

// runPortfolio runs the multi-holding flow linearly. A single stale holding
// should not hold the whole briefing hostage, so there is no retry loop.
func (s *pipelineService) runPortfolio(ctx context.Context, state dto.PipelineState) (dto.PipelineState, error) {
	state = s.research(ctx, state)
	state = s.collect(ctx, state)
	state = s.synthesize(ctx, state)
	return s.publish(ctx, state)
}

func (s *pipelineService) research(ctx context.Context, state dto.PipelineState) dto.PipelineState {
	tickers := make([]string, len(state.Portfolio))
	for i, h := range state.Portfolio {
		tickers[i] = h.Ticker
	}

	// retries rephrase the query so a second pass can surface results the
	// first one missed
	query := strings.Join(tickers, " ") + " stock news"
	if state.RetryCount > 0 {
		query = strings.Join(tickers, " ") + " financial sentiment"
	}

	items, err := s.newsRepo.Search(ctx, dto.SearchNewsParam{
		Query:   query,
		Tickers: tickers,
		Days:    s.cfg.News.Days,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "News search failed", logger.ErrorField(err), logger.StringField("user", state.UserEmail))
		state.NewsHTML = ""
		state.NewsStatus = dto.DataMissing
		return state
	}
	if len(items) == 0 {
		state.NewsHTML = ""
		state.NewsStatus = dto.DataMissing
		return state
	}

	state.NewsHTML = buildNewsHTML(items, s.cfg.News.MaxResults)
	state.NewsStatus = dto.DataComplete
	return state
}

// buildNewsHTML renders the top items as list elements for direct embedding
// in the report body.
func buildNewsHTML(items []dto.NewsItem, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString(fmt.Sprintf("<li><a href='%s'>%s</a></li>", item.URL, item.Title))
	}
	return b.String()
}

// collect fans out one worker per holding. Results land in an indexed slice
// so portfolio order survives concurrent completion.
func (s *pipelineService) collect(ctx context.Context, state dto.PipelineState) dto.PipelineState {
	positions := make([]dto.PositionSnapshot, len(state.Portfolio))
	chartPaths := make([]string, len(state.Portfolio))

	maxConcurrent := s.cfg.Batch.MaxConcurrentTickers
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	semaphore := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	for i, holding := range state.Portfolio {
		if !utils.ShouldContinue(ctx) {
			break
		}
		i, holding := i, holding
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			positions[i], chartPaths[i] = s.collectOne(ctx, holding)
		})
	}
	wg.Wait()

	state.Positions = positions
	state.ChartPaths = state.ChartPaths[:0]
	for _, p := range chartPaths {
		if p != "" {
			state.ChartPaths = append(state.ChartPaths, p)
		}
	}

	total := 0.0
	for _, p := range positions {
		total += p.Value
	}
	state.TotalValue = total
	return state
}

// collectOne gathers the quote, indicators and chart for one holding. A
// provider failure degrades to zero fields rather than failing the run.
func (s *pipelineService) collectOne(ctx context.Context, holding dto.Holding) (dto.PositionSnapshot, string) {
	snapshot := dto.PositionSnapshot{
		Ticker: holding.Ticker,
		Shares: holding.Shares,
	}

	metrics, err := s.marketRepo.GetMetrics(ctx, holding.Ticker)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch metrics", logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
		snapshot.Metrics = dto.StockMetrics{Ticker: holding.Ticker}
	} else {
		snapshot.Metrics = *metrics
	}
	snapshot.Value = snapshot.Metrics.CurrentPrice * holding.Shares

	if s.cfg.Batch.EnableIndicators {
		daily, err := s.marketRepo.GetHistory(ctx, dto.GetStockDataParam{
			Ticker:   holding.Ticker,
			Range:    "1y",
			Interval: "1d",
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to fetch daily history", logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
		} else {
			snapshot.Indicators = ComputeIndicators(daily.Closes())
		}
	}

	chartPath := ""
	intraday, err := s.marketRepo.GetHistory(ctx, dto.GetStockDataParam{
		Ticker:   holding.Ticker,
		Range:    "5d",
		Interval: "30m",
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch intraday history", logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
	} else {
		bars := make([]chart.Bar, len(intraday.Bars))
		for j, b := range intraday.Bars {
			bars[j] = chart.Bar{Timestamp: b.Timestamp, Open: b.Open, Close: b.Close}
		}
		path, err := s.chartRenderer.Render(holding.Ticker, bars)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to render chart", logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
		} else {
			chartPath = path
		}
	}

	return snapshot, chartPath
}

func (s *pipelineService) synthesize(ctx context.Context, state dto.PipelineState) dto.PipelineState {
	portfolioMode := len(state.Portfolio) > 1

	for i := range state.Positions {
		if !utils.ShouldContinue(ctx) {
			break
		}
		verdict, err := s.narrativeRepo.GenerateVerdict(ctx, dto.VerdictRequest{
			Ticker:        state.Positions[i].Ticker,
			NewsHTML:      state.NewsHTML,
			Metrics:       state.Positions[i].Metrics,
			Indicators:    state.Positions[i].Indicators,
			PortfolioMode: portfolioMode,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Verdict generation failed, using fallback",
				logger.ErrorField(err),
				logger.StringField("ticker", state.Positions[i].Ticker),
			)
			state.Positions[i].Verdict = dto.FallbackVerdict()
			continue
		}
		state.Positions[i].Verdict = *verdict
	}

	html, err := report.Assemble(report.Input{
		UserEmail:     state.UserEmail,
		GeneratedAt:   time.Now(),
		NewsHTML:      state.NewsHTML,
		Positions:     state.Positions,
		TotalValue:    state.TotalValue,
		PortfolioMode: portfolioMode,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Report assembly failed", logger.ErrorField(err), logger.StringField("user", state.UserEmail))
		state.FinalReport = ""
		state.ReportStatus = dto.DataMissing
		return state
	}

	state.FinalReport = html
	state.ReportStatus = dto.DataComplete
	if state.NewsStatus == dto.DataMissing {
		state.ReportStatus = dto.DataMissing
	}
	for _, p := range state.Positions {
		if p.Metrics.CurrentPrice == 0 {
			state.ReportStatus = dto.DataMissing
			break
		}
	}
	return state
}

// publish emails the report with chart attachments. Chart files are removed
// afterwards whether or not delivery succeeded, so a failed send never
// leaves stale images for the next cycle.
func (s *pipelineService) publish(ctx context.Context, state dto.PipelineState) (dto.PipelineState, error) {
	defer func() {
		for _, path := range state.ChartPaths {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("Failed to remove chart file", logger.ErrorField(err), logger.StringField("path", path))
			}
		}
	}()

	if state.FinalReport == "" {
		return state, fmt.Errorf("no report to publish for %s", state.UserEmail)
	}

	subject := fmt.Sprintf(s.cfg.Batch.ReportSubjectTemplate, time.Now().Format("January 2, 2006"))
	if err := s.mailer.Send(ctx, state.UserEmail, subject, state.FinalReport, state.ChartPaths); err != nil {
		return state, fmt.Errorf("failed to send report to %s: %w", state.UserEmail, err)
	}

	s.logger.InfoContext(ctx, "Report published",
		logger.StringField("user", state.UserEmail),
		logger.IntField("tickers", len(state.Portfolio)),
		logger.StringField("report_status", string(state.ReportStatus)),
	)
	return state, nil
}
