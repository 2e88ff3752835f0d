package report

import (
	"strings"
	"testing"
	"time"

	"golang-alpha-seek/internal/batch/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPositions() []dto.PositionSnapshot {
	return []dto.PositionSnapshot{
		{
			Ticker:  "AAA",
			Shares:  10,
			Metrics: dto.StockMetrics{Ticker: "AAA", CurrentPrice: 100, MarketCap: 2e12, PERatio: 25, TargetMeanPrice: 120, Recommendation: "buy"},
			Value:   1000,
			Verdict: dto.TickerVerdict{Summary: "doing well", Verdict: "Buy", Rationale: "growth intact"},
		},
		{
			Ticker:  "BBB",
			Shares:  5,
			Metrics: dto.StockMetrics{Ticker: "BBB", CurrentPrice: 50, Recommendation: "sell"},
			Value:   250,
			Verdict: dto.TickerVerdict{Summary: "under pressure", Verdict: "Sell", Rationale: "margins slipping", Outlook: "weak near term"},
		},
	}
}

func TestAssemble_PortfolioHeaderAndOrder(t *testing.T) {
	html, err := Assemble(Input{
		UserEmail:     "user@example.com",
		GeneratedAt:   time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC),
		NewsHTML:      "<li><a href='http://a'>headline</a></li>",
		Positions:     testPositions(),
		TotalValue:    1250,
		PortfolioMode: true,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "user@example.com")
	assert.Contains(t, html, "Total portfolio value: $1250.00")
	assert.Contains(t, html, "<li><a href='http://a'>headline</a></li>")

	// sections keep portfolio order
	assert.Less(t, strings.Index(html, "AAA"), strings.Index(html, "BBB"))
}

func TestAssemble_VerdictColors(t *testing.T) {
	positions := testPositions()
	positions = append(positions, dto.PositionSnapshot{
		Ticker:  "CCC",
		Metrics: dto.StockMetrics{Ticker: "CCC", CurrentPrice: 1},
		Verdict: dto.TickerVerdict{Summary: "flat", Verdict: "Hold", Rationale: "nothing new"},
	})

	html, err := Assemble(Input{
		UserEmail:     "user@example.com",
		GeneratedAt:   time.Now(),
		Positions:     positions,
		PortfolioMode: true,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "#166534")
	assert.Contains(t, html, "#991b1b")
	assert.Contains(t, html, "#854d0e")
}

func TestAssemble_UnknownVerdictRendersAsHold(t *testing.T) {
	html, err := Assemble(Input{
		UserEmail:   "user@example.com",
		GeneratedAt: time.Now(),
		Positions: []dto.PositionSnapshot{{
			Ticker:  "AAA",
			Metrics: dto.StockMetrics{Ticker: "AAA", CurrentPrice: 1},
			Verdict: dto.TickerVerdict{Summary: "?", Verdict: "STRONG BUY!!", Rationale: "?"},
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, ">Hold</span>")
	assert.Contains(t, html, "#854d0e")
}

func TestAssemble_MissingMetricsShowNA(t *testing.T) {
	html, err := Assemble(Input{
		UserEmail:   "user@example.com",
		GeneratedAt: time.Now(),
		Positions: []dto.PositionSnapshot{{
			Ticker:  "AAA",
			Metrics: dto.StockMetrics{Ticker: "AAA"},
			Verdict: dto.FallbackVerdict(),
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "Pending manual review.")
}

func TestAssemble_NoNewsNotice(t *testing.T) {
	html, err := Assemble(Input{
		UserEmail:   "user@example.com",
		GeneratedAt: time.Now(),
		NewsHTML:    "",
		Positions:   testPositions(),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "No relevant news was found")
}

func TestAssemble_SingleModeHidesTotal(t *testing.T) {
	html, err := Assemble(Input{
		UserEmail:     "user@example.com",
		GeneratedAt:   time.Now(),
		Positions:     testPositions()[:1],
		TotalValue:    1000,
		PortfolioMode: false,
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "Total portfolio value")
}

func TestAssemble_IndicatorsRenderedWhenPresent(t *testing.T) {
	positions := testPositions()[:1]
	positions[0].Indicators = &dto.IndicatorSet{SMA50: 101.5, SMA200: 95.25, RSI14: 61.8}

	html, err := Assemble(Input{
		UserEmail:   "user@example.com",
		GeneratedAt: time.Now(),
		Positions:   positions,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "101.50")
	assert.Contains(t, html, "95.25")
	assert.Contains(t, html, "61.80")
}
