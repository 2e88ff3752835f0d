package repository

import (
	"fmt"
	"strings"

	"golang-alpha-seek/internal/batch/dto"
)

func formatMetricsBlock(m dto.StockMetrics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("- Current Price: %.2f\n", m.CurrentPrice))
	b.WriteString(fmt.Sprintf("- Market Cap: %.0f\n", m.MarketCap))
	b.WriteString(fmt.Sprintf("- P/E Ratio: %.2f\n", m.PERatio))
	b.WriteString(fmt.Sprintf("- Analyst Target Mean Price: %.2f\n", m.TargetMeanPrice))
	b.WriteString(fmt.Sprintf("- Analyst Recommendation: %s\n", m.Recommendation))
	if m.Summary != "" {
		b.WriteString(fmt.Sprintf("- Company Profile: %s\n", m.Summary))
	}
	return b.String()
}

func formatIndicatorsBlock(ind *dto.IndicatorSet) string {
	if ind == nil {
		return "Technical indicators are unavailable for this ticker.\n"
	}
	return fmt.Sprintf("- SMA 50: %.2f\n- SMA 200: %.2f\n- RSI 14: %.2f\n", ind.SMA50, ind.SMA200, ind.RSI14)
}

// BuildTickerVerdictPrompt builds the single-ticker narrative prompt. The
// response contract is a bare JSON object with summary, verdict and
// rationale keys.
func BuildTickerVerdictPrompt(req dto.VerdictRequest) string {
	newsBlock := req.NewsHTML
	if strings.TrimSpace(newsBlock) == "" {
		newsBlock = "No recent news was found for this ticker. Base the analysis on fundamentals alone and say so in the summary."
	}

	return fmt.Sprintf(`You are an equity research analyst writing a concise daily briefing for a retail investor holding %s.

### RECENT NEWS
%s

### FINANCIAL METRICS
%s
### TECHNICAL INDICATORS
%s
Write a short narrative assessment of the stock based on the data above. Weigh the news against the fundamentals. Be direct; do not hedge every sentence.

Respond with ONLY a JSON object in this exact structure, no markdown fences, no prose around it:
{
  "summary": "<2-4 sentence narrative in plain English>",
  "verdict": "Buy | Sell | Hold",
  "rationale": "<1-2 sentences justifying the verdict>"
}`, req.Ticker, newsBlock, formatMetricsBlock(req.Metrics), formatIndicatorsBlock(req.Indicators))
}

// BuildPortfolioVerdictPrompt builds the per-ticker prompt used in
// portfolio runs. It adds an outlook key so the report can speak to how the
// position fits the wider holding context.
func BuildPortfolioVerdictPrompt(req dto.VerdictRequest) string {
	newsBlock := req.NewsHTML
	if strings.TrimSpace(newsBlock) == "" {
		newsBlock = "No recent news was found for this ticker."
	}

	return fmt.Sprintf(`You are an equity research analyst reviewing one position, %s, inside a retail investor's multi-stock portfolio.

### RECENT NEWS
%s

### FINANCIAL METRICS
%s
### TECHNICAL INDICATORS
%s
Assess this position on its own merits and comment briefly on its near-term outlook within a diversified portfolio.

Respond with ONLY a JSON object in this exact structure, no markdown fences, no prose around it:
{
  "summary": "<2-4 sentence narrative in plain English>",
  "verdict": "Buy | Sell | Hold",
  "rationale": "<1-2 sentences justifying the verdict>",
  "outlook": "<1 sentence near-term outlook for this position>"
}`, req.Ticker, newsBlock, formatMetricsBlock(req.Metrics), formatIndicatorsBlock(req.Indicators))
}
