package dto

import "strings"

// Verdict is the three-way recommendation attached to a ticker narrative.
type Verdict string

const (
	VerdictBuy  Verdict = "Buy"
	VerdictSell Verdict = "Sell"
	VerdictHold Verdict = "Hold"
)

// NormalizeVerdict maps raw model output onto the verdict enumeration,
// case-insensitively. Anything unrecognized becomes Hold.
func NormalizeVerdict(raw string) Verdict {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return VerdictBuy
	case "sell":
		return VerdictSell
	default:
		return VerdictHold
	}
}

// TickerVerdict is the structured narrative payload for one ticker.
// Outlook is only populated in portfolio mode.
type TickerVerdict struct {
	Summary   string `json:"summary"`
	Verdict   string `json:"verdict"`
	Rationale string `json:"rationale"`
	Outlook   string `json:"outlook,omitempty"`
}

// FallbackVerdict is the neutral payload substituted when the generation
// response cannot be decoded. The run keeps going; the report just says so.
func FallbackVerdict() TickerVerdict {
	return TickerVerdict{
		Summary:   "Analysis data unavailable due to formatting error.",
		Verdict:   string(VerdictHold),
		Rationale: "Pending manual review.",
	}
}

// VerdictRequest is the prompt payload for one narrative generation call.
type VerdictRequest struct {
	Ticker        string
	NewsHTML      string
	Metrics       StockMetrics
	Indicators    *IndicatorSet
	PortfolioMode bool
}
