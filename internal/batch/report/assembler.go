package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"golang-alpha-seek/internal/batch/dto"
)

// Input is everything the assembler needs to render one user's briefing.
// Positions must already be in portfolio order; the assembler never reorders.
type Input struct {
	UserEmail     string
	GeneratedAt   time.Time
	NewsHTML      string
	Positions     []dto.PositionSnapshot
	TotalValue    float64
	PortfolioMode bool
}

type positionView struct {
	Ticker          string
	Shares          string
	Value           string
	CurrentPrice    string
	MarketCap       string
	PERatio         string
	TargetMeanPrice string
	Recommendation  string
	Summary         string
	Verdict         string
	VerdictColor    string
	VerdictSummary  string
	Rationale       string
	Outlook         string
	HasIndicators   bool
	SMA50           string
	SMA200          string
	RSI14           string
}

type reportView struct {
	UserEmail     string
	GeneratedAt   string
	PortfolioMode bool
	TotalValue    string
	HasNews       bool
	NewsHTML      template.HTML
	Positions     []positionView
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #1f2937; max-width: 720px; margin: 0 auto; }
  h1 { font-size: 22px; border-bottom: 2px solid #e5e7eb; padding-bottom: 8px; }
  h2 { font-size: 18px; margin-bottom: 4px; }
  .meta { color: #6b7280; font-size: 13px; }
  .total { font-size: 16px; font-weight: bold; margin: 12px 0; }
  .position { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px 16px; margin: 16px 0; }
  .verdict { display: inline-block; color: #ffffff; padding: 2px 10px; border-radius: 4px; font-weight: bold; }
  table { border-collapse: collapse; font-size: 13px; margin: 8px 0; }
  td { padding: 2px 12px 2px 0; }
  td.k { color: #6b7280; }
  .news ul { padding-left: 20px; }
  .notice { color: #6b7280; font-style: italic; }
</style>
</head>
<body>
  <h1>Daily Portfolio Briefing</h1>
  <p class="meta">Prepared for {{.UserEmail}} on {{.GeneratedAt}}</p>
  {{if .PortfolioMode}}<p class="total">Total portfolio value: {{.TotalValue}}</p>{{end}}

  <div class="news">
    <h2>Recent News</h2>
    {{if .HasNews}}<ul>{{.NewsHTML}}</ul>{{else}}<p class="notice">No relevant news was found in the last few days.</p>{{end}}
  </div>

  {{range .Positions}}
  <div class="position">
    <h2>{{.Ticker}} <span class="verdict" style="background-color: {{.VerdictColor}}">{{.Verdict}}</span></h2>
    {{if $.PortfolioMode}}<p class="meta">{{.Shares}} shares, position value {{.Value}}</p>{{end}}
    <table>
      <tr><td class="k">Current Price</td><td>{{.CurrentPrice}}</td></tr>
      <tr><td class="k">Market Cap</td><td>{{.MarketCap}}</td></tr>
      <tr><td class="k">P/E Ratio</td><td>{{.PERatio}}</td></tr>
      <tr><td class="k">Analyst Target</td><td>{{.TargetMeanPrice}}</td></tr>
      <tr><td class="k">Recommendation</td><td>{{.Recommendation}}</td></tr>
      {{if .HasIndicators}}
      <tr><td class="k">SMA 50</td><td>{{.SMA50}}</td></tr>
      <tr><td class="k">SMA 200</td><td>{{.SMA200}}</td></tr>
      <tr><td class="k">RSI 14</td><td>{{.RSI14}}</td></tr>
      {{end}}
    </table>
    <p>{{.VerdictSummary}}</p>
    <p><strong>Rationale:</strong> {{.Rationale}}</p>
    {{if .Outlook}}<p><strong>Outlook:</strong> {{.Outlook}}</p>{{end}}
    {{if .Summary}}<p class="meta">{{.Summary}}</p>{{end}}
  </div>
  {{end}}

  <p class="meta">This briefing is generated automatically and is not investment advice.</p>
</body>
</html>`

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

func verdictColor(v string) string {
	switch dto.NormalizeVerdict(v) {
	case dto.VerdictBuy:
		return "#166534"
	case dto.VerdictSell:
		return "#991b1b"
	default:
		return "#854d0e"
	}
}

// formatMoney renders a positive amount as a dollar figure and zero as N/A,
// since a zero quote means the provider had nothing for the field.
func formatMoney(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", v)
}

func formatRatio(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatMarketCap(v float64) string {
	switch {
	case v == 0:
		return "N/A"
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// Assemble renders the briefing HTML. It is a pure function of its input;
// delivery and persistence happen elsewhere.
func Assemble(in Input) (string, error) {
	view := reportView{
		UserEmail:     in.UserEmail,
		GeneratedAt:   in.GeneratedAt.Format("Monday, January 2 2006"),
		PortfolioMode: in.PortfolioMode,
		TotalValue:    fmt.Sprintf("$%.2f", in.TotalValue),
		HasNews:       in.NewsHTML != "",
		NewsHTML:      template.HTML(in.NewsHTML),
	}

	for _, p := range in.Positions {
		pv := positionView{
			Ticker:          p.Ticker,
			Shares:          fmt.Sprintf("%.2f", p.Shares),
			Value:           formatMoney(p.Value),
			CurrentPrice:    formatMoney(p.Metrics.CurrentPrice),
			MarketCap:       formatMarketCap(p.Metrics.MarketCap),
			PERatio:         formatRatio(p.Metrics.PERatio),
			TargetMeanPrice: formatMoney(p.Metrics.TargetMeanPrice),
			Recommendation:  p.Metrics.Recommendation,
			Summary:         p.Metrics.Summary,
			Verdict:         string(dto.NormalizeVerdict(p.Verdict.Verdict)),
			VerdictColor:    verdictColor(p.Verdict.Verdict),
			VerdictSummary:  p.Verdict.Summary,
			Rationale:       p.Verdict.Rationale,
			Outlook:         p.Verdict.Outlook,
		}
		if pv.Recommendation == "" {
			pv.Recommendation = "N/A"
		}
		if p.Indicators != nil {
			pv.HasIndicators = true
			pv.SMA50 = fmt.Sprintf("%.2f", p.Indicators.SMA50)
			pv.SMA200 = fmt.Sprintf("%.2f", p.Indicators.SMA200)
			pv.RSI14 = fmt.Sprintf("%.2f", p.Indicators.RSI14)
		}
		view.Positions = append(view.Positions, pv)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.String(), nil
}
