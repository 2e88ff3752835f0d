package dto

// DataStatus is the explicit completeness flag carried by the pipeline
// state. Control flow inspects this, never the rendered report text.
type DataStatus string

const (
	DataComplete DataStatus = "complete"
	DataMissing  DataStatus = "missing_data"
)

// MaxReportRetries bounds the research retry loop in single-ticker runs.
const MaxReportRetries = 2

// Holding is one (ticker, shares) pair of a user's portfolio.
type Holding struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
}

// IndicatorSet is the trio of technical values computed from a daily close
// series. A nil *IndicatorSet means "unavailable"; partial sets are never
// produced.
type IndicatorSet struct {
	SMA50  float64 `json:"sma_50"`
	SMA200 float64 `json:"sma_200"`
	RSI14  float64 `json:"rsi_14"`
}

// PositionSnapshot is the collected state of one holding: quote fields,
// computed value, and the narrative verdict once synthesis has run.
type PositionSnapshot struct {
	Ticker     string        `json:"ticker"`
	Shares     float64       `json:"shares"`
	Metrics    StockMetrics  `json:"metrics"`
	Value      float64       `json:"value"`
	Indicators *IndicatorSet `json:"indicators,omitempty"`
	Verdict    TickerVerdict `json:"verdict"`
}

// PipelineState is the single value threaded through one user's run. Each
// stage receives the state by value and returns an updated copy; nothing
// mutates it in place.
type PipelineState struct {
	UserEmail string    `json:"user_email"`
	Portfolio []Holding `json:"portfolio"`

	// research output
	NewsHTML   string     `json:"news_html"`
	NewsStatus DataStatus `json:"news_status"`

	// collection output
	Positions  []PositionSnapshot `json:"positions"`
	TotalValue float64            `json:"total_value"`
	ChartPaths []string           `json:"chart_paths"`

	// synthesis output
	FinalReport  string     `json:"final_report"`
	ReportStatus DataStatus `json:"report_status"`
	RetryCount   int        `json:"retry_count"`
}

// NewPipelineState creates the initial state for one user's run.
func NewPipelineState(userEmail string, portfolio []Holding) PipelineState {
	return PipelineState{
		UserEmail: userEmail,
		Portfolio: portfolio,
	}
}

// PortfolioTask is the redis stream payload for one user's run in serve
// mode.
type PortfolioTask struct {
	UserEmail string    `json:"user_email"`
	Portfolio []Holding `json:"portfolio"`
}
