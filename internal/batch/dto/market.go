package dto

import "time"

// StockMetrics is a snapshot of quote and fundamental fields for one ticker.
// Any field may be zero when the provider omits it.
type StockMetrics struct {
	Ticker          string  `json:"ticker"`
	CurrentPrice    float64 `json:"current_price"`
	MarketCap       float64 `json:"market_cap"`
	PERatio         float64 `json:"pe_ratio"`
	TargetMeanPrice float64 `json:"target_mean_price"`
	Recommendation  string  `json:"recommendation"`
	Summary         string  `json:"summary"`
}

// Bar is one observation of a historical price series.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// StockSeries is an ordered historical price series for one ticker.
type StockSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Closes returns the close values of the series in order.
func (s *StockSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// GetStockDataParam selects a historical window for one ticker.
type GetStockDataParam struct {
	Ticker   string
	Range    string
	Interval string
}
