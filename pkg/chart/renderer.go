package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"golang-alpha-seek/pkg/logger"
)

// Bar is one observation of an intraday price series.
type Bar struct {
	Timestamp time.Time
	Open      float64
	Close     float64
}

// Renderer rasterizes a price series into an image file.
type Renderer interface {
	Render(ticker string, bars []Bar) (string, error)
}

type pngRenderer struct {
	outputDir string
	logger    *logger.Logger
}

var (
	upColor   = drawing.Color{R: 0x16, G: 0x65, B: 0x34, A: 0xff}
	downColor = drawing.Color{R: 0x99, G: 0x1b, B: 0x1b, A: 0xff}
)

// NewPNGRenderer creates a Renderer that writes PNG files into outputDir,
// one file per ticker. The directory is created if missing.
func NewPNGRenderer(outputDir string, log *logger.Logger) (Renderer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart output dir: %w", err)
	}
	return &pngRenderer{outputDir: outputDir, logger: log}, nil
}

// Render draws a close-price line chart for the trailing 24 hours of bars
// and writes it to <outputDir>/<TICKER>_chart.png. The filename is derived
// from the ticker only, so repeated runs overwrite rather than accumulate.
// Returns "" with no error when the series is too short to draw.
func (r *pngRenderer) Render(ticker string, bars []Bar) (string, error) {
	subset := lastDay(bars)
	if len(subset) < 2 {
		r.logger.Warn("Not enough price history to render chart", logger.StringField("ticker", ticker))
		return "", nil
	}

	xs := make([]time.Time, len(subset))
	ys := make([]float64, len(subset))
	for i, b := range subset {
		xs[i] = b.Timestamp
		ys[i] = b.Close
	}

	lineColor := upColor
	if subset[len(subset)-1].Close < subset[0].Open {
		lineColor = downColor
	}
	fillColor := lineColor
	fillColor.A = 0x19

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s - Last 24 Hours", ticker),
		Width:  1000,
		Height: 500,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04"),
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    ticker,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
			},
		},
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("%s_chart.png", ticker))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(gochart.PNG, f); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to render chart for %s: %w", ticker, err)
	}

	return path, nil
}

// lastDay slices bars to those within 24 hours of the latest timestamp.
func lastDay(bars []Bar) []Bar {
	if len(bars) == 0 {
		return nil
	}
	cutoff := bars[len(bars)-1].Timestamp.Add(-24 * time.Hour)
	for i, b := range bars {
		if !b.Timestamp.Before(cutoff) {
			return bars[i:]
		}
	}
	return nil
}
