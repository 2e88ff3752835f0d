package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-alpha-seek/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBars(n int, start time.Time, step time.Duration) []Bar {
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{
			Timestamp: start.Add(time.Duration(i) * step),
			Open:      100 + float64(i),
			Close:     101 + float64(i),
		}
	}
	return bars
}

func TestRender_WritesTickerNamedFile(t *testing.T) {
	dir := t.TempDir()
	r, err := NewPNGRenderer(dir, logger.NewNop())
	require.NoError(t, err)

	bars := makeBars(48, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), 30*time.Minute)
	path, err := r.Render("AAPL", bars)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "AAPL_chart.png"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRender_OverwritesOnRepeatedRuns(t *testing.T) {
	dir := t.TempDir()
	r, err := NewPNGRenderer(dir, logger.NewNop())
	require.NoError(t, err)

	bars := makeBars(48, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), 30*time.Minute)
	first, err := r.Render("MSFT", bars)
	require.NoError(t, err)
	second, err := r.Render("MSFT", bars)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRender_TooFewBarsSkips(t *testing.T) {
	r, err := NewPNGRenderer(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	path, err := r.Render("AAPL", makeBars(1, time.Now(), time.Minute))
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLastDay_SlicesTrailingWindow(t *testing.T) {
	start := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	bars := makeBars(5*48, start, 30*time.Minute)

	subset := lastDay(bars)
	require.NotEmpty(t, subset)

	last := bars[len(bars)-1].Timestamp
	cutoff := last.Add(-24 * time.Hour)
	for _, b := range subset {
		assert.False(t, b.Timestamp.Before(cutoff))
	}
	// the bar just before the window is excluded
	assert.Equal(t, 49, len(subset))
}

func TestLastDay_Empty(t *testing.T) {
	assert.Nil(t, lastDay(nil))
}
