package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantSeries(n int, v float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = v
	}
	return closes
}

func TestComputeIndicators_TooShortReturnsNil(t *testing.T) {
	assert.Nil(t, ComputeIndicators(nil))
	assert.Nil(t, ComputeIndicators(constantSeries(199, 10)))
}

func TestComputeIndicators_ConstantSeries(t *testing.T) {
	ind := ComputeIndicators(constantSeries(200, 42))
	require.NotNil(t, ind)

	assert.InDelta(t, 42, ind.SMA50, 1e-9)
	assert.InDelta(t, 42, ind.SMA200, 1e-9)
	// no downside moves, RSI saturates
	assert.Equal(t, 100.0, ind.RSI14)
}

func TestComputeIndicators_TrailingMeans(t *testing.T) {
	// 150 closes at 10, then 50 at 20: SMA50 sees only the tail.
	closes := append(constantSeries(150, 10), constantSeries(50, 20)...)
	ind := ComputeIndicators(closes)
	require.NotNil(t, ind)

	assert.InDelta(t, 20, ind.SMA50, 1e-9)
	assert.InDelta(t, (150*10.0+50*20.0)/200, ind.SMA200, 1e-9)
}

func TestComputeIndicators_RSIBalancedMoves(t *testing.T) {
	// Alternating +1/-1 moves give equal average gain and loss, RSI 50.
	closes := constantSeries(200, 100)
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	ind := ComputeIndicators(closes)
	require.NotNil(t, ind)
	assert.InDelta(t, 50, ind.RSI14, 1e-9)
}

func TestComputeIndicators_RSIAllGainsSaturates(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	ind := ComputeIndicators(closes)
	require.NotNil(t, ind)
	assert.Equal(t, 100.0, ind.RSI14)
}
