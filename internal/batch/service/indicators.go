package service

import "golang-alpha-seek/internal/batch/dto"

// minClosesForIndicators is the shortest close series the indicator set can
// be computed from. Below this the whole set is reported as unavailable
// rather than partially filled.
const minClosesForIndicators = 200

// ComputeIndicators derives SMA50, SMA200 and RSI14 from a daily close
// series ordered oldest to newest. Returns nil when the series is too short.
func ComputeIndicators(closes []float64) *dto.IndicatorSet {
	if len(closes) < minClosesForIndicators {
		return nil
	}

	return &dto.IndicatorSet{
		SMA50:  trailingMean(closes, 50),
		SMA200: trailingMean(closes, 200),
		RSI14:  rsi(closes, 14),
	}
}

func trailingMean(closes []float64, period int) float64 {
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period)
}

// rsi computes the Wilder relative strength index over the trailing period.
// A window with no downside moves saturates to 100.
func rsi(closes []float64, period int) float64 {
	window := closes[len(closes)-period-1:]

	var gains, losses float64
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
