// Package ta implements the handful of technical indicators the monitor
// consumes: simple moving averages, rolling-mean RSI, MACD and ATR.
package ta

import "math"

// SMA returns the simple moving average of the last period values. When the
// series is shorter than period the full series is averaged.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if period > len(values) {
		period = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMASeries returns the exponential moving average series with
// alpha = 2/(span+1), seeded with the first value.
func EMASeries(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the relative strength index over the last period price changes,
// using rolling means of gains and losses.
func RSI(values []float64, period int) float64 {
	if len(values) < period+1 {
		return 50
	}
	var gain, loss float64
	for i := len(values) - period; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD returns the latest MACD line and signal line values for the standard
// 12/26/9 configuration.
func MACD(values []float64, fast, slow, signalSpan int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	emaFast := EMASeries(values, fast)
	emaSlow := EMASeries(values, slow)
	line := make([]float64, len(values))
	for i := range values {
		line[i] = emaFast[i] - emaSlow[i]
	}
	signal := EMASeries(line, signalSpan)
	return line[len(line)-1], signal[len(signal)-1]
}

// ATR returns the average true range over the last period sessions.
func ATR(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if n == 0 || len(highs) != n || len(lows) != n {
		return 0
	}
	tr := make([]float64, n)
	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return SMA(tr, period)
}

// AvgDollarVolume returns the mean of close*volume over the last period sessions.
func AvgDollarVolume(closes, volumes []float64, period int) float64 {
	n := len(closes)
	if n == 0 || len(volumes) != n {
		return 0
	}
	dollar := make([]float64, n)
	for i := range closes {
		dollar[i] = closes[i] * volumes[i]
	}
	return SMA(dollar, period)
}
