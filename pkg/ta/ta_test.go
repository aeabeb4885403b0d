package ta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   float64
	}{
		{"empty series", nil, 20, 0},
		{"exact window", []float64{1, 2, 3, 4}, 4, 2.5},
		{"uses last period values", []float64{10, 10, 1, 2, 3}, 3, 2},
		{"short series averages everything", []float64{2, 4}, 20, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SMA(tt.values, tt.period), 1e-9)
		})
	}
}

func TestEMASeries(t *testing.T) {
	got := EMASeries([]float64{10, 20}, 3) // alpha = 0.5
	assert.Len(t, got, 2)
	assert.InDelta(t, 10, got[0], 1e-9)
	assert.InDelta(t, 15, got[1], 1e-9)

	assert.Nil(t, EMASeries(nil, 12))
}

func TestRSI(t *testing.T) {
	t.Run("too short returns neutral", func(t *testing.T) {
		assert.InDelta(t, 50, RSI([]float64{1, 2, 3}, 14), 1e-9)
	})

	t.Run("all gains saturate", func(t *testing.T) {
		values := make([]float64, 20)
		for i := range values {
			values[i] = float64(i)
		}
		assert.InDelta(t, 100, RSI(values, 14), 1e-9)
	})

	t.Run("flat series is neutral", func(t *testing.T) {
		values := make([]float64, 20)
		for i := range values {
			values[i] = 42
		}
		assert.InDelta(t, 50, RSI(values, 14), 1e-9)
	})

	t.Run("balanced gains and losses", func(t *testing.T) {
		// Alternating +1/-1 over the window: avgGain == avgLoss.
		values := make([]float64, 21)
		for i := range values {
			if i%2 == 0 {
				values[i] = 10
			} else {
				values[i] = 11
			}
		}
		assert.InDelta(t, 50, RSI(values, 14), 1e-6)
	})
}

func TestMACD(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		line, signal := MACD(nil, 12, 26, 9)
		assert.Zero(t, line)
		assert.Zero(t, signal)
	})

	t.Run("flat series has zero divergence", func(t *testing.T) {
		values := make([]float64, 60)
		for i := range values {
			values[i] = 100
		}
		line, signal := MACD(values, 12, 26, 9)
		assert.InDelta(t, 0, line, 1e-9)
		assert.InDelta(t, 0, signal, 1e-9)
	})

	t.Run("uptrend puts the fast ema above the slow", func(t *testing.T) {
		values := make([]float64, 60)
		for i := range values {
			values[i] = 100 + float64(i)
		}
		line, signal := MACD(values, 12, 26, 9)
		assert.Greater(t, line, 0.0)
		assert.Greater(t, line, signal)
	})
}

func TestATR(t *testing.T) {
	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Zero(t, ATR([]float64{1}, []float64{1, 2}, []float64{1, 2}, 14))
	})

	t.Run("constant range", func(t *testing.T) {
		highs := []float64{12, 12, 12, 12}
		lows := []float64{10, 10, 10, 10}
		closes := []float64{11, 11, 11, 11}
		assert.InDelta(t, 2, ATR(highs, lows, closes, 14), 1e-9)
	})

	t.Run("gap extends the true range", func(t *testing.T) {
		// Second session gaps up: high-prevClose dominates.
		highs := []float64{12, 20}
		lows := []float64{10, 19}
		closes := []float64{11, 19.5}
		assert.InDelta(t, (2+9)/2.0, ATR(highs, lows, closes, 14), 1e-9)
	})
}

func TestAvgDollarVolume(t *testing.T) {
	closes := []float64{10, 20}
	volumes := []float64{100, 200}
	assert.InDelta(t, 2500, AvgDollarVolume(closes, volumes, 20), 1e-9)

	assert.Zero(t, AvgDollarVolume(closes, []float64{1}, 20))
}
