package service

import (
	"context"
	"testing"
	"time"

	"options-monitor/internal/dto"
	"options-monitor/internal/model"
	"options-monitor/pkg/logger"
	"options-monitor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketData struct {
	ind       *dto.CoreIndicators
	indErr    error
	closes    []float64
	closesErr error
	earnDays  int
	earnFound bool
	earnErr   error
}

func (f *fakeMarketData) GetCoreIndicators(ctx context.Context, ticker string) (*dto.CoreIndicators, error) {
	return f.ind, f.indErr
}

func (f *fakeMarketData) RecentCloses(ctx context.Context, ticker string, n int) ([]float64, error) {
	return f.closes, f.closesErr
}

func (f *fakeMarketData) NextEarningsInDays(ctx context.Context, ticker string) (int, bool, error) {
	return f.earnDays, f.earnFound, f.earnErr
}

type fakeChains struct {
	chain *dto.OptionChain
	err   error
}

func (f *fakeChains) GetChain(ctx context.Context, ticker string, expiry time.Time) (*dto.OptionChain, error) {
	return f.chain, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func baseIndicators() *dto.CoreIndicators {
	return &dto.CoreIndicators{
		Price:      95,
		SMA20:      100,
		SMA50:      102,
		SMA200:     105,
		RSI14:      42,
		MACD:       -0.8,
		MACDSignal: -0.4,
		ATR14:      2.5,
	}
}

func expiryInDays(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

func TestSnapshotBuilder_SingleLeg(t *testing.T) {
	marketData := &fakeMarketData{
		ind:    baseIndicators(),
		closes: []float64{89, 88},
	}
	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{
			{Strike: 100, Bid: 4, Ask: 6, Last: 4.8},
			{Strike: 95, Bid: 2, Ask: 2.4, Last: 2.1},
		},
	}}
	builder := NewSnapshotBuilder(marketData, chains, testLogger(t))

	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	snap, err := builder.Build(context.Background(), pos)
	require.NoError(t, err)

	require.NotNil(t, snap.OptionMark)
	assert.InDelta(t, 5.0, *snap.OptionMark, 1e-9) // bid/ask midpoint
	assert.Nil(t, snap.SpreadMark)
	assert.InDelta(t, 5.0, snap.Mark(), 1e-9)
	assert.InDelta(t, 95.0, snap.Underlying, 1e-9)
	assert.InDelta(t, 90.0, snap.Breakeven, 1e-9) // strike - entry for a put
	assert.Equal(t, 30, snap.DTE)
}

func TestSnapshotBuilder_LastPriceFallback(t *testing.T) {
	marketData := &fakeMarketData{ind: baseIndicators(), closes: []float64{89, 88}}
	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{
			{Strike: 100, Bid: 0, Ask: 6, Last: 4.8},
		},
	}}
	builder := NewSnapshotBuilder(marketData, chains, testLogger(t))

	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	snap, err := builder.Build(context.Background(), pos)
	require.NoError(t, err)
	require.NotNil(t, snap.OptionMark)
	assert.InDelta(t, 4.8, *snap.OptionMark, 1e-9)
}

func TestSnapshotBuilder_SpreadMark(t *testing.T) {
	marketData := &fakeMarketData{ind: baseIndicators(), closes: []float64{89, 88}}
	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{
			{Strike: 100, Bid: 5, Ask: 6, Last: 5.4},
			{Strike: 90, Bid: 1.8, Ask: 2.2, Last: 1.9},
		},
	}}
	builder := NewSnapshotBuilder(marketData, chains, testLogger(t))

	pos := &model.Position{
		Ticker:      "NVDA",
		Type:        model.DebitSpreadPut,
		Expiry:      expiryInDays(30),
		LongStrike:  100,
		ShortStrike: utils.ToPointer(90.0),
		EntryPrice:  3,
	}

	snap, err := builder.Build(context.Background(), pos)
	require.NoError(t, err)

	require.NotNil(t, snap.SpreadMark)
	assert.InDelta(t, 3.5, *snap.SpreadMark, 1e-9) // 5.5 - 2.0
	assert.Nil(t, snap.OptionMark)
}

func TestCalcSpreadMark_NegativePassesThrough(t *testing.T) {
	assert.InDelta(t, 3.5, CalcSpreadMark(5.5, 2.0), 1e-9)
	assert.InDelta(t, -0.5, CalcSpreadMark(1.5, 2.0), 1e-9)
}

func TestSnapshotBuilder_LegNotFound(t *testing.T) {
	marketData := &fakeMarketData{ind: baseIndicators()}
	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{{Strike: 95, Bid: 2, Ask: 2.4, Last: 2.1}},
	}}
	builder := NewSnapshotBuilder(marketData, chains, testLogger(t))

	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	_, err := builder.Build(context.Background(), pos)
	assert.ErrorIs(t, err, dto.ErrLegNotFound)
}

func TestSnapshotBuilder_IndicatorErrorPropagates(t *testing.T) {
	marketData := &fakeMarketData{indErr: dto.ErrInsufficientData}
	builder := NewSnapshotBuilder(marketData, &fakeChains{}, testLogger(t))

	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	_, err := builder.Build(context.Background(), pos)
	assert.ErrorIs(t, err, dto.ErrInsufficientData)
}

func TestSnapshotBuilder_BreakevenStreaks(t *testing.T) {
	// Breakeven for this put is 90. Both recent closes above it.
	marketData := &fakeMarketData{ind: baseIndicators(), closes: []float64{91, 92}}
	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{{Strike: 100, Bid: 4, Ask: 6, Last: 4.8}},
	}}
	builder := NewSnapshotBuilder(marketData, chains, testLogger(t))

	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	snap, err := builder.Build(context.Background(), pos)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.AboveBreakevenDays)
	assert.Equal(t, 0, snap.BelowBreakevenDays)
}

func TestSnapshotBuilder_StreaksAreBestEffort(t *testing.T) {
	marketData := &fakeMarketData{ind: baseIndicators(), closesErr: dto.ErrDataUnavailable}
	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{{Strike: 100, Bid: 4, Ask: 6, Last: 4.8}},
	}}
	builder := NewSnapshotBuilder(marketData, chains, testLogger(t))

	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	snap, err := builder.Build(context.Background(), pos)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.AboveBreakevenDays)
	assert.Equal(t, 0, snap.BelowBreakevenDays)
}

func TestSnapshotBuilder_Earnings(t *testing.T) {
	tests := []struct {
		name       string
		marketData *fakeMarketData
		want       *int
	}{
		{
			name:       "known date populates the field",
			marketData: &fakeMarketData{ind: baseIndicators(), earnDays: 1, earnFound: true},
			want:       utils.ToPointer(1),
		},
		{
			name:       "unknown date leaves it nil",
			marketData: &fakeMarketData{ind: baseIndicators()},
			want:       nil,
		},
		{
			name:       "lookup failure never fails the snapshot",
			marketData: &fakeMarketData{ind: baseIndicators(), earnErr: dto.ErrDataUnavailable},
			want:       nil,
		},
	}

	chains := &fakeChains{chain: &dto.OptionChain{
		Puts: []dto.OptionQuote{{Strike: 100, Bid: 4, Ask: 6, Last: 4.8}},
	}}
	pos := &model.Position{
		Ticker:     "NVDA",
		Type:       model.LongPut,
		Expiry:     expiryInDays(30),
		LongStrike: 100,
		EntryPrice: 10,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewSnapshotBuilder(tt.marketData, chains, testLogger(t))
			snap, err := builder.Build(context.Background(), pos)
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.EarningsIn)
		})
	}
}
