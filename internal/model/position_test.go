package model

import (
	"testing"
	"time"

	"options-monitor/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestPositionType(t *testing.T) {
	assert.True(t, LongPut.IsPut())
	assert.True(t, DebitSpreadPut.IsPut())
	assert.False(t, LongCall.IsPut())
	assert.False(t, DebitSpreadCall.IsPut())

	assert.True(t, DebitSpreadCall.IsSpread())
	assert.True(t, DebitSpreadPut.IsSpread())
	assert.False(t, LongPut.IsSpread())
	assert.False(t, LongCall.IsSpread())

	assert.True(t, LongPut.Valid())
	assert.False(t, PositionType("SHORT_STRANGLE").Valid())
}

func TestPosition_IdentityKey(t *testing.T) {
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	single := &Position{
		Ticker:     "NVDA",
		Type:       LongPut,
		Expiry:     expiry,
		LongStrike: 100,
		EntryPrice: 10,
	}
	assert.Equal(t, "NVDA|2026-10-16|LONG_PUT|100|-", single.IdentityKey())

	spread := &Position{
		Ticker:      "NVDA",
		Type:        DebitSpreadPut,
		Expiry:      expiry,
		LongStrike:  100,
		ShortStrike: utils.ToPointer(90.0),
		EntryPrice:  3,
	}
	assert.Equal(t, "NVDA|2026-10-16|DEBIT_SPREAD_PUT|100|90", spread.IdentityKey())

	// Entry price is not part of the identity: two fills of the same contract
	// share trailing state.
	other := *single
	other.EntryPrice = 12
	assert.Equal(t, single.IdentityKey(), other.IdentityKey())
}

func TestPosition_Breakeven(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want float64
	}{
		{"put subtracts the debit", Position{Type: LongPut, LongStrike: 100, EntryPrice: 10}, 90},
		{"call adds the debit", Position{Type: LongCall, LongStrike: 100, EntryPrice: 10}, 110},
		{"put spread uses the long strike", Position{Type: DebitSpreadPut, LongStrike: 100, ShortStrike: utils.ToPointer(90.0), EntryPrice: 3}, 97},
		{"call spread uses the long strike", Position{Type: DebitSpreadCall, LongStrike: 100, ShortStrike: utils.ToPointer(110.0), EntryPrice: 3}, 103},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.pos.Breakeven(), 1e-9)
		})
	}
}
