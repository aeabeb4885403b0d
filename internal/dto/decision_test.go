package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAction_Escalate(t *testing.T) {
	assert.Equal(t, ActionPartialSell, ActionHold.Escalate(ActionPartialSell))
	assert.Equal(t, ActionSellNow, ActionPartialSell.Escalate(ActionSellNow))

	// Never drops back.
	assert.Equal(t, ActionSellNow, ActionSellNow.Escalate(ActionPartialSell))
	assert.Equal(t, ActionPartialSell, ActionPartialSell.Escalate(ActionHold))
}

func TestMarketSnapshot_Mark(t *testing.T) {
	option := 5.0
	spread := 3.5

	assert.InDelta(t, 5.0, (&MarketSnapshot{OptionMark: &option}).Mark(), 1e-9)
	assert.InDelta(t, 3.5, (&MarketSnapshot{SpreadMark: &spread}).Mark(), 1e-9)

	// Spread mark wins when both are set, matching the leg count rule.
	assert.InDelta(t, 3.5, (&MarketSnapshot{OptionMark: &option, SpreadMark: &spread}).Mark(), 1e-9)

	assert.Zero(t, (&MarketSnapshot{}).Mark())
}
