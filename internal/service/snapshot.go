package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"options-monitor/internal/dto"
	"options-monitor/internal/model"
	"options-monitor/internal/repository"
	"options-monitor/pkg/logger"
)

// breakevenStreakSessions is how many of the most recent closes the breakeven
// streak counters examine. This is a short-horizon confirmation signal, not a
// rolling window.
const breakevenStreakSessions = 2

// SnapshotBuilder assembles the read-only market facts one evaluation needs
// from the indicator and option-chain providers.
type SnapshotBuilder struct {
	marketData repository.MarketDataRepository
	chains     repository.OptionChainRepository
	log        *logger.Logger
}

func NewSnapshotBuilder(marketData repository.MarketDataRepository, chains repository.OptionChainRepository, log *logger.Logger) *SnapshotBuilder {
	return &SnapshotBuilder{
		marketData: marketData,
		chains:     chains,
		log:        log,
	}
}

// Build fetches live data for the position and its underlying. Provider
// failures propagate with the sentinel taxonomy; only the earnings lookup is
// best-effort.
func (b *SnapshotBuilder) Build(ctx context.Context, pos *model.Position) (*dto.MarketSnapshot, error) {
	ind, err := b.marketData.GetCoreIndicators(ctx, pos.Ticker)
	if err != nil {
		return nil, err
	}

	chain, err := b.chains.GetChain(ctx, pos.Ticker, pos.Expiry)
	if err != nil {
		return nil, err
	}

	side := chain.Calls
	if pos.Type.IsPut() {
		side = chain.Puts
	}

	longMark, err := legMark(side, pos.LongStrike)
	if err != nil {
		return nil, fmt.Errorf("%w: long leg strike %g for %s %s", dto.ErrLegNotFound, pos.LongStrike, pos.Ticker, pos.Expiry.Format("2006-01-02"))
	}

	snap := &dto.MarketSnapshot{
		Underlying: ind.Price,
		DTE:        daysUntil(pos.Expiry),
		RSI14:      ind.RSI14,
		SMA20:      ind.SMA20,
		SMA50:      ind.SMA50,
		SMA200:     ind.SMA200,
		MACD:       ind.MACD,
		MACDSignal: ind.MACDSignal,
		ATR14:      ind.ATR14,
		Breakeven:  pos.Breakeven(),
	}

	if pos.Type.IsSpread() {
		if pos.ShortStrike == nil {
			return nil, fmt.Errorf("%w: spread position %s has no short strike", dto.ErrLegNotFound, pos.Ticker)
		}
		shortMark, err := legMark(side, *pos.ShortStrike)
		if err != nil {
			return nil, fmt.Errorf("%w: short leg strike %g for %s %s", dto.ErrLegNotFound, *pos.ShortStrike, pos.Ticker, pos.Expiry.Format("2006-01-02"))
		}
		spread := CalcSpreadMark(longMark, shortMark)
		snap.SpreadMark = &spread
	} else {
		snap.OptionMark = &longMark
	}

	closes, err := b.marketData.RecentCloses(ctx, pos.Ticker, breakevenStreakSessions)
	if err != nil {
		b.log.WarnContext(ctx, "Failed to get recent closes for breakeven streaks",
			logger.StringField("ticker", pos.Ticker),
			logger.ErrorField(err))
	} else {
		for _, close := range closes {
			if close > snap.Breakeven {
				snap.AboveBreakevenDays++
			}
			if close < snap.Breakeven {
				snap.BelowBreakevenDays++
			}
		}
	}

	// Earnings lookup is best-effort: its absence never fails the snapshot.
	if days, found, err := b.marketData.NextEarningsInDays(ctx, pos.Ticker); err != nil {
		b.log.DebugContext(ctx, "Earnings date lookup failed",
			logger.StringField("ticker", pos.Ticker),
			logger.ErrorField(err))
	} else if found {
		snap.EarningsIn = &days
	}

	return snap, nil
}

// CalcSpreadMark returns the net mark of a debit vertical: long leg minus
// short leg. A negative value passes through unchanged.
func CalcSpreadMark(longMark, shortMark float64) float64 {
	return longMark - shortMark
}

// legMark returns the usable price for the requested strike: the bid/ask
// midpoint when both sides are strictly positive, otherwise the last trade.
func legMark(side []dto.OptionQuote, strike float64) (float64, error) {
	for _, quote := range side {
		if math.Abs(quote.Strike-strike) > 1e-6 {
			continue
		}
		if quote.Bid > 0 && quote.Ask > 0 {
			return (quote.Bid + quote.Ask) / 2, nil
		}
		return quote.Last, nil
	}
	return 0, fmt.Errorf("strike %g not in chain", strike)
}

// daysUntil returns calendar days from today to the expiry date. Negative for
// already-expired contracts.
func daysUntil(expiry time.Time) int {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(today).Hours() / 24)
}
