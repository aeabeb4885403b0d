package service

import (
	"options-monitor/internal/dto"
	"options-monitor/internal/model"
)

// Rationale strings emitted by the rule chain.
const (
	reasonStopLoss          = "Hit stop loss"
	reasonTimeStop          = "Time stop: close to expiry and not profitable"
	reasonFullTakeProfit    = "≥100% gain"
	reasonTakeProfit        = "Hit profit target"
	reasonTrailingStop      = "Trailing stop hit"
	reasonPutMomentumFlip   = "Momentum flipped against put"
	reasonPutBreakevenDays  = "Underlying above breakeven for 2 days"
	reasonCallMomentumFlip  = "Momentum flipped against call"
	reasonCallBreakevenDays = "Underlying below breakeven for 2 days"
	reasonPutAboveBreakeven = "Underlying above breakeven + buffer"
	reasonPutBearishCaution = "Above breakeven but momentum bearish"
	reasonCallBelowBreakeven = "Underlying below breakeven - buffer"
	reasonCallBullishCaution = "Below breakeven but momentum bullish"
	reasonEarningsSoon      = "Earnings soon; consider reducing"
	reasonNoTriggers        = "No sell triggers hit"
)

// evaluation carries the escalating state of one pass through the rule chain.
type evaluation struct {
	pos  *model.Position
	snap *dto.MarketSnapshot
	cfg  dto.SellConfig
	peak float64
	mark float64

	action    dto.Action
	rationale []string
}

// escalate raises the action (never lowers it) and records the reason.
func (e *evaluation) escalate(to dto.Action, reason string) {
	e.action = e.action.Escalate(to)
	e.rationale = append(e.rationale, reason)
}

// note records a rationale entry without changing the action.
func (e *evaluation) note(reason string) {
	e.rationale = append(e.rationale, reason)
}

// Evaluate runs the prioritized exit rule chain for a position against a
// snapshot. It is pure: peak tracking and snapshot building happen before the
// call. Given a valid snapshot it always produces a decision with at least one
// rationale entry.
func Evaluate(pos *model.Position, snap *dto.MarketSnapshot, cfg dto.SellConfig, peak float64) *dto.Decision {
	limits := dto.Limits{
		EntryPrice:       pos.EntryPrice,
		TakeProfitAt:     pos.EntryPrice * (1 + cfg.TakeProfitPct),
		StopLossAt:       pos.EntryPrice * (1 - cfg.StopLossPct),
		TrailFromPeakPct: cfg.TrailPct * 100,
	}

	e := &evaluation{
		pos:    pos,
		snap:   snap,
		cfg:    cfg,
		peak:   peak,
		mark:   snap.Mark(),
		action: dto.ActionHold,
	}

	// Hard risk controls short-circuit the rest of the chain.
	if e.hardStopLoss() || e.timeStop() {
		return &dto.Decision{
			Action:    dto.ActionSellNow,
			Snapshot:  snap,
			Rationale: e.rationale,
			Limits:    limits,
		}
	}

	e.profitTaking(limits.TakeProfitAt)
	e.trailingStop()
	e.technicalInvalidation()
	e.breakevenBuffer()
	e.earningsHeuristic()

	if len(e.rationale) == 0 {
		e.note(reasonNoTriggers)
	}

	return &dto.Decision{
		Action:    e.action,
		Snapshot:  snap,
		Rationale: e.rationale,
		Limits:    limits,
	}
}

// hardStopLoss: mark at or below the stop loss price sells immediately,
// before every other rule including the time stop.
func (e *evaluation) hardStopLoss() bool {
	if e.mark <= e.pos.EntryPrice*(1-e.cfg.StopLossPct) {
		e.escalate(dto.ActionSellNow, reasonStopLoss)
		return true
	}
	return false
}

// timeStop: close to expiry and not profitable sells immediately.
// "Profitable" here is the type-specific breakeven test against the
// underlying, deliberately distinct from the mark-vs-entry test that
// profit taking uses.
func (e *evaluation) timeStop() bool {
	if e.snap.DTE <= e.cfg.TimeStopDays && !e.profitable() {
		e.escalate(dto.ActionSellNow, reasonTimeStop)
		return true
	}
	return false
}

func (e *evaluation) profitable() bool {
	if e.pos.Type.IsPut() {
		return e.snap.Underlying < e.snap.Breakeven-e.cfg.BreakevenBuffer
	}
	return e.snap.Underlying > e.snap.Breakeven+e.cfg.BreakevenBuffer
}

func (e *evaluation) profitTaking(takeProfitAt float64) {
	switch {
	case e.mark >= e.pos.EntryPrice*2:
		e.escalate(dto.ActionSellNow, reasonFullTakeProfit)
	case e.mark >= takeProfitAt:
		e.escalate(dto.ActionPartialSell, reasonTakeProfit)
	}
}

func (e *evaluation) trailingStop() {
	if e.action != dto.ActionHold {
		return
	}
	if e.mark <= e.peak*(1-e.cfg.TrailPct) {
		e.escalate(dto.ActionSellNow, reasonTrailingStop)
	}
}

// technicalInvalidation applies to single legs only; verticals are already
// hedged by their short leg.
func (e *evaluation) technicalInvalidation() {
	if e.action != dto.ActionHold {
		return
	}
	switch e.pos.Type {
	case model.LongPut:
		if e.snap.Underlying > e.snap.SMA20 && e.snap.MACD >= e.snap.MACDSignal && e.snap.RSI14 > 50 {
			e.escalate(dto.ActionSellNow, reasonPutMomentumFlip)
		} else if e.snap.AboveBreakevenDays >= breakevenStreakSessions {
			e.escalate(dto.ActionSellNow, reasonPutBreakevenDays)
		}
	case model.LongCall:
		if e.snap.Underlying < e.snap.SMA20 && e.snap.MACD <= e.snap.MACDSignal && e.snap.RSI14 < 50 {
			e.escalate(dto.ActionSellNow, reasonCallMomentumFlip)
		} else if e.snap.BelowBreakevenDays >= breakevenStreakSessions {
			e.escalate(dto.ActionSellNow, reasonCallBreakevenDays)
		}
	}
}

// breakevenBuffer sells when the underlying has cleared breakeven against the
// position, unless far from expiry with momentum still favoring the position,
// which only earns a cautionary note.
func (e *evaluation) breakevenBuffer() {
	if e.action != dto.ActionHold {
		return
	}
	if e.pos.Type.IsPut() {
		if e.snap.Underlying > e.snap.Breakeven+e.cfg.BreakevenBuffer {
			if e.snap.DTE > 20 && e.snap.MACD < e.snap.MACDSignal {
				e.note(reasonPutBearishCaution)
			} else {
				e.escalate(dto.ActionSellNow, reasonPutAboveBreakeven)
			}
		}
		return
	}
	if e.snap.Underlying < e.snap.Breakeven-e.cfg.BreakevenBuffer {
		if e.snap.DTE > 20 && e.snap.MACD > e.snap.MACDSignal {
			e.note(reasonCallBullishCaution)
		} else {
			e.escalate(dto.ActionSellNow, reasonCallBelowBreakeven)
		}
	}
}

// earningsHeuristic trims a profitable position into an imminent earnings
// print. It raises HOLD to PARTIAL_SELL only, never to SELL_NOW.
func (e *evaluation) earningsHeuristic() {
	if e.action == dto.ActionSellNow || e.snap.EarningsIn == nil {
		return
	}
	days := *e.snap.EarningsIn
	if days >= 0 && days <= 2 && e.mark > e.pos.EntryPrice {
		e.action = e.action.Escalate(dto.ActionPartialSell)
		e.note(reasonEarningsSoon)
	}
}
