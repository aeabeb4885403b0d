package dto

import "time"

// Action is the outcome of one exit evaluation. Actions are ordered: within a
// single evaluation an action may only escalate, never drop back.
type Action string

const (
	ActionHold        Action = "HOLD"
	ActionPartialSell Action = "PARTIAL_SELL"
	ActionSellNow     Action = "SELL_NOW"
)

func (a Action) rank() int {
	switch a {
	case ActionPartialSell:
		return 1
	case ActionSellNow:
		return 2
	default:
		return 0
	}
}

// Escalate returns the higher of the two actions.
func (a Action) Escalate(to Action) Action {
	if to.rank() > a.rank() {
		return to
	}
	return a
}

// MarketSnapshot holds the read-only facts one evaluation runs against.
// Exactly one of OptionMark/SpreadMark is populated, matching the position's
// leg count.
type MarketSnapshot struct {
	Underlying         float64  `json:"underlying"`
	OptionMark         *float64 `json:"option_last,omitempty"`
	SpreadMark         *float64 `json:"spread_mark,omitempty"`
	DTE                int      `json:"dte"`
	RSI14              float64  `json:"rsi14"`
	SMA20              float64  `json:"sma20"`
	SMA50              float64  `json:"sma50"`
	SMA200             float64  `json:"sma200"`
	MACD               float64  `json:"macd"`
	MACDSignal         float64  `json:"macd_signal"`
	ATR14              float64  `json:"atr14"`
	Breakeven          float64  `json:"breakeven"`
	AboveBreakevenDays int      `json:"above_breakeven_days"`
	BelowBreakevenDays int      `json:"below_breakeven_days"`
	EarningsIn         *int     `json:"earnings_in,omitempty"`
}

// Mark returns the usable current price: the single-leg mark for long options,
// the net spread mark for verticals.
func (s *MarketSnapshot) Mark() float64 {
	if s.SpreadMark != nil {
		return *s.SpreadMark
	}
	if s.OptionMark != nil {
		return *s.OptionMark
	}
	return 0
}

// SellConfig holds the tunable exit thresholds.
type SellConfig struct {
	StopLossPct     float64 `json:"stop_loss_pct"`
	TakeProfitPct   float64 `json:"take_profit_pct"`
	TrailPct        float64 `json:"trail_pct"`
	TimeStopDays    int     `json:"time_stop_days"`
	BreakevenBuffer float64 `json:"breakeven_buffer"`
}

// DefaultSellConfig returns the thresholds the engine ships with.
func DefaultSellConfig() SellConfig {
	return SellConfig{
		StopLossPct:     0.40,
		TakeProfitPct:   0.50,
		TrailPct:        0.35,
		TimeStopDays:    5,
		BreakevenBuffer: 2.0,
	}
}

// Limits are the derived display prices attached to every decision.
type Limits struct {
	EntryPrice       float64 `json:"entry_price"`
	TakeProfitAt     float64 `json:"take_profit_at"`
	StopLossAt       float64 `json:"stop_loss_at"`
	TrailFromPeakPct float64 `json:"trail_from_peak_pct"`
}

// Decision is the evaluator output. Rationale is never empty.
type Decision struct {
	Action    Action          `json:"action"`
	Snapshot  *MarketSnapshot `json:"snapshot"`
	Rationale []string        `json:"rationale"`
	Limits    Limits          `json:"limits"`
}

// EvaluationResult is one entry of a batch monitor run. Either Decision or
// Error is set, never both.
type EvaluationResult struct {
	PositionID  uint      `json:"position_id"`
	Ticker      string    `json:"ticker"`
	Decision    *Decision `json:"decision,omitempty"`
	Error       string    `json:"error,omitempty"`
	EvaluatedAt time.Time `json:"ts"`
}

// MonitorStatus describes the poller state.
type MonitorStatus struct {
	Running         bool       `json:"running"`
	IntervalMinutes int        `json:"interval,omitempty"`
	NextRun         *time.Time `json:"next_run,omitempty"`
}
