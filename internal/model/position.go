package model

import (
	"fmt"
	"time"
)

// PositionType determines leg composition and directional bias.
type PositionType string

const (
	LongPut         PositionType = "LONG_PUT"
	LongCall        PositionType = "LONG_CALL"
	DebitSpreadCall PositionType = "DEBIT_SPREAD_CALL"
	DebitSpreadPut  PositionType = "DEBIT_SPREAD_PUT"
)

// IsSpread reports whether the type carries a short leg.
func (t PositionType) IsSpread() bool {
	return t == DebitSpreadCall || t == DebitSpreadPut
}

// IsPut reports whether the type is bearish (put side).
func (t PositionType) IsPut() bool {
	return t == LongPut || t == DebitSpreadPut
}

func (t PositionType) Valid() bool {
	switch t {
	case LongPut, LongCall, DebitSpreadCall, DebitSpreadPut:
		return true
	}
	return false
}

type Position struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Ticker       string       `gorm:"not null" json:"ticker"`
	Type         PositionType `gorm:"not null" json:"type"`
	Expiry       time.Time    `gorm:"not null;type:date" json:"expiry"`
	LongStrike   float64      `gorm:"not null" json:"long_strike"`
	ShortStrike  *float64     `json:"short_strike"`
	EntryPrice   float64      `gorm:"not null" json:"entry_price"`
	EntryDate    time.Time    `gorm:"type:date" json:"entry_date"`
	Quantity     int          `gorm:"not null;default:1" json:"quantity"`
	PreviousPeak *float64     `json:"previous_peak"`
	Enabled      *bool        `gorm:"not null;default:true" json:"enabled"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

// IdentityKey is the contract identity used for peak tracking. Two positions
// with the same key share trailing-stop state even if entry prices differ.
func (p *Position) IdentityKey() string {
	short := "-"
	if p.ShortStrike != nil {
		short = fmt.Sprintf("%g", *p.ShortStrike)
	}
	return fmt.Sprintf("%s|%s|%s|%g|%s",
		p.Ticker, p.Expiry.Format("2006-01-02"), p.Type, p.LongStrike, short)
}

// Breakeven is the underlying price at which the position's payoff is zero
// relative to entry: long strike plus debit for calls, minus debit for puts.
func (p *Position) Breakeven() float64 {
	if p.Type.IsPut() {
		return p.LongStrike - p.EntryPrice
	}
	return p.LongStrike + p.EntryPrice
}
