package model

import (
	"time"

	"gorm.io/datatypes"
)

// DecisionLog is one append-only entry of a monitor run. Rows sharing RunAt
// belong to the same batch.
type DecisionLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RunAt      time.Time      `gorm:"not null;index" json:"run_at"`
	PositionID uint           `gorm:"not null" json:"position_id"`
	Ticker     string         `gorm:"not null" json:"ticker"`
	Action     string         `json:"action"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (DecisionLog) TableName() string {
	return "decision_logs"
}
