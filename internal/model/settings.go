package model

import "time"

// Settings is a singleton row holding the poll interval and per-channel
// notification toggles.
type Settings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PollMinutes    int       `gorm:"not null;default:10" json:"poll_minutes"`
	NotifySlack    bool      `gorm:"not null;default:false" json:"notify_slack"`
	NotifyEmail    bool      `gorm:"not null;default:false" json:"notify_email"`
	NotifyTelegram bool      `gorm:"not null;default:false" json:"notify_telegram"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}
