package repository

import (
	"context"

	"options-monitor/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, settings *model.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings singleton, creating the default row on first use.
func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	settings := model.Settings{ID: 1, PollMinutes: 10}
	if err := r.db.WithContext(ctx).FirstOrCreate(&settings, model.Settings{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.Settings) error {
	settings.ID = 1
	return r.db.WithContext(ctx).Model(&model.Settings{ID: 1}).
		Select("poll_minutes", "notify_slack", "notify_email", "notify_telegram").
		Updates(settings).Error
}
