package repository

import (
	"context"

	"options-monitor/internal/model"

	"gorm.io/gorm"
)

type DecisionLogRepository interface {
	CreateBatch(ctx context.Context, entries []model.DecisionLog) error
	Recent(ctx context.Context, limit int) ([]model.DecisionLog, error)
}

type decisionLogRepository struct {
	db *gorm.DB
}

func NewDecisionLogRepository(db *gorm.DB) DecisionLogRepository {
	return &decisionLogRepository{db: db}
}

func (r *decisionLogRepository) CreateBatch(ctx context.Context, entries []model.DecisionLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *decisionLogRepository) Recent(ctx context.Context, limit int) ([]model.DecisionLog, error) {
	var entries []model.DecisionLog
	if err := r.db.WithContext(ctx).
		Order("run_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
