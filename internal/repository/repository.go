package repository

import (
	"options-monitor/config"
	"options-monitor/pkg/cache"
	"options-monitor/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	MarketDataRepo  MarketDataRepository
	OptionChainRepo OptionChainRepository
	PositionRepo    PositionRepository
	SettingsRepo    SettingsRepository
	DecisionLogRepo DecisionLogRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		MarketDataRepo:  NewMarketDataRepository(cfg, inmemoryCache, log),
		OptionChainRepo: NewOptionChainRepository(cfg, inmemoryCache, log),
		PositionRepo:    NewPositionRepository(db),
		SettingsRepo:    NewSettingsRepository(db),
		DecisionLogRepo: NewDecisionLogRepository(db),
	}, nil
}
