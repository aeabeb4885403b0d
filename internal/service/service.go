package service

import (
	"options-monitor/config"
	"options-monitor/internal/repository"
	"options-monitor/pkg/logger"
	"options-monitor/pkg/notify"
)

type Service struct {
	Engine  EngineService
	Monitor MonitorService
	Poller  PollerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	dispatcher *notify.Dispatcher,
) *Service {
	snapshots := NewSnapshotBuilder(repo.MarketDataRepo, repo.OptionChainRepo, log)
	engine := NewEngineService(cfg, log, snapshots)
	monitor := NewMonitorService(cfg, log, engine, repo.PositionRepo, repo.SettingsRepo, repo.DecisionLogRepo, dispatcher)
	poller := NewPollerService(log, repo.SettingsRepo, monitor)

	return &Service{
		Engine:  engine,
		Monitor: monitor,
		Poller:  poller,
	}
}
