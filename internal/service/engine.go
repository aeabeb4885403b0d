package service

import (
	"context"

	"options-monitor/config"
	"options-monitor/internal/dto"
	"options-monitor/internal/model"
	"options-monitor/pkg/logger"
)

// EngineService ties the snapshot builder, peak tracker and rule evaluator
// together into the exit-decision engine.
type EngineService interface {
	BuildSnapshot(ctx context.Context, pos *model.Position) (*dto.MarketSnapshot, error)
	DecideSell(ctx context.Context, pos *model.Position, snap *dto.MarketSnapshot, prevPeak *float64) (*dto.Decision, float64)
	EvictPeak(identity string)
}

type engineService struct {
	cfg       *config.Config
	log       *logger.Logger
	snapshots *SnapshotBuilder
	peaks     *PeakTracker
}

func NewEngineService(cfg *config.Config, log *logger.Logger, snapshots *SnapshotBuilder) EngineService {
	return &engineService{
		cfg:       cfg,
		log:       log,
		snapshots: snapshots,
		peaks:     NewPeakTracker(),
	}
}

func (s *engineService) BuildSnapshot(ctx context.Context, pos *model.Position) (*dto.MarketSnapshot, error) {
	return s.snapshots.Build(ctx, pos)
}

// DecideSell updates the trailing-stop peak for the position's identity and
// runs the rule chain. The returned peak must be persisted by the caller so a
// restarted process resumes with the same trailing state.
func (s *engineService) DecideSell(ctx context.Context, pos *model.Position, snap *dto.MarketSnapshot, prevPeak *float64) (*dto.Decision, float64) {
	peak := s.peaks.Update(pos.IdentityKey(), snap.Mark(), prevPeak)
	decision := Evaluate(pos, snap, s.sellConfig(), peak)

	s.log.DebugContext(ctx, "Exit evaluation completed",
		logger.StringField("ticker", pos.Ticker),
		logger.StringField("action", string(decision.Action)),
		logger.Float64Field("mark", snap.Mark()),
		logger.Float64Field("peak", peak),
	)
	return decision, peak
}

func (s *engineService) EvictPeak(identity string) {
	s.peaks.Evict(identity)
}

func (s *engineService) sellConfig() dto.SellConfig {
	cfg := dto.DefaultSellConfig()
	if s.cfg.Sell.StopLossPct > 0 {
		cfg.StopLossPct = s.cfg.Sell.StopLossPct
	}
	if s.cfg.Sell.TakeProfitPct > 0 {
		cfg.TakeProfitPct = s.cfg.Sell.TakeProfitPct
	}
	if s.cfg.Sell.TrailPct > 0 {
		cfg.TrailPct = s.cfg.Sell.TrailPct
	}
	if s.cfg.Sell.TimeStopDays > 0 {
		cfg.TimeStopDays = s.cfg.Sell.TimeStopDays
	}
	if s.cfg.Sell.BreakevenBuffer > 0 {
		cfg.BreakevenBuffer = s.cfg.Sell.BreakevenBuffer
	}
	return cfg
}
