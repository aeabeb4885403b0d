package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"options-monitor/config"
	"options-monitor/internal/dto"
	"options-monitor/internal/model"
	"options-monitor/internal/repository"
	"options-monitor/pkg/logger"
	"options-monitor/pkg/notify"
	"options-monitor/pkg/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// NotificationDispatcher is satisfied by notify.Dispatcher.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, channels []notify.Channel, title, body string)
}

// MonitorService evaluates every enabled position once per run, fanning out
// across a bounded worker pool. A failure on one ticker never aborts the
// evaluation of its siblings.
type MonitorService interface {
	RunOnce(ctx context.Context) ([]dto.EvaluationResult, error)
}

type monitorService struct {
	cfg             *config.Config
	log             *logger.Logger
	engine          EngineService
	positionRepo    repository.PositionRepository
	settingsRepo    repository.SettingsRepository
	decisionLogRepo repository.DecisionLogRepository
	notifier        NotificationDispatcher
}

func NewMonitorService(
	cfg *config.Config,
	log *logger.Logger,
	engine EngineService,
	positionRepo repository.PositionRepository,
	settingsRepo repository.SettingsRepository,
	decisionLogRepo repository.DecisionLogRepository,
	notifier NotificationDispatcher,
) MonitorService {
	return &monitorService{
		cfg:             cfg,
		log:             log,
		engine:          engine,
		positionRepo:    positionRepo,
		settingsRepo:    settingsRepo,
		decisionLogRepo: decisionLogRepo,
		notifier:        notifier,
	}
}

func (s *monitorService) RunOnce(ctx context.Context) ([]dto.EvaluationResult, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	positions, err := s.positionRepo.Get(ctx, dto.GetPositionsParam{Enabled: utils.ToPointer(true)})
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	if len(positions) == 0 {
		s.log.InfoContext(ctx, "No enabled positions to evaluate")
		return nil, nil
	}

	runAt := time.Now().UTC()
	s.log.InfoContext(ctx, "Starting monitor run",
		logger.IntField("position_count", len(positions)),
		logger.IntField("max_concurrency", s.cfg.Monitor.MaxConcurrency),
	)

	results := make([]dto.EvaluationResult, len(positions))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Monitor.MaxConcurrency)
	for i := range positions {
		i, pos := i, positions[i]
		g.Go(func() error {
			results[i] = s.evaluateOne(gCtx, &pos)
			return nil
		})
	}
	// Workers never return errors, per-position failures are recorded in place.
	_ = g.Wait()

	s.recordRun(ctx, runAt, results)
	s.notifySellSignals(ctx, settings, positions, results)

	return results, nil
}

func (s *monitorService) evaluateOne(ctx context.Context, pos *model.Position) dto.EvaluationResult {
	evalCtx, cancel := context.WithTimeout(ctx, s.cfg.Monitor.EvaluationTimeout)
	defer cancel()

	result := dto.EvaluationResult{
		PositionID:  pos.ID,
		Ticker:      pos.Ticker,
		EvaluatedAt: time.Now().UTC(),
	}

	snap, err := s.engine.BuildSnapshot(evalCtx, pos)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to build snapshot",
			logger.StringField("ticker", pos.Ticker),
			logger.IntField("position_id", int(pos.ID)),
			logger.ErrorField(err))
		result.Error = err.Error()
		return result
	}

	decision, peak := s.engine.DecideSell(evalCtx, pos, snap, pos.PreviousPeak)
	result.Decision = decision

	if err := s.positionRepo.UpdateColumns(evalCtx, pos.ID, map[string]interface{}{"previous_peak": peak}); err != nil {
		s.log.WarnContext(ctx, "Failed to persist peak",
			logger.StringField("ticker", pos.Ticker),
			logger.IntField("position_id", int(pos.ID)),
			logger.ErrorField(err))
	}

	return result
}

// recordRun appends one decision_logs row per evaluation, keyed by the run
// timestamp. Error entries stand in for decisions that could not be made.
func (s *monitorService) recordRun(ctx context.Context, runAt time.Time, results []dto.EvaluationResult) {
	entries := make([]model.DecisionLog, 0, len(results))
	for _, result := range results {
		entry := model.DecisionLog{
			RunAt:      runAt,
			PositionID: result.PositionID,
			Ticker:     result.Ticker,
			Error:      result.Error,
		}
		if result.Decision != nil {
			entry.Action = string(result.Decision.Action)
			if payload, err := json.Marshal(result.Decision); err == nil {
				entry.Payload = datatypes.JSON(payload)
			}
		}
		entries = append(entries, entry)
	}

	if err := s.decisionLogRepo.CreateBatch(ctx, entries); err != nil {
		s.log.ErrorContext(ctx, "Failed to record decision log", logger.ErrorField(err))
	}
}

func (s *monitorService) notifySellSignals(ctx context.Context, settings *model.Settings, positions []model.Position, results []dto.EvaluationResult) {
	channels := enabledChannels(settings)
	if len(channels) == 0 {
		return
	}

	byID := make(map[uint]*model.Position, len(positions))
	for i := range positions {
		byID[positions[i].ID] = &positions[i]
	}

	for _, result := range results {
		if result.Decision == nil || result.Decision.Action != dto.ActionSellNow {
			continue
		}
		pos, ok := byID[result.PositionID]
		if !ok {
			continue
		}

		title := fmt.Sprintf("SELL_NOW: %s %s %g %s",
			pos.Ticker, pos.Type, pos.LongStrike, pos.Expiry.Format("2006-01-02"))
		body := title
		if payload, err := json.MarshalIndent(result, "", "  "); err == nil {
			body = string(payload)
		}
		s.notifier.Dispatch(ctx, channels, title, body)
	}
}

func enabledChannels(settings *model.Settings) []notify.Channel {
	var channels []notify.Channel
	if settings.NotifySlack {
		channels = append(channels, notify.ChannelSlack)
	}
	if settings.NotifyEmail {
		channels = append(channels, notify.ChannelEmail)
	}
	if settings.NotifyTelegram {
		channels = append(channels, notify.ChannelTelegram)
	}
	return channels
}
