package service

import (
	"context"
	"fmt"
	"sync"

	"options-monitor/internal/dto"
	"options-monitor/internal/repository"
	"options-monitor/pkg/logger"

	"github.com/robfig/cron/v3"
)

// PollerService drives the monitor on the interval stored in settings.
// Overlapping runs are skipped, never executed concurrently, so peak tracking
// stays consistent for a given position identity.
type PollerService interface {
	Start(ctx context.Context) error
	Stop()
	Status() dto.MonitorStatus
}

type pollerService struct {
	log          *logger.Logger
	settingsRepo repository.SettingsRepository
	monitor      MonitorService

	mu              sync.Mutex
	cron            *cron.Cron
	entryID         cron.EntryID
	intervalMinutes int
	running         bool
}

func NewPollerService(log *logger.Logger, settingsRepo repository.SettingsRepository, monitor MonitorService) PollerService {
	return &pollerService{
		log:          log,
		settingsRepo: settingsRepo,
		monitor:      monitor,
	}
}

// Start schedules the monitor at the configured poll interval. Calling it
// while running reschedules with the current settings value.
func (s *pollerService) Start(ctx context.Context) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		s.cron = cron.New(cron.WithChain(
			cron.SkipIfStillRunning(&cronLogger{log: s.log}),
		))
		s.cron.Start()
	}

	if s.running {
		s.cron.Remove(s.entryID)
	}

	spec := fmt.Sprintf("@every %dm", settings.PollMinutes)
	entryID, err := s.cron.AddFunc(spec, s.runOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule monitor: %w", err)
	}

	s.entryID = entryID
	s.intervalMinutes = settings.PollMinutes
	s.running = true

	s.log.Info("Position monitor scheduled", logger.IntField("interval_minutes", settings.PollMinutes))
	return nil
}

func (s *pollerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Remove(s.entryID)
	s.running = false
	s.log.Info("Position monitor stopped")
}

func (s *pollerService) Status() dto.MonitorStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := dto.MonitorStatus{Running: s.running}
	if s.running {
		status.IntervalMinutes = s.intervalMinutes
		next := s.cron.Entry(s.entryID).Next
		if !next.IsZero() {
			status.NextRun = &next
		}
	}
	return status
}

func (s *pollerService) runOnce() {
	ctx := context.Background()
	if _, err := s.monitor.RunOnce(ctx); err != nil {
		s.log.Error("Monitor run failed", logger.ErrorField(err))
	}
}

// cronLogger adapts our logger to the cron.Logger interface so skipped
// overlapping runs are reported.
type cronLogger struct {
	log *logger.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Info(msg, logger.Field("details", keysAndValues))
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(msg, logger.ErrorField(err), logger.Field("details", keysAndValues))
}
