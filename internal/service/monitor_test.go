package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"options-monitor/config"
	"options-monitor/internal/dto"
	"options-monitor/internal/model"
	"options-monitor/pkg/notify"
	"options-monitor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePositionRepo struct {
	mu        sync.Mutex
	positions []model.Position
	updated   map[uint]map[string]interface{}
}

func (f *fakePositionRepo) Get(ctx context.Context, param dto.GetPositionsParam) ([]model.Position, error) {
	return f.positions, nil
}

func (f *fakePositionRepo) GetByID(ctx context.Context, id uint) (*model.Position, error) {
	for i := range f.positions {
		if f.positions[i].ID == id {
			return &f.positions[i], nil
		}
	}
	return nil, nil
}

func (f *fakePositionRepo) Create(ctx context.Context, position *model.Position) error { return nil }
func (f *fakePositionRepo) Update(ctx context.Context, position *model.Position) error { return nil }
func (f *fakePositionRepo) Delete(ctx context.Context, id uint) error                  { return nil }

func (f *fakePositionRepo) UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[uint]map[string]interface{})
	}
	f.updated[id] = values
	return nil
}

type fakeSettingsRepo struct {
	settings *model.Settings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	return f.settings, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, settings *model.Settings) error { return nil }

type fakeDecisionLogRepo struct {
	mu      sync.Mutex
	entries []model.DecisionLog
}

func (f *fakeDecisionLogRepo) CreateBatch(ctx context.Context, entries []model.DecisionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeDecisionLogRepo) Recent(ctx context.Context, limit int) ([]model.DecisionLog, error) {
	return f.entries, nil
}

// fakeEngine returns canned outcomes per ticker.
type fakeEngine struct {
	snapErr map[string]error
	actions map[string]dto.Action
}

func (f *fakeEngine) BuildSnapshot(ctx context.Context, pos *model.Position) (*dto.MarketSnapshot, error) {
	if err, ok := f.snapErr[pos.Ticker]; ok {
		return nil, err
	}
	return &dto.MarketSnapshot{
		Underlying: 95,
		OptionMark: utils.ToPointer(5.0),
		DTE:        30,
		Breakeven:  90,
	}, nil
}

func (f *fakeEngine) DecideSell(ctx context.Context, pos *model.Position, snap *dto.MarketSnapshot, prevPeak *float64) (*dto.Decision, float64) {
	action := dto.ActionHold
	if a, ok := f.actions[pos.Ticker]; ok {
		action = a
	}
	return &dto.Decision{
		Action:    action,
		Snapshot:  snap,
		Rationale: []string{"No sell triggers hit"},
	}, snap.Mark()
}

func (f *fakeEngine) EvictPeak(identity string) {}

type fakeNotifier struct {
	mu       sync.Mutex
	channels [][]notify.Channel
	titles   []string
}

func (f *fakeNotifier) Dispatch(ctx context.Context, channels []notify.Channel, title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channels)
	f.titles = append(f.titles, title)
}

func monitorTestConfig() *config.Config {
	return &config.Config{
		Monitor: config.Monitor{
			MaxConcurrency:    2,
			EvaluationTimeout: 5 * time.Second,
		},
	}
}

func monitorTestPositions() []model.Position {
	return []model.Position{
		{
			ID:         1,
			Ticker:     "NVDA",
			Type:       model.LongPut,
			Expiry:     time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
			LongStrike: 100,
			EntryPrice: 10,
			Enabled:    utils.ToPointer(true),
		},
		{
			ID:         2,
			Ticker:     "AMD",
			Type:       model.LongCall,
			Expiry:     time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
			LongStrike: 150,
			EntryPrice: 6,
			Enabled:    utils.ToPointer(true),
		},
	}
}

func TestMonitorService_RunOnce_FailureIsolation(t *testing.T) {
	positionRepo := &fakePositionRepo{positions: monitorTestPositions()}
	settingsRepo := &fakeSettingsRepo{settings: &model.Settings{ID: 1, PollMinutes: 10}}
	decisionLogRepo := &fakeDecisionLogRepo{}
	engine := &fakeEngine{snapErr: map[string]error{"AMD": dto.ErrChainUnavailable}}
	notifier := &fakeNotifier{}

	monitor := NewMonitorService(monitorTestConfig(), testLogger(t), engine, positionRepo, settingsRepo, decisionLogRepo, notifier)

	results, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Results keep position order regardless of worker scheduling.
	assert.Equal(t, "NVDA", results[0].Ticker)
	assert.NotNil(t, results[0].Decision)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "AMD", results[1].Ticker)
	assert.Nil(t, results[1].Decision)
	assert.NotEmpty(t, results[1].Error)
}

func TestMonitorService_RunOnce_PersistsPeaks(t *testing.T) {
	positionRepo := &fakePositionRepo{positions: monitorTestPositions()}
	settingsRepo := &fakeSettingsRepo{settings: &model.Settings{ID: 1, PollMinutes: 10}}
	engine := &fakeEngine{}

	monitor := NewMonitorService(monitorTestConfig(), testLogger(t), engine, positionRepo, settingsRepo, &fakeDecisionLogRepo{}, &fakeNotifier{})

	_, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)

	require.Contains(t, positionRepo.updated, uint(1))
	assert.InDelta(t, 5.0, positionRepo.updated[1]["previous_peak"].(float64), 1e-9)
}

func TestMonitorService_RunOnce_RecordsDecisionLog(t *testing.T) {
	positionRepo := &fakePositionRepo{positions: monitorTestPositions()}
	settingsRepo := &fakeSettingsRepo{settings: &model.Settings{ID: 1, PollMinutes: 10}}
	decisionLogRepo := &fakeDecisionLogRepo{}
	engine := &fakeEngine{snapErr: map[string]error{"AMD": dto.ErrChainUnavailable}}

	monitor := NewMonitorService(monitorTestConfig(), testLogger(t), engine, positionRepo, settingsRepo, decisionLogRepo, &fakeNotifier{})

	_, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, decisionLogRepo.entries, 2)
	assert.Equal(t, decisionLogRepo.entries[0].RunAt, decisionLogRepo.entries[1].RunAt)
	assert.Equal(t, string(dto.ActionHold), decisionLogRepo.entries[0].Action)
	assert.NotEmpty(t, decisionLogRepo.entries[0].Payload)
	assert.NotEmpty(t, decisionLogRepo.entries[1].Error)
	assert.Empty(t, decisionLogRepo.entries[1].Action)
}

func TestMonitorService_RunOnce_NotifiesSellSignals(t *testing.T) {
	positionRepo := &fakePositionRepo{positions: monitorTestPositions()}
	settingsRepo := &fakeSettingsRepo{settings: &model.Settings{ID: 1, PollMinutes: 10, NotifySlack: true, NotifyTelegram: true}}
	engine := &fakeEngine{actions: map[string]dto.Action{"NVDA": dto.ActionSellNow}}
	notifier := &fakeNotifier{}

	monitor := NewMonitorService(monitorTestConfig(), testLogger(t), engine, positionRepo, settingsRepo, &fakeDecisionLogRepo{}, notifier)

	_, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)

	// Only the SELL_NOW position alerts, on the channels settings enabled.
	require.Len(t, notifier.titles, 1)
	assert.True(t, strings.HasPrefix(notifier.titles[0], "SELL_NOW: NVDA"))
	assert.Equal(t, []notify.Channel{notify.ChannelSlack, notify.ChannelTelegram}, notifier.channels[0])
}

func TestMonitorService_RunOnce_NoNotificationWithoutChannels(t *testing.T) {
	positionRepo := &fakePositionRepo{positions: monitorTestPositions()}
	settingsRepo := &fakeSettingsRepo{settings: &model.Settings{ID: 1, PollMinutes: 10}}
	engine := &fakeEngine{actions: map[string]dto.Action{"NVDA": dto.ActionSellNow}}
	notifier := &fakeNotifier{}

	monitor := NewMonitorService(monitorTestConfig(), testLogger(t), engine, positionRepo, settingsRepo, &fakeDecisionLogRepo{}, notifier)

	_, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.titles)
}

func TestMonitorService_RunOnce_NoPositions(t *testing.T) {
	positionRepo := &fakePositionRepo{}
	settingsRepo := &fakeSettingsRepo{settings: &model.Settings{ID: 1, PollMinutes: 10}}
	decisionLogRepo := &fakeDecisionLogRepo{}

	monitor := NewMonitorService(monitorTestConfig(), testLogger(t), &fakeEngine{}, positionRepo, settingsRepo, decisionLogRepo, &fakeNotifier{})

	results, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, decisionLogRepo.entries)
}
