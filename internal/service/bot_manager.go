package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-orz/orz"
	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/repo"
	"github.com/treansai/traidano/internal/strategy"
	"github.com/treansai/traidano/internal/telegram"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BotManager supervises the collection of live bots. The id->Bot map is
// the only cross-bot shared mutable state besides the rate limiter; every
// mutating operation is serialized behind one mutex.
type BotManager struct {
	logger *zap.Logger

	*orz.Service
	*repo.BotRepo

	gateway  strategy.Gateway
	notifier *telegram.Notifier

	mu   sync.Mutex
	bots map[string]*Bot
}

// BotSnapshot is the read-only view served by the HTTP surface.
type BotSnapshot struct {
	Config    models.BotConfig `json:"config"`
	IsRunning bool             `json:"is_running"`
}

func NewBotManager(db *gorm.DB, gateway strategy.Gateway, notifier *telegram.Notifier, logger *zap.Logger) *BotManager {
	return &BotManager{
		logger:   logger,
		Service:  orz.NewService(db),
		BotRepo:  repo.NewBotRepo(db),
		gateway:  gateway,
		notifier: notifier,
		bots:     make(map[string]*Bot),
	}
}

// Init rehydrates bots flagged as running in the repository. A repository
// error is logged and the process continues with zero pre-existing bots.
func (m *BotManager) Init(ctx context.Context) {
	records, err := m.BotRepo.FindRunning(ctx)
	if err != nil {
		m.logger.Error("cannot initialize bots from repository", zap.Error(err))
		return
	}

	for _, record := range records {
		config := record.Config()
		m.logger.Info("initializing bot", zap.String("bot_id", config.ID))
		if err := m.startBot(config); err != nil {
			m.logger.Error("failed to start bot",
				zap.String("bot_id", config.ID),
				zap.Error(err))
			continue
		}
		m.logger.Info("bot initialized", zap.String("bot_id", config.ID))
	}
}

// CreateBot persists the configuration and starts its task. Creating an id
// that already has a live task replaces it: the old task is cancelled
// before the new one starts.
func (m *BotManager) CreateBot(ctx context.Context, config models.BotConfig) error {
	record := models.NewBotRecord(config, true)
	if err := m.BotRepo.Create(ctx, &record); err != nil {
		return fmt.Errorf("persist bot config: %w", err)
	}

	if err := m.startBot(config); err != nil {
		return err
	}

	m.notifier.Notify(fmt.Sprintf("🤖 Bot *%s* (%s) started on %s",
		config.Name, config.Strategy, config.Market))
	return nil
}

// startBot inserts and starts a runtime bot, replacing any live task for
// the same id.
func (m *BotManager) startBot(config models.BotConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.bots[config.ID]; ok {
		existing.Stop()
	}

	bot := NewBot(config, m.gateway, m.logger)
	if err := bot.Start(context.Background()); err != nil {
		return err
	}
	m.bots[config.ID] = bot
	return nil
}

// StopBot cancels a bot's task and keeps its configuration addressable.
// The lookup, the stop and the repo write all happen under the manager
// lock so a concurrent replace for the same id cannot interleave and stop
// a stale handle. Absent ids and already-stopped bots are no-ops.
func (m *BotManager) StopBot(ctx context.Context, id string) {
	m.mu.Lock()
	bot, ok := m.bots[id]
	if !ok {
		m.mu.Unlock()
		return
	}

	bot.Stop()
	if err := m.BotRepo.UpdateRunning(ctx, id, false); err != nil {
		m.logger.Error("failed to persist stop",
			zap.String("bot_id", id),
			zap.Error(err))
	}
	m.mu.Unlock()

	m.notifier.Notify(fmt.Sprintf("⏹ Bot *%s* stopped", bot.Config().Name))
}

// RemoveBot stops a bot and evicts it from the collection and the
// repository, all under the manager lock. Absent ids are no-ops.
func (m *BotManager) RemoveBot(ctx context.Context, id string) {
	m.mu.Lock()
	bot, ok := m.bots[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.bots, id)

	bot.Stop()
	if err := m.BotRepo.DeleteById(ctx, id); err != nil {
		m.logger.Error("failed to delete bot record",
			zap.String("bot_id", id),
			zap.Error(err))
	}
	m.mu.Unlock()

	m.notifier.Notify(fmt.Sprintf("🗑 Bot *%s* removed", bot.Config().Name))
}

// GetBot returns a snapshot of one bot.
func (m *BotManager) GetBot(id string) (BotSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bot, ok := m.bots[id]
	if !ok {
		return BotSnapshot{}, false
	}
	return BotSnapshot{Config: bot.Config(), IsRunning: bot.IsRunning()}, true
}

// ListBots returns snapshots of every bot keyed by id.
func (m *BotManager) ListBots() map[string]BotSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]BotSnapshot, len(m.bots))
	for id, bot := range m.bots {
		out[id] = BotSnapshot{Config: bot.Config(), IsRunning: bot.IsRunning()}
	}
	return out
}

// StopAll stops every running bot, used at shutdown.
func (m *BotManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, bot := range m.bots {
		bot.Stop()
	}
}
