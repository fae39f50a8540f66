package service

import (
	"context"
	"time"

	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/repo"
	"github.com/treansai/traidano/internal/strategy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSnapshotCron = "@hourly"

// AccountHistoryService records periodic account equity snapshots, backing
// the equity-curve endpoint. Snapshots are rate limited like every other
// brokerage call because they go through the gateway.
type AccountHistoryService struct {
	logger *zap.Logger

	*orz.Service
	*repo.AccountHistoryRepo

	gateway strategy.Gateway
	cron    *cron.Cron
}

func NewAccountHistoryService(db *gorm.DB, gateway strategy.Gateway, logger *zap.Logger) *AccountHistoryService {
	return &AccountHistoryService{
		logger:             logger,
		Service:            orz.NewService(db),
		AccountHistoryRepo: repo.NewAccountHistoryRepo(db),
		gateway:            gateway,
	}
}

// Start schedules the snapshot job. An empty spec falls back to hourly.
func (s *AccountHistoryService) Start(spec string) error {
	if spec == "" {
		spec = defaultSnapshotCron
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.Snapshot(context.Background()); err != nil {
			s.logger.Error("account snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("account snapshot job started", zap.String("cron", spec))
	return nil
}

// Stop halts the snapshot scheduler and waits for a running job to finish.
func (s *AccountHistoryService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Snapshot fetches the account and persists one history row.
func (s *AccountHistoryService) Snapshot(ctx context.Context) error {
	account, err := s.gateway.GetAccount(ctx)
	if err != nil {
		return err
	}

	history := models.AccountHistory{
		ID:          ulid.Make().String(),
		Equity:      account.Equity,
		BuyingPower: account.BuyingPower,
		RecordedAt:  time.Now(),
	}
	return s.AccountHistoryRepo.Create(ctx, &history)
}

// Histories returns the recorded snapshots, oldest first.
func (s *AccountHistoryService) Histories(ctx context.Context) ([]models.AccountHistory, error) {
	return s.AccountHistoryRepo.FindAllOrderByRecordedAt(ctx)
}
