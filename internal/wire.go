//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/treansai/traidano/internal/config"
	"github.com/treansai/traidano/internal/handler"
	"github.com/treansai/traidano/internal/service"
)

var (
	handlerSet = wire.NewSet(
		handler.NewBotHandler,
		handler.NewTradingHandler,
	)

	tradingSet = wire.NewSet(
		provideAlpacaClient,
		provideRateLimiter,
		provideGateway,
		service.NewMarketService,
		service.NewBotManager,
		service.NewAccountHistoryService,
		service.NewStreamService,
	)
)

func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		tradingSet,
		provideNotifier,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}
