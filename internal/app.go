package internal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/treansai/traidano/internal/config"
	"github.com/treansai/traidano/internal/handler"
	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/service"
	"github.com/treansai/traidano/pkg/nostd"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewTraidanoApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewTraidanoApp() orz.Application {
	return &TraidanoApp{}
}

var _ orz.Application = (*TraidanoApp)(nil)

type AppComponents struct {
	BotHandler     *handler.BotHandler
	TradingHandler *handler.TradingHandler

	BotManager            *service.BotManager
	MarketService         *service.MarketService
	AccountHistoryService *service.AccountHistoryService
	StreamService         *service.StreamService
}

type TraidanoApp struct {
	components *AppComponents
	conf       *config.Config
}

func (r *TraidanoApp) GetComponents() *AppComponents {
	return r.components
}

func (r *TraidanoApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Bot{}, models.AccountHistory{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	api := e.Group("/api")
	{
		r.components.BotHandler.RegisterRoutes(api)
		r.components.TradingHandler.RegisterRoutes(api)
	}

	return nil
}

func (r *TraidanoApp) Init(logger *zap.Logger) error {
	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	ctx := context.Background()

	components.BotManager.Init(ctx)

	if err := components.AccountHistoryService.Start(r.conf.Snapshot.Cron); err != nil {
		return fmt.Errorf("failed to start account snapshot job: %v", err)
	}

	components.StreamService.Start(ctx)

	logger.Info("traidano started",
		zap.Int("running_bots", len(components.BotManager.ListBots())),
	)
	return nil
}
