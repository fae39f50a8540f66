package internal

import (
	"github.com/treansai/traidano/internal/config"
	"github.com/treansai/traidano/internal/service"
	"github.com/treansai/traidano/internal/strategy"
	"github.com/treansai/traidano/internal/telegram"
	"github.com/treansai/traidano/pkg/alpaca"
	"github.com/treansai/traidano/pkg/ratelimit"
	"go.uber.org/zap"
)

const (
	// Brokerage default: 200 requests per minute with modest burst room.
	defaultRequestsPerMinute = 200.0
	defaultBurst             = 50.0
)

// provideAlpacaClient builds the brokerage client. Missing endpoints or
// credentials abort startup.
func provideAlpacaClient(conf *config.Config, logger *zap.Logger) (*alpaca.Client, error) {
	client, err := alpaca.NewClient(alpaca.Config{
		BaseURL:     conf.Alpaca.BaseURL,
		DataBaseURL: conf.Alpaca.DataBaseURL,
		StreamURL:   conf.Alpaca.StreamURL,
		APIKey:      conf.Alpaca.APIKey,
		SecretKey:   conf.Alpaca.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("alpaca client initialized",
		zap.String("base_url", conf.Alpaca.BaseURL),
		zap.String("data_base_url", conf.Alpaca.DataBaseURL),
		zap.Bool("stream_configured", conf.Alpaca.StreamURL != ""))
	return client, nil
}

// provideRateLimiter builds the single shared token bucket in front of
// the brokerage.
func provideRateLimiter(conf *config.Config, logger *zap.Logger) *ratelimit.Limiter {
	perMinute := conf.RateLimit.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultRequestsPerMinute
	}
	burst := conf.RateLimit.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	logger.Info("rate limiter initialized",
		zap.Float64("requests_per_minute", perMinute),
		zap.Float64("burst", burst))
	return ratelimit.NewLimiter(perMinute/60.0, burst)
}

// provideGateway narrows the market service to the gateway contract the
// bots consume.
func provideGateway(marketService *service.MarketService) strategy.Gateway {
	return marketService
}

// provideNotifier builds the telegram notifier, or nil when disabled. A
// nil notifier is safe to call.
func provideNotifier(conf *config.Config, logger *zap.Logger) *telegram.Notifier {
	if !conf.Telegram.Enabled {
		return nil
	}

	notifier, err := telegram.NewNotifier(logger, conf.Telegram)
	if err != nil {
		logger.Error("failed to init telegram notifier", zap.Error(err))
		return nil
	}
	return notifier
}
