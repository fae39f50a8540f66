package service

import (
	"context"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/strategy"
	"github.com/treansai/traidano/pkg/alpaca"
	"github.com/treansai/traidano/pkg/ratelimit"
	"go.uber.org/zap"
)

// MarketService is the market gateway: every brokerage call from every bot
// and every HTTP proxy endpoint goes through the shared rate limiter here.
// This is the sole admission-control point in front of the brokerage
// connection.
type MarketService struct {
	logger  *zap.Logger
	client  *alpaca.Client
	limiter *ratelimit.Limiter
}

var _ strategy.Gateway = (*MarketService)(nil)

func NewMarketService(client *alpaca.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *MarketService {
	return &MarketService{
		logger:  logger,
		client:  client,
		limiter: limiter,
	}
}

// GetBars fetches bar windows per symbol, oldest first, routed to the data
// endpoint matching the market kind.
func (s *MarketService) GetBars(ctx context.Context, market models.MarketKind, symbols []string, timeframe string, limit, lookbackDays int) (map[string][]alpaca.Bar, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	if market == models.MarketCrypto {
		return s.client.GetCryptoBars(ctx, symbols, timeframe, limit, lookbackDays)
	}
	return s.client.GetStockBars(ctx, symbols, timeframe, limit, lookbackDays)
}

func (s *MarketService) GetAccount(ctx context.Context) (alpaca.Account, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return alpaca.Account{}, err
	}
	return s.client.GetAccount(ctx)
}

func (s *MarketService) GetPositions(ctx context.Context) ([]alpaca.Position, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	return s.client.GetPositions(ctx)
}

// IsMarketOpen consults the equity market clock. Crypto bots never call
// this; their market is always open.
func (s *MarketService) IsMarketOpen(ctx context.Context) (bool, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return false, err
	}
	clock, err := s.client.GetClock(ctx)
	if err != nil {
		return false, err
	}
	return clock.IsOpen, nil
}

// Clock returns the full market clock for the HTTP surface.
func (s *MarketService) Clock(ctx context.Context) (alpaca.Clock, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return alpaca.Clock{}, err
	}
	return s.client.GetClock(ctx)
}

func (s *MarketService) SubmitOrder(ctx context.Context, req alpaca.OrderRequest) (alpaca.Order, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return alpaca.Order{}, err
	}
	return s.client.CreateOrder(ctx, req)
}

// ListOrders backs the order listing proxy endpoint.
func (s *MarketService) ListOrders(ctx context.Context, params alpaca.OrderParams) ([]alpaca.Order, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	return s.client.ListOrders(ctx, params)
}

// Limiter exposes the shared limiter for status reporting.
func (s *MarketService) Limiter() *ratelimit.Limiter {
	return s.limiter
}
