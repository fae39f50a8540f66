package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/treansai/traidano/internal/service"
	"github.com/treansai/traidano/internal/xe"
	"github.com/treansai/traidano/pkg/alpaca"
	"go.uber.org/zap"
)

// TradingHandler proxies account, order and market-clock requests to the
// brokerage through the rate-limited gateway.
type TradingHandler struct {
	logger         *zap.Logger
	marketService  *service.MarketService
	historyService *service.AccountHistoryService
}

func NewTradingHandler(
	marketService *service.MarketService,
	historyService *service.AccountHistoryService,
	logger *zap.Logger,
) *TradingHandler {
	return &TradingHandler{
		logger:         logger,
		marketService:  marketService,
		historyService: historyService,
	}
}

// GetAccount returns the live account snapshot.
// GET /api/account
func (h *TradingHandler) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()

	account, err := h.marketService.GetAccount(ctx)
	if err != nil {
		h.logger.Error("failed to get account", zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":           account.ID,
		"equity":       account.Equity,
		"buying_power": account.BuyingPower,
	})
}

// GetAccountHistory returns the recorded equity curve.
// GET /api/account/history
func (h *TradingHandler) GetAccountHistory(c echo.Context) error {
	ctx := c.Request().Context()

	histories, err := h.historyService.Histories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":     len(histories),
		"histories": histories,
	})
}

// GetPositions returns the live open positions.
// GET /api/positions
func (h *TradingHandler) GetPositions(c echo.Context) error {
	ctx := c.Request().Context()

	positions, err := h.marketService.GetPositions(ctx)
	if err != nil {
		h.logger.Error("failed to get positions", zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":     len(positions),
		"positions": positions,
	})
}

// CreateOrder submits an order straight to the brokerage.
// POST /api/orders
func (h *TradingHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req alpaca.OrderRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if req.Symbol == "" || req.Qty <= 0 {
		return xe.ErrInvalidParams
	}

	h.logger.Info("received order",
		zap.String("symbol", req.Symbol),
		zap.String("side", req.Side.String()))

	order, err := h.marketService.SubmitOrder(ctx, req)
	if err != nil {
		h.logger.Error("failed to create order", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders fetches orders matching the query filters.
// GET /api/orders?status=open&limit=50
func (h *TradingHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	params := alpaca.OrderParams{
		Status:    c.QueryParam("status"),
		Limit:     cast.ToInt(c.QueryParam("limit")),
		After:     c.QueryParam("after"),
		Until:     c.QueryParam("until"),
		Direction: c.QueryParam("direction"),
		Nested:    cast.ToBool(c.QueryParam("nested")),
		Symbols:   c.QueryParam("symbols"),
		Side:      c.QueryParam("side"),
	}

	orders, err := h.marketService.ListOrders(ctx, params)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":  len(orders),
		"orders": orders,
	})
}

// GetClock returns the equity market clock.
// GET /api/market/clock
func (h *TradingHandler) GetClock(c echo.Context) error {
	ctx := c.Request().Context()

	clock, err := h.marketService.Clock(ctx)
	if err != nil {
		h.logger.Error("failed to get market clock", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, clock)
}

// RegisterRoutes mounts the trading proxy endpoints.
func (h *TradingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/account", h.GetAccount)
	g.GET("/account/history", h.GetAccountHistory)
	g.GET("/positions", h.GetPositions)
	g.POST("/orders", h.CreateOrder)
	g.GET("/orders", h.ListOrders)
	g.GET("/market/clock", h.GetClock)
}
