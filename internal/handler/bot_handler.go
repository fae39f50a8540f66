package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/service"
	"github.com/treansai/traidano/internal/xe"
	"go.uber.org/zap"
)

// BotHandler exposes the bot supervisor over HTTP.
type BotHandler struct {
	logger     *zap.Logger
	botManager *service.BotManager
}

func NewBotHandler(botManager *service.BotManager, logger *zap.Logger) *BotHandler {
	return &BotHandler{
		logger:     logger,
		botManager: botManager,
	}
}

// CreateBot creates and starts a new bot.
// POST /api/bots
func (h *BotHandler) CreateBot(c echo.Context) error {
	ctx := c.Request().Context()

	var config models.BotConfig
	if err := c.Bind(&config); err != nil {
		return xe.ErrInvalidParams
	}
	// The id is server generated; ignore anything the client sent.
	config.ID = ulid.Make().String()
	if err := c.Validate(&config); err != nil {
		return err
	}

	if err := h.botManager.CreateBot(ctx, config); err != nil {
		h.logger.Error("failed to create bot", zap.Error(err))
		return err
	}

	return c.JSON(http.StatusCreated, config)
}

// ListBots returns every bot keyed by id.
// GET /api/bots
func (h *BotHandler) ListBots(c echo.Context) error {
	return c.JSON(http.StatusOK, h.botManager.ListBots())
}

// GetBot returns one bot snapshot.
// GET /api/bots/:id
func (h *BotHandler) GetBot(c echo.Context) error {
	snapshot, ok := h.botManager.GetBot(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, xe.ErrBotNotFound.Error())
	}
	return c.JSON(http.StatusOK, snapshot)
}

// StopBot cancels a bot's task, keeping its configuration addressable.
// POST /api/bots/:id/stop
func (h *BotHandler) StopBot(c echo.Context) error {
	ctx := c.Request().Context()
	h.botManager.StopBot(ctx, c.Param("id"))
	return c.NoContent(http.StatusOK)
}

// RemoveBot stops and evicts a bot.
// DELETE /api/bots/:id
func (h *BotHandler) RemoveBot(c echo.Context) error {
	ctx := c.Request().Context()
	h.botManager.RemoveBot(ctx, c.Param("id"))
	return c.NoContent(http.StatusOK)
}

// RegisterRoutes mounts the bot endpoints.
func (h *BotHandler) RegisterRoutes(g *echo.Group) {
	bots := g.Group("/bots")
	bots.POST("", h.CreateBot)
	bots.GET("", h.ListBots)
	bots.GET("/:id", h.GetBot)
	bots.DELETE("/:id", h.RemoveBot)
	bots.POST("/:id/stop", h.StopBot)
}
