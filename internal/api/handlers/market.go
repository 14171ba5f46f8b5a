/**
 * @description
 * Market API Handlers.
 * Serves the live snapshot: market list, single market, columns and stats.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 *
 * @notes
 * - Every read goes through GetData, which refreshes an expired snapshot first.
 */

package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/polyintel-project/backend/internal/logger"
	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/services"
)

// SnapshotSource is the read side of the cache coordinator
type SnapshotSource interface {
	GetData(ctx context.Context) (*models.Snapshot, error)
	Current() *models.Snapshot
}

type MarketHandler struct {
	Source SnapshotSource
}

func NewMarketHandler(source SnapshotSource) *MarketHandler {
	return &MarketHandler{Source: source}
}

// Health reports liveness plus the age of the live snapshot, without refreshing it
// GET /api/health
func (h *MarketHandler) Health(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":  "ok",
		"service": "polyintel-backend",
	}
	if snap := h.Source.Current(); snap != nil {
		resp["markets"] = len(snap.Markets)
		resp["lastRefresh"] = snap.FetchedAt
		resp["snapshotAgeSec"] = int(time.Since(snap.FetchedAt).Seconds())
	}
	return c.JSON(resp)
}

// GetMarkets returns the filtered and sorted market list
// GET /api/markets?search=&category=&sort=&limit=
func (h *MarketHandler) GetMarkets(c *fiber.Ctx) error {
	snap, err := h.Source.GetData(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	results := services.QueryMarkets(snap.Markets, services.MarketQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Limit:    c.QueryInt("limit", 0),
	})

	return c.JSON(fiber.Map{
		"markets": results,
		"total":   len(results),
	})
}

// GetMarket returns one market by id
// GET /api/market/:id
func (h *MarketHandler) GetMarket(c *fiber.Ctx) error {
	snap, err := h.Source.GetData(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	market, err := services.FindMarket(snap.Markets, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(market)
}

// GetColumns returns every curated column
// GET /api/columns
func (h *MarketHandler) GetColumns(c *fiber.Ctx) error {
	snap, err := h.Source.GetData(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap.Columns)
}

// GetColumn returns a single column by its wire name
// GET /api/columns/:name
func (h *MarketHandler) GetColumn(c *fiber.Ctx) error {
	return h.column(c, c.Params("name"))
}

// Column returns a handler serving a fixed column, for the legacy shortcut routes
func (h *MarketHandler) Column(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.column(c, name)
	}
}

func (h *MarketHandler) column(c *fiber.Ctx, name string) error {
	snap, err := h.Source.GetData(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	markets, ok := snap.Columns.ByName(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown column: " + name,
		})
	}
	return c.JSON(markets)
}

// GetStats returns the aggregate counters of the live snapshot
// GET /api/stats
func (h *MarketHandler) GetStats(c *fiber.Ctx) error {
	snap, err := h.Source.GetData(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap.Stats)
}

// respondError maps service errors onto HTTP statuses
func respondError(c *fiber.Ctx, err error) error {
	var upstream *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrMarketNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Market not found"})
	case errors.As(err, &upstream):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("%s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
