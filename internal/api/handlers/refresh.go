package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/polyintel-project/backend/internal/models"
)

// RefreshHistory lists recorded refresh cycles
type RefreshHistory interface {
	RecentRuns(ctx context.Context, limit int) ([]models.RefreshRun, error)
}

type RefreshHandler struct {
	History RefreshHistory
}

func NewRefreshHandler(history RefreshHistory) *RefreshHandler {
	return &RefreshHandler{History: history}
}

// GetRecentRuns returns the latest refresh audit rows, newest first
// GET /api/refreshes?limit=
func (h *RefreshHandler) GetRecentRuns(c *fiber.Ctx) error {
	runs, err := h.History.RecentRuns(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"runs": runs})
}
