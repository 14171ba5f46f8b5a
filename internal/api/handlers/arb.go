package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/polyintel-project/backend/internal/services"
)

type ArbHandler struct {
	Source  SnapshotSource
	Scanner *services.ArbService // nil when the scan is disabled
}

func NewArbHandler(source SnapshotSource, scanner *services.ArbService) *ArbHandler {
	return &ArbHandler{Source: source, Scanner: scanner}
}

// GetArbs returns Polymarket/Kalshi price gaps.
// Always 200: a missing snapshot yields an empty list with the error message.
// GET /api/arb
func (h *ArbHandler) GetArbs(c *fiber.Ctx) error {
	snap, err := h.Source.GetData(c.Context())
	if err != nil {
		return c.JSON(fiber.Map{
			"arbs":  []services.ArbOpportunity{},
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"arbs": h.Scanner.Scan(c.Context(), snap.Markets),
	})
}
