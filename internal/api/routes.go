/**
 * @description
 * API Route definitions.
 * Sets up the router groups and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/services
 * - backend/internal/metrics
 */

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/polyintel-project/backend/internal/api/handlers"
	"github.com/polyintel-project/backend/internal/metrics"
	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/services"
)

// Deps carries everything the routes need. Optional components are nil when
// their backing store is not configured, and their routes are not mounted.
type Deps struct {
	Markets handlers.SnapshotSource
	Arb     *services.ArbService
	Hub     *services.SnapshotStreamHub
	History handlers.RefreshHistory
	Metrics *metrics.Metrics
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Deps) {
	marketHandler := handlers.NewMarketHandler(deps.Markets)
	arbHandler := handlers.NewArbHandler(deps.Markets, deps.Arb)

	api := app.Group("/api")

	api.Get("/health", marketHandler.Health)

	// Snapshot reads
	api.Get("/markets", marketHandler.GetMarkets)
	api.Get("/market/:id", marketHandler.GetMarket)
	api.Get("/columns", marketHandler.GetColumns)
	api.Get("/columns/:name", marketHandler.GetColumn)
	api.Get("/trending", marketHandler.Column(models.ColumnTrending))
	api.Get("/closing-soon", marketHandler.Column(models.ColumnClosingSoon))
	api.Get("/whales", marketHandler.Column(models.ColumnNewsLag))
	api.Get("/stats", marketHandler.GetStats)

	api.Get("/arb", arbHandler.GetArbs)

	if deps.Hub != nil {
		api.Get("/stream", handlers.NewStreamHandler(deps.Hub).StreamRefreshes)
	}
	if deps.History != nil {
		api.Get("/refreshes", handlers.NewRefreshHandler(deps.History).GetRecentRuns)
	}

	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
}
