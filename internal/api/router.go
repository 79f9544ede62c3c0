// Package api wires the HTTP surface of the simulator.
package api

import (
	"net/http"

	"mana-backtest/internal/api/handlers"
	"mana-backtest/internal/api/middleware"
	"mana-backtest/internal/data"

	"github.com/gin-gonic/gin"
)

// Options configures NewRouter.
type Options struct {
	// ProfileDir holds the rotation presets; empty uses PROFILE_DIR or ./examples/profiles.
	ProfileDir string
	// Origins for CORS; nil allows any origin.
	Origins []string
	// Cache stores run results for the ledger lookup. May be nil.
	Cache *data.ResultCache
	// AccessLog enables the request logger.
	AccessLog bool
}

func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	// Apply middleware
	if opts.Origins == nil {
		opts.Origins = []string{"*"}
	}
	router.Use(middleware.CORS(opts.Origins))
	if opts.AccessLog {
		router.Use(middleware.Logger())
	}
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(opts.ProfileDir)
	simulationHandler := handlers.NewSimulationHandler(opts.Cache, profileHandler)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.RunSimulation)
		api.GET("/simulate/:id/ledger", simulationHandler.GetLedger)
		api.POST("/simulate/compare", simulationHandler.CompareSimulations)
		api.POST("/accrue", simulationHandler.Accrue)

		api.GET("/models", handlers.ListModels)
		api.GET("/abilities", handlers.ListAbilities)
		api.GET("/profiles", profileHandler.ListProfiles)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}
