package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"mana-backtest/internal/api"
	"mana-backtest/internal/api/middleware"
	"mana-backtest/internal/data"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if wd, err := os.Getwd(); err == nil {
		log.Printf("Working directory: %s", wd)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ttl := data.DefaultResultTTL
	if ttlStr := os.Getenv("RESULT_CACHE_TTL"); ttlStr != "" {
		if parsed, err := time.ParseDuration(ttlStr); err == nil {
			ttl = parsed
		} else {
			log.Printf("Ignoring RESULT_CACHE_TTL=%q: %v", ttlStr, err)
		}
	}
	cache := data.NewResultCache(ttl)
	defer cache.Stop()

	router := api.NewRouter(api.Options{
		ProfileDir: os.Getenv("PROFILE_DIR"),
		Origins:    middleware.ParseOrigins(os.Getenv("CORS_ORIGINS")),
		Cache:      cache,
		AccessLog:  true,
	})

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s (result cache ttl %s)", addr, ttl)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
