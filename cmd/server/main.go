package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/router"
	"github.com/linkhive/backend/pkg/config"
	"github.com/linkhive/backend/pkg/logger"
	"github.com/linkhive/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	if err := logger.Init(cfg.LogLevel, cfg.LogPath); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		logger.Sugar.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.CloseDB() // Ensure the connection is closed when main exits

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e, logger.Logger)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Client.Database(cfg.MongoDB), cfg, logger.Logger); err != nil {
		logger.Sugar.Fatalf("Failed to set up routes: %v", err)
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	logger.Sugar.Infof("LinkHive API listening on port %s", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
