package router

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/linkhive/backend/internal/handlers"
	"github.com/linkhive/backend/internal/middleware"
	"github.com/linkhive/backend/internal/repositories"
	"github.com/linkhive/backend/internal/services"
	"github.com/linkhive/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.BodyLimit("10M"))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				log.Warn("request", fields...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	log.Info("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, cfg *config.Config, log *zap.Logger) error {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded avatars and cover images are served straight from disk
	e.Static("/uploads", cfg.UploadDir)

	// --- Initialize Repositories ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userRepo, err := repositories.NewMongoUserRepository(ctx, db)
	if err != nil {
		return err
	}
	linkRepo := repositories.NewMongoLinkRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)

	// --- Initialize Services ---
	userService := services.NewUserService(userRepo, linkRepo, commentRepo, log)
	linkService := services.NewLinkService(linkRepo, commentRepo, userRepo, log)
	commentService := services.NewCommentService(commentRepo, linkRepo, userRepo, log)
	blogService := services.NewBlogService(blogRepo)
	metadataService := services.NewMetadataService()

	// --- Auth middleware ---
	authRequired := middleware.Auth(userRepo, cfg.JWTSecret)
	authOptional := middleware.OptionalAuth(userRepo, cfg.JWTSecret)

	// --- Auth routes (rate limited) ---
	authGroup := e.Group("/api/auth")
	authGroup.Use(eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(20)))
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTTTL)
	authHandler.RegisterAuthRoutes(authGroup, authRequired)
	log.Info("Auth routes configured")

	// --- Link routes ---
	linkGroup := e.Group("/api/links")
	linkHandler := handlers.NewLinkHandler(linkService, metadataService)
	linkHandler.RegisterLinkRoutes(linkGroup, authRequired, authOptional)
	log.Info("Link routes configured")

	// --- Comment routes ---
	commentGroup := e.Group("/api/comments")
	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterCommentRoutes(commentGroup, authRequired)
	log.Info("Comment routes configured")

	// --- User routes ---
	userGroup := e.Group("/api/users")
	userHandler := handlers.NewUserHandler(userService, cfg.UploadDir)
	userHandler.RegisterUserRoutes(userGroup, authRequired)
	log.Info("User routes configured")

	// --- Blog routes ---
	blogGroup := e.Group("/api/blogs")
	blogHandler := handlers.NewBlogHandler(blogService, cfg.UploadDir)
	blogHandler.RegisterBlogRoutes(blogGroup, authRequired)
	log.Info("Blog routes configured")

	return nil
}
