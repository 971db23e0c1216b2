package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shxbhx/RentGhar/internal/handler"
	mid "github.com/Shxbhx/RentGhar/internal/middleware"
	"github.com/Shxbhx/RentGhar/internal/store"
	"github.com/Shxbhx/RentGhar/pkg/cache"
	"github.com/Shxbhx/RentGhar/pkg/config"
	"github.com/Shxbhx/RentGhar/pkg/database"
	"github.com/Shxbhx/RentGhar/pkg/jwtutil"
	"github.com/Shxbhx/RentGhar/pkg/logger"
	"github.com/Shxbhx/RentGhar/pkg/validate"
	"github.com/Shxbhx/RentGhar/prometheus"
)

func main() {
	// Load .env file; missing is fine in environments that set vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting property listing service",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Optional redis cache for single-listing reads
	if err := cache.Init(cfg); err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if cache.Client() != nil {
		log.Info("Redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	users := store.NewUserStore(database.GetDB())
	properties := store.NewPropertyStore(database.GetDB())

	authHandler := handler.NewAuthHandler(users)
	userHandler := handler.NewUserHandler(users, properties)
	propertyHandler := handler.NewPropertyHandler(properties)

	// Initialize Echo instance
	e := echo.New()
	e.Validator = validate.New()

	// Middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	// Listings embed base64 image payloads, so bodies run large
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Operational endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.HealthCheck)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify", authHandler.Verify, mid.AuthMiddleware)

	// Property routes
	props := e.Group("/properties")
	props.GET("", propertyHandler.List)
	props.GET("/owner/:id", propertyHandler.ListByOwner)
	props.GET("/:id", propertyHandler.Get)
	props.POST("", propertyHandler.Create)
	props.PUT("/:id", propertyHandler.Update)
	props.DELETE("/:id", propertyHandler.Delete)

	// User routes, including the saved-property relationship
	usersGroup := e.Group("/users")
	usersGroup.GET("", userHandler.List)
	usersGroup.POST("", userHandler.Create)
	usersGroup.GET("/:id", userHandler.Get)
	usersGroup.PUT("/:id", userHandler.Update)
	usersGroup.DELETE("/:id", userHandler.Delete)
	usersGroup.POST("/:id/saved/:propertyId", userHandler.AddSaved)
	usersGroup.DELETE("/:id/saved/:propertyId", userHandler.RemoveSaved)
	usersGroup.GET("/:id/saved", userHandler.ListSaved)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
