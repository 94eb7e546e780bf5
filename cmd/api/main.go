package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/config"
	"github.com/chainsim/dex-api/internal/liquidity"
	"github.com/chainsim/dex-api/internal/models"
	"github.com/chainsim/dex-api/internal/oracle"
	"github.com/chainsim/dex-api/internal/pool"
	"github.com/chainsim/dex-api/internal/stats"
	"github.com/chainsim/dex-api/internal/swap"
	"github.com/chainsim/dex-api/internal/token"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found")
	}

	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	// Database connection: postgres when configured, local sqlite otherwise
	var dialector gorm.Dialector
	if cfg.UsePostgres() {
		dialector = postgres.Open(cfg.PostgresDSN())
	} else {
		logrus.WithField("path", cfg.SQLitePath).Info("DB_HOST not set, using sqlite")
		dialector = sqlite.Open(cfg.SQLitePath)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Token{},
		&models.Pool{},
		&models.LiquidityPosition{},
		&models.Swap{},
	); err != nil {
		logrus.WithError(err).Fatal("Failed to migrate schema")
	}

	// Redis connection (optional; stats run uncached without it)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logrus.WithError(err).Warn("Failed to connect to Redis, stats cache disabled")
			rdb = nil
		}
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
			"service":   "dex-api",
		})
	})

	// Shared collaborators
	locker := pool.NewLocker()
	valueOracle := oracle.NewStatic(cfg.ReferenceTokenID, cfg.OracleRates)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		tokenRepo := token.NewTokenRepository(db)
		tokenService := token.NewService(tokenRepo)
		token.NewHandler(tokenService).RegisterRoutes(v1)

		poolRepo := pool.NewPoolRepository(db)
		poolService := pool.NewService(poolRepo, tokenService)
		pool.NewHandler(poolService).RegisterRoutes(v1)

		swapRepo := swap.NewSwapRepository(db)
		swapEngine := swap.NewEngine(db, poolRepo, swapRepo, locker)
		swap.NewHandler(swapEngine).RegisterRoutes(v1)

		positionRepo := liquidity.NewPositionRepository(db)
		liquidityEngine := liquidity.NewEngine(db, poolRepo, positionRepo, valueOracle, locker)
		liquidity.NewHandler(liquidityEngine).RegisterRoutes(v1)

		statsEngine := stats.NewEngine(poolRepo, swapRepo, valueOracle, rdb)
		stats.NewHandler(statsEngine).RegisterRoutes(v1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Port).Info("Starting DEX API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logrus.Info("Server exited")
}
