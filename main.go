package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"stock_tracker_backend/config"
	"stock_tracker_backend/models"
	"stock_tracker_backend/routes"
	"stock_tracker_backend/scheduler"
	"stock_tracker_backend/services"
	"stock_tracker_backend/services/strategy"
	"stock_tracker_backend/services/tasks"
)

func main() {
	log.Println("==============================================")
	log.Println("  Stock Tracker Backend - Starting...")
	log.Println("==============================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Config load issue: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	setupHealthEndpoints(router)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	log.Println("Running database migrations...")
	if err := runMigrations(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migrations completed successfully")

	if err := models.SeedDefaultAdminUser(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Printf("Warning: Could not seed admin user: %v", err)
	}

	// Optional MongoDB archive
	archive, err := services.NewMongoArchive(cfg.MongoURI)
	if err != nil {
		log.Printf("MongoDB archive not available: %v", err)
	}

	// Wire services and the task engine
	stockService := services.NewStockService(db, archive)
	executionService := services.NewExecutionService(db)
	robotService := services.NewRobotService(db)
	tickerConfigService := services.NewTickerConfigService(db)
	holidayService := services.NewHolidayService(db)
	messageService := services.NewMessageService()
	crawlerService := services.NewCrawlerService()
	strategyEngine := strategy.NewEngine(db)
	hub := services.NewRealtimeHub()

	executor := tasks.NewExecutor(
		holidayService,
		executionService,
		crawlerService,
		stockService,
		robotService,
		messageService,
		strategyEngine,
		tickerConfigService,
		hub,
	)

	routes.SetupRoutes(router, db, cfg, executor, stockService, executionService,
		tickerConfigService, robotService, hub)

	jobScheduler := scheduler.NewScheduler(executor, executionService, holidayService)
	jobScheduler.Start()

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on 0.0.0.0:%s", cfg.Port)
		log.Println("==============================================")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(server, jobScheduler, archive)
}

// runMigrations runs all database migrations
func runMigrations() error {
	db := config.DB

	if err := models.MigrateStockModels(db); err != nil {
		return err
	}
	if err := models.MigrateTaskModels(db); err != nil {
		return err
	}
	if err := models.MigrateTickerModels(db); err != nil {
		return err
	}
	if err := models.MigrateStrategyModels(db); err != nil {
		return err
	}
	if err := models.MigrateAdminModels(db); err != nil {
		return err
	}
	return nil
}

// setupHealthEndpoints sets up liveness and readiness probes
func setupHealthEndpoints(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Stock Tracker Backend",
			"version": "1.0.0",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		if config.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Database not connected",
			})
			return
		}
		sqlDB, err := config.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Database ping failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}

// requestLogger returns a request logging middleware
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		if c.Writer.Status() >= 400 || duration > 1*time.Second {
			log.Printf("%s %s %d %v", c.Request.Method, path, c.Writer.Status(), duration)
		}
	}
}

// gracefulShutdown handles graceful shutdown of the server
func gracefulShutdown(server *http.Server, jobScheduler *scheduler.Scheduler, archive *services.MongoArchive) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("Received signal %v, shutting down gracefully...", sig)

	jobScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if archive != nil {
		if err := archive.Close(); err != nil {
			log.Printf("Failed to close MongoDB archive: %v", err)
		}
	}

	if config.DB != nil {
		sqlDB, err := config.DB.DB()
		if err == nil {
			sqlDB.Close()
			log.Println("Database connection closed")
		}
	}

	log.Println("Server shutdown completed")
}
