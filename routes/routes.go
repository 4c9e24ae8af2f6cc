package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"stock_tracker_backend/config"
	"stock_tracker_backend/controllers"
	"stock_tracker_backend/middleware"
	"stock_tracker_backend/services"
	"stock_tracker_backend/services/tasks"
)

// SetupRoutes sets up all API routes
func SetupRoutes(
	router *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	executor *tasks.Executor,
	stockService *services.StockService,
	executionService *services.ExecutionService,
	tickerConfigService *services.TickerConfigService,
	robotService *services.RobotService,
	hub *services.RealtimeHub,
) {
	loginLimiter := middleware.NewLoginRateLimiter(5, 15*time.Minute)

	taskController := controllers.NewTaskController(executor, executionService)
	stockController := controllers.NewStockController(stockService)
	tickerController := controllers.NewTickerController(tickerConfigService, robotService)
	authController := controllers.NewAuthController(db, cfg.JWTSecret, loginLimiter)

	// API v1 group
	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.Use(loginLimiter.Middleware())
		{
			auth.POST("/login", authController.Login)
		}

		// Read-only endpoints
		api.GET("/tasks", taskController.ListTasks)
		api.GET("/executions", taskController.ListExecutions)

		stocks := api.Group("/stocks")
		{
			stocks.GET("", stockController.GetStocks)
			stocks.GET("/:code", stockController.GetStock)
			stocks.GET("/:code/logs", stockController.GetStockLogs)
			stocks.GET("/:code/daily", stockController.GetDailyIndexes)
		}

		api.GET("/ticker/watchlist", tickerController.GetWatchList)
		api.GET("/ticker/robots", tickerController.GetRobots)

		// Mutating endpoints require an admin token
		admin := api.Group("")
		admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))
		{
			admin.POST("/tasks/:id/run", taskController.RunTask)
			admin.POST("/ticker/watchlist", tickerController.SaveWatchList)
		}
	}

	// Realtime ticker alerts
	router.GET("/ws/ticker", hub.HandleWebSocket)
}
