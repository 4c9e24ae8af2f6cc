package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"stock_tracker_backend/services"
)

// StockController serves read access to stocks, their audit logs, and
// their daily index history.
type StockController struct {
	stocks *services.StockService
}

// NewStockController creates a StockController
func NewStockController(stocks *services.StockService) *StockController {
	return &StockController{stocks: stocks}
}

// GetStocks lists all tracked stocks
func (sc *StockController) GetStocks(c *gin.Context) {
	stocks, err := sc.stocks.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": stocks, "total": len(stocks)})
}

// GetStock returns one stock by code
func (sc *StockController) GetStock(c *gin.Context) {
	stock, err := sc.stocks.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stock)
}

// GetStockLogs returns the change log for one stock
func (sc *StockController) GetStockLogs(c *gin.Context) {
	stock, err := sc.stocks.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logs, err := sc.stocks.GetStockLogs(stock.ID, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock.Code, "logs": logs})
}

// GetDailyIndexes returns recent daily index rows for one stock
func (sc *StockController) GetDailyIndexes(c *gin.Context) {
	stock, err := sc.stocks.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	indexes, err := sc.stocks.GetDailyIndexes(stock.ID, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock.Code, "daily_indexes": indexes})
}

// queryLimit parses the limit query parameter with bounds
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil || limit <= 0 || limit > 500 {
		return 30
	}
	return limit
}
