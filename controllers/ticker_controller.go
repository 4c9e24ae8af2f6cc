package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_tracker_backend/models"
	"stock_tracker_backend/services"
)

// TickerController manages the watch-list configuration and robots
type TickerController struct {
	configs *services.TickerConfigService
	robots  *services.RobotService
}

// NewTickerController creates a TickerController
func NewTickerController(configs *services.TickerConfigService, robots *services.RobotService) *TickerController {
	return &TickerController{configs: configs, robots: robots}
}

// GetWatchList returns the configured watch-lists
func (tc *TickerController) GetWatchList(c *gin.Context) {
	configs, err := tc.configs.GetListByKey(models.TickerKeyStockList)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configs": configs})
}

// watchListRequest is the body for creating or updating a watch-list
type watchListRequest struct {
	ID      uint   `json:"id"`
	Value   string `json:"value" binding:"required"` // comma-separated codes
	RobotID uint   `json:"robot_id" binding:"required"`
}

// SaveWatchList creates or updates a watch-list configuration
func (tc *TickerController) SaveWatchList(c *gin.Context) {
	var req watchListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := tc.robots.GetByID(req.RobotID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "robot not found"})
		return
	}

	config := models.TickerConfig{
		ID:      req.ID,
		Key:     models.TickerKeyStockList,
		Value:   req.Value,
		RobotID: req.RobotID,
	}
	if err := tc.configs.Save(&config); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, config)
}

// GetRobots lists the configured notification robots
func (tc *TickerController) GetRobots(c *gin.Context) {
	robots, err := tc.robots.GetListByType(models.RobotTypeDingTalk)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"robots": robots})
}
