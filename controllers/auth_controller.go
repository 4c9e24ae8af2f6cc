package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"stock_tracker_backend/middleware"
	"stock_tracker_backend/models"
)

// AuthController handles admin authentication
type AuthController struct {
	db        *gorm.DB
	jwtSecret string
	limiter   *middleware.LoginRateLimiter
}

// NewAuthController creates an AuthController
func NewAuthController(db *gorm.DB, jwtSecret string, limiter *middleware.LoginRateLimiter) *AuthController {
	return &AuthController{db: db, jwtSecret: jwtSecret, limiter: limiter}
}

// loginRequest is the JSON body for the login endpoint
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a bearer token
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var admin models.AdminUser
	if err := ac.db.Where("username = ? AND is_active = ?", req.Username, true).
		First(&admin).Error; err != nil {
		log.Printf("Admin login failed for user %s: user not found", req.Username)
		ac.limiter.RecordAttempt(c.ClientIP(), false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if !admin.CheckPassword(req.Password) {
		log.Printf("Admin login failed for user %s: invalid password", req.Username)
		ac.limiter.RecordAttempt(c.ClientIP(), false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := middleware.GenerateAdminToken(admin.Username, ac.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	ac.limiter.RecordAttempt(c.ClientIP(), true)
	now := time.Now()
	admin.LastLoginAt = &now
	ac.db.Save(&admin)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int((24 * time.Hour).Seconds()),
	})
}
