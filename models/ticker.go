package models

import (
	"time"

	"gorm.io/gorm"
)

// Robot types for outbound notifications
const (
	RobotTypeDingTalk = 1
)

// Ticker config keys
const (
	TickerKeyStockList = 1
)

// Robot represents a chat-bot notification channel (DingTalk webhook)
type Robot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Type      int       `gorm:"index" json:"type"`
	Webhook   string    `json:"webhook"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TickerConfig represents a watch-list configuration: a comma-separated
// list of stock codes and the robot that receives its alerts.
type TickerConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       int       `gorm:"index" json:"key"`
	Value     string    `json:"value"` // comma-separated stock codes
	RobotID   uint      `json:"robot_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MigrateTickerModels runs database migrations for ticker-related models
func MigrateTickerModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Robot{},
		&TickerConfig{},
	)
}
