package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradeStrategy represents a configured trading strategy evaluated by the
// trade-ticker task. Parameters is a JSON blob interpreted by the engine.
type TradeStrategy struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex" json:"name"`
	Type       string    `json:"type"` // momentum, mean_reversion
	Parameters string    `json:"parameters"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TradeSignal represents a buy/sell signal produced by a strategy run
type TradeSignal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StrategyID  uint            `gorm:"index" json:"strategy_id"`
	StockInfoID uint            `gorm:"index" json:"stock_info_id"`
	Date        time.Time       `json:"date"`
	Action      string          `json:"action"` // BUY, SELL
	Price       decimal.Decimal `gorm:"type:decimal(15,2)" json:"price"`
	Reason      string          `json:"reason"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MigrateStrategyModels runs database migrations for strategy models
func MigrateStrategyModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&TradeStrategy{},
		&TradeSignal{},
	)
}
