package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Exchange codes for China A-share markets
const (
	ExchangeShanghai = "sh"
	ExchangeShenzhen = "sz"
)

// Listing states for a stock
const (
	StockStateListed     = 1
	StockStateDelisted   = 2
	StockStateTerminated = 3
)

// Stock log types recorded on roster and listing-state changes
const (
	StockLogTypeNew        = 1
	StockLogTypeRename     = 2
	StockLogTypeReListed   = 3
	StockLogTypeDelisted   = 4
	StockLogTypeTerminated = 5
)

// StockInfo represents a tracked A-share instrument
type StockInfo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"index;not null" json:"code"`
	Name      string    `json:"name"`
	Exchange  string    `json:"exchange"` // sh, sz
	State     int       `gorm:"default:1" json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullCode returns the exchange-prefixed code used by quote providers
func (s *StockInfo) FullCode() string {
	return s.Exchange + s.Code
}

// StockLog represents an append-only audit record of a stock change
type StockLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StockInfoID uint      `gorm:"index" json:"stock_info_id"`
	Date        time.Time `json:"date"`
	Type        int       `json:"type"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	CreatedAt   time.Time `json:"created_at"`
}

// DailyIndex represents one day of price and volume data for a stock
type DailyIndex struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	StockInfoID     uint            `gorm:"index:idx_stock_date" json:"stock_info_id"`
	Date            time.Time       `gorm:"index:idx_stock_date" json:"date"`
	OpeningPrice    decimal.Decimal `gorm:"type:decimal(15,2)" json:"opening_price"`
	ClosingPrice    decimal.Decimal `gorm:"type:decimal(15,2)" json:"closing_price"`
	PreClosingPrice decimal.Decimal `gorm:"type:decimal(15,2)" json:"pre_closing_price"`
	HighestPrice    decimal.Decimal `gorm:"type:decimal(15,2)" json:"highest_price"`
	LowestPrice     decimal.Decimal `gorm:"type:decimal(15,2)" json:"lowest_price"`
	TradingVolume   int64           `json:"trading_volume"`
	TradingValue    decimal.Decimal `gorm:"type:decimal(20,2)" json:"trading_value"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsCompositeIndex reports whether exchange+code identifies a composite
// market index (SSE Composite, SZSE Component) rather than a single stock.
func IsCompositeIndex(exchange, code string) bool {
	return (exchange == ExchangeShanghai && code == "000001") ||
		(exchange == ExchangeShenzhen && code == "399001")
}

// MigrateStockModels runs database migrations for stock-related models
func MigrateStockModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&StockInfo{},
		&StockLog{},
		&DailyIndex{},
	)
}
