// Package strategy implements the trading-strategy engine run by the
// trade-ticker task. It evaluates each active strategy against the most
// recent daily index data and records the resulting signals.
package strategy

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_tracker_backend/models"
)

// Engine evaluates active trading strategies
type Engine struct {
	db *gorm.DB
}

// NewEngine creates an Engine
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// momentumParams are the parameters of the momentum strategy type
type momentumParams struct {
	Lookback  int     `json:"lookback"`  // number of trading days
	Threshold float64 `json:"threshold"` // percent move triggering a signal
}

// Execute runs every active strategy over the tracked stocks. Signal
// generation errors for a single stock are logged and skipped so one bad
// row does not abort the whole run.
func (e *Engine) Execute() error {
	var strategies []models.TradeStrategy
	if err := e.db.Where("is_active = ?", true).Find(&strategies).Error; err != nil {
		return fmt.Errorf("load strategies: %w", err)
	}
	if len(strategies) == 0 {
		return nil
	}

	var stocks []models.StockInfo
	if err := e.db.Where("state = ?", models.StockStateListed).Find(&stocks).Error; err != nil {
		return fmt.Errorf("load listed stocks: %w", err)
	}

	for _, strat := range strategies {
		count := 0
		for _, stock := range stocks {
			signal, err := e.evaluate(&strat, &stock)
			if err != nil {
				log.Printf("strategy %s failed for %s: %v", strat.Name, stock.Code, err)
				continue
			}
			if signal == nil {
				continue
			}
			if err := e.db.Create(signal).Error; err != nil {
				log.Printf("failed to save signal for %s: %v", stock.Code, err)
				continue
			}
			count++
		}
		log.Printf("strategy %s produced %d signals", strat.Name, count)
	}
	return nil
}

// evaluate applies one strategy to one stock, returning nil when no signal
// fires.
func (e *Engine) evaluate(strat *models.TradeStrategy, stock *models.StockInfo) (*models.TradeSignal, error) {
	params := momentumParams{Lookback: 5, Threshold: 5}
	if strat.Parameters != "" {
		if err := json.Unmarshal([]byte(strat.Parameters), &params); err != nil {
			return nil, fmt.Errorf("parse parameters: %w", err)
		}
	}
	if params.Lookback < 2 {
		params.Lookback = 2
	}

	var indexes []models.DailyIndex
	if err := e.db.Where("stock_info_id = ?", stock.ID).
		Order("date DESC").Limit(params.Lookback).Find(&indexes).Error; err != nil {
		return nil, fmt.Errorf("load daily indexes: %w", err)
	}
	if len(indexes) < params.Lookback {
		return nil, nil
	}

	latest := indexes[0]
	oldest := indexes[len(indexes)-1]
	if oldest.ClosingPrice.IsZero() {
		return nil, nil
	}

	move := latest.ClosingPrice.Sub(oldest.ClosingPrice).
		Div(oldest.ClosingPrice).
		Mul(decimal.NewFromInt(100))
	threshold := decimal.NewFromFloat(params.Threshold)

	var action string
	switch {
	case move.Cmp(threshold) >= 0:
		action = "BUY"
	case move.Cmp(threshold.Neg()) <= 0:
		action = "SELL"
	default:
		return nil, nil
	}

	return &models.TradeSignal{
		StrategyID:  strat.ID,
		StockInfoID: stock.ID,
		Date:        time.Now(),
		Action:      action,
		Price:       latest.ClosingPrice,
		Reason:      fmt.Sprintf("%s move %s%% over %d days", strat.Type, move.Round(2), params.Lookback),
	}, nil
}
