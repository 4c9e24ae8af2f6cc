package tasks

import (
	"sync"

	"github.com/shopspring/decimal"
)

// AlertState tracks the last-alerted price per stock code for the ticker
// task. It lives for the lifetime of the process and is cleared in full by
// the begin-of-day task. All methods are safe for concurrent use.
type AlertState struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
}

// NewAlertState creates an empty AlertState
func NewAlertState() *AlertState {
	return &AlertState{
		prices: make(map[string]decimal.Decimal),
	}
}

// Get returns the baseline price for a code and whether one is recorded
func (a *AlertState) Get(code string) (decimal.Decimal, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	price, ok := a.prices[code]
	return price, ok
}

// Set records the baseline price for a code
func (a *AlertState) Set(code string, price decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prices[code] = price
}

// Clear removes all recorded baselines
func (a *AlertState) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prices = make(map[string]decimal.Decimal)
}
