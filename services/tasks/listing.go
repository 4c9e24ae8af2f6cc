package tasks

import (
	"fmt"
	"strconv"

	"stock_tracker_backend/models"
)

// StateResult classifies the outcome of comparing a stored listing state
// against the freshly observed one.
type StateResult int

const (
	StateUnchanged StateResult = iota
	StateTransitioned
	StateUnknown
)

// ClassifyStateChange maps a live listing state to the log type recorded
// for the transition. StateUnknown means the live value is outside the
// known enumeration and the scan must stop.
func ClassifyStateChange(stored, live int) (logType int, result StateResult) {
	if stored == live {
		return 0, StateUnchanged
	}
	switch live {
	case models.StockStateListed:
		return models.StockLogTypeReListed, StateTransitioned
	case models.StockStateTerminated:
		return models.StockLogTypeTerminated, StateTransitioned
	case models.StockStateDelisted:
		return models.StockLogTypeDelisted, StateTransitioned
	default:
		return 0, StateUnknown
	}
}

// runUpdateOfStockState checks every listed stock against its live listing
// state. Each genuine transition is committed per stock, together with its
// log entry, so a later failure does not roll back earlier transitions. An
// unknown live state is a configuration error and aborts the scan.
func (e *Executor) runUpdateOfStockState() error {
	listed, err := e.stocks.GetAllListed()
	if err != nil {
		return fmt.Errorf("load listed stocks: %w", err)
	}

	for _, stock := range listed {
		live, err := e.crawler.GetStockState(stock.Code)
		if err != nil {
			return fmt.Errorf("fetch state for %s: %w", stock.Code, err)
		}

		logType, result := ClassifyStateChange(stock.State, live)
		switch result {
		case StateUnchanged:
			continue
		case StateUnknown:
			return fmt.Errorf("unknown stock state %d for %s", live, stock.Code)
		}

		stockLog := models.StockLog{
			StockInfoID: stock.ID,
			Date:        e.now(),
			Type:        logType,
			OldValue:    strconv.Itoa(stock.State),
			NewValue:    strconv.Itoa(live),
		}
		stock.State = live
		if err := e.stocks.UpdateStocks(nil, []models.StockInfo{stock}, []models.StockLog{stockLog}); err != nil {
			return fmt.Errorf("save state change for %s: %w", stock.Code, err)
		}
	}

	return nil
}
