package tasks

import (
	"fmt"
	"time"

	"stock_tracker_backend/models"
)

const dateLayout = "2006-01-02"

// runUpdateOfDailyIndex ingests one daily index record per active stock.
// It runs at most once per trading day: if today's records already exist
// the task is a no-op. Rejected records are dropped silently because a
// missing quote on a given day is expected (trading halts, new listings).
func (e *Executor) runUpdateOfDailyIndex() error {
	exists, err := e.stocks.ExistsTodayDailyIndex()
	if err != nil {
		return fmt.Errorf("check today's daily index: %w", err)
	}
	if exists {
		return nil
	}

	all, err := e.stocks.GetAll()
	if err != nil {
		return fmt.Errorf("load stocks: %w", err)
	}

	today := e.now()
	var needSave []models.DailyIndex
	for _, stock := range all {
		if stock.State == models.StockStateDelisted || stock.State == models.StockStateTerminated {
			continue
		}

		dailyIndex, err := e.crawler.GetDailyIndex(stock.FullCode())
		if err != nil {
			return fmt.Errorf("fetch daily index for %s: %w", stock.FullCode(), err)
		}
		if !AcceptDailyIndex(dailyIndex, today) {
			continue
		}

		dailyIndex.StockInfoID = stock.ID
		needSave = append(needSave, *dailyIndex)
	}

	if len(needSave) == 0 {
		return nil
	}
	return e.stocks.SaveDailyIndexes(needSave)
}

// AcceptDailyIndex reports whether a fetched record is valid for today:
// positive opening price, volume, and trading value, and a record date
// matching the current calendar day.
func AcceptDailyIndex(index *models.DailyIndex, today time.Time) bool {
	if index == nil {
		return false
	}
	return index.OpeningPrice.IsPositive() &&
		index.TradingVolume > 0 &&
		index.TradingValue.IsPositive() &&
		index.Date.Format(dateLayout) == today.Format(dateLayout)
}
