package tasks

import (
	"fmt"
	"time"

	"stock_tracker_backend/models"
)

// RosterDiff holds the result of reconciling the crawled stock universe
// against the stored one.
type RosterDiff struct {
	Adds    []models.StockInfo
	Updates []models.StockInfo
	Logs    []models.StockLog
}

// runUpdateOfStock reconciles the stored stock roster against the freshly
// crawled universe and applies the resulting diff in one batch.
func (e *Executor) runUpdateOfStock() error {
	stored, err := e.stocks.GetAll()
	if err != nil {
		return fmt.Errorf("load stored stocks: %w", err)
	}

	crawled, err := e.crawler.GetStockList()
	if err != nil {
		return fmt.Errorf("fetch stock list: %w", err)
	}

	diff := ReconcileRoster(stored, crawled, e.now())
	return e.stocks.UpdateStocks(diff.Adds, diff.Updates, diff.Logs)
}

// ReconcileRoster classifies each crawled stock as new, renamed, or
// unchanged relative to the stored set. Composite market indexes are
// excluded from the stored set. When duplicate codes exist in storage the
// first row wins. Re-running with identical inputs yields an empty diff.
func ReconcileRoster(stored, crawled []models.StockInfo, date time.Time) RosterDiff {
	byCode := make(map[string]models.StockInfo)
	for _, s := range stored {
		if models.IsCompositeIndex(s.Exchange, s.Code) {
			continue
		}
		if _, ok := byCode[s.Code]; !ok {
			byCode[s.Code] = s
		}
	}

	var diff RosterDiff
	for _, stock := range crawled {
		inDB, ok := byCode[stock.Code]
		if !ok {
			diff.Adds = append(diff.Adds, stock)
			diff.Logs = append(diff.Logs, models.StockLog{
				StockInfoID: stock.ID,
				Date:        date,
				Type:        models.StockLogTypeNew,
				OldValue:    "",
				NewValue:    stock.Name,
			})
			continue
		}

		if stock.Name != inDB.Name {
			// Carry the stored identity onto the crawled record so the
			// update targets the existing row.
			stock.ID = inDB.ID
			diff.Updates = append(diff.Updates, stock)
			diff.Logs = append(diff.Logs, models.StockLog{
				StockInfoID: stock.ID,
				Date:        date,
				Type:        models.StockLogTypeRename,
				OldValue:    inDB.Name,
				NewValue:    stock.Name,
			})
		}
	}

	return diff
}
