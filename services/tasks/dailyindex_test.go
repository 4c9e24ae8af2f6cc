package tasks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stock_tracker_backend/models"
)

func validIndex(date time.Time) *models.DailyIndex {
	return &models.DailyIndex{
		Date:            date,
		OpeningPrice:    decimal.NewFromFloat(10.20),
		ClosingPrice:    decimal.NewFromFloat(10.50),
		PreClosingPrice: decimal.NewFromFloat(10.00),
		TradingVolume:   123456,
		TradingValue:    decimal.NewFromFloat(1296288.00),
	}
}

func TestAcceptDailyIndex(t *testing.T) {
	today := time.Date(2026, 8, 31, 15, 30, 0, 0, time.Local)

	cases := []struct {
		name   string
		mutate func(*models.DailyIndex)
		want   bool
	}{
		{"valid", func(d *models.DailyIndex) {}, true},
		{"zero opening price", func(d *models.DailyIndex) { d.OpeningPrice = decimal.Zero }, false},
		{"zero volume", func(d *models.DailyIndex) { d.TradingVolume = 0 }, false},
		{"zero trading value", func(d *models.DailyIndex) { d.TradingValue = decimal.Zero }, false},
		{"stale date", func(d *models.DailyIndex) { d.Date = today.AddDate(0, 0, -1) }, false},
		{"same day different time", func(d *models.DailyIndex) {
			d.Date = time.Date(2026, 8, 31, 9, 30, 0, 0, time.Local)
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			index := validIndex(today)
			tc.mutate(index)
			if got := AcceptDailyIndex(index, today); got != tc.want {
				t.Errorf("AcceptDailyIndex = %v, want %v", got, tc.want)
			}
		})
	}

	if AcceptDailyIndex(nil, today) {
		t.Error("nil record must be rejected")
	}
}

func TestUpdateOfDailyIndexNoOpWhenTodayExists(t *testing.T) {
	env := newTestEnv()
	env.stocks.todayIndex = true
	env.stocks.all = []models.StockInfo{{ID: 1, Code: "600000", Exchange: "sh", State: models.StockStateListed}}
	env.crawler.quotes["sh600000"] = validIndex(time.Now())

	info := execute(env, models.TaskUpdateOfDailyIndex)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.stocks.savedIndexes) != 0 {
		t.Error("save called even though today's index exists")
	}
}

func TestUpdateOfDailyIndexSkipsTerminalStocks(t *testing.T) {
	env := newTestEnv()
	env.stocks.all = []models.StockInfo{
		{ID: 1, Code: "600000", Exchange: "sh", State: models.StockStateListed},
		{ID: 2, Code: "600001", Exchange: "sh", State: models.StockStateDelisted},
		{ID: 3, Code: "600002", Exchange: "sh", State: models.StockStateTerminated},
	}
	env.crawler.quotes["sh600000"] = validIndex(time.Now())
	env.crawler.quotes["sh600001"] = validIndex(time.Now())
	env.crawler.quotes["sh600002"] = validIndex(time.Now())

	info := execute(env, models.TaskUpdateOfDailyIndex)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.stocks.savedIndexes) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(env.stocks.savedIndexes))
	}
	batch := env.stocks.savedIndexes[0]
	if len(batch) != 1 || batch[0].StockInfoID != 1 {
		t.Errorf("batch = %+v, want only stock 1", batch)
	}
}

func TestUpdateOfDailyIndexAllRejectedMeansNoSave(t *testing.T) {
	env := newTestEnv()
	env.stocks.all = []models.StockInfo{
		{ID: 1, Code: "600000", Exchange: "sh", State: models.StockStateListed},
		{ID: 2, Code: "600001", Exchange: "sh", State: models.StockStateListed},
	}
	stale := validIndex(time.Now().AddDate(0, 0, -1))
	zeroVolume := validIndex(time.Now())
	zeroVolume.TradingVolume = 0
	env.crawler.quotes["sh600000"] = stale
	env.crawler.quotes["sh600001"] = zeroVolume

	info := execute(env, models.TaskUpdateOfDailyIndex)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.stocks.savedIndexes) != 0 {
		t.Error("persistence called with an empty accepted set")
	}
}

func TestUpdateOfDailyIndexMissingQuoteIsNotAnError(t *testing.T) {
	env := newTestEnv()
	env.stocks.all = []models.StockInfo{
		{ID: 1, Code: "600000", Exchange: "sh", State: models.StockStateListed},
	}
	// No quote registered: crawler returns nil, nil.

	info := execute(env, models.TaskUpdateOfDailyIndex)

	if info.Message != "" {
		t.Errorf("missing quote must be a silent skip, got %q", info.Message)
	}
}

func TestUpdateOfDailyIndexTagsOwningStock(t *testing.T) {
	env := newTestEnv()
	env.stocks.all = []models.StockInfo{
		{ID: 42, Code: "600000", Exchange: "sh", State: models.StockStateListed},
	}
	env.crawler.quotes["sh600000"] = validIndex(time.Now())

	execute(env, models.TaskUpdateOfDailyIndex)

	if len(env.stocks.savedIndexes) != 1 {
		t.Fatal("expected one batch")
	}
	if got := env.stocks.savedIndexes[0][0].StockInfoID; got != 42 {
		t.Errorf("StockInfoID = %d, want 42", got)
	}
}
