package tasks

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stock_tracker_backend/models"
)

var (
	hundred        = decimal.NewFromInt(100)
	alertThreshold = decimal.NewFromInt(2)
)

// IncreaseRate returns the percentage change of current versus base,
// rounded to two decimals. Zero base yields a zero rate.
func IncreaseRate(current, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return current.Sub(base).Div(base).Mul(hundred).Round(2)
}

// runTicker checks every watched stock against its alert baseline. On the
// first observation of a code the pre-closing price becomes the baseline
// and a plain price message is sent. Afterwards a message is sent only
// when the move against the baseline reaches the threshold, at which point
// the baseline advances to the current closing price. No watch-list
// configuration means the task is a no-op.
//
// Runs are serialized: a slow pass may overlap the next scheduled slot or
// a manual trigger, and an interleaved Get/Set on the alert state would
// lose a baseline advance and duplicate the alert.
func (e *Executor) runTicker() error {
	e.tickerMu.Lock()
	defer e.tickerMu.Unlock()

	configs, err := e.tickerConf.GetListByKey(models.TickerKeyStockList)
	if err != nil {
		return fmt.Errorf("load ticker config: %w", err)
	}
	if len(configs) == 0 {
		return nil
	}

	config := configs[0]
	robot, err := e.robots.GetByID(config.RobotID)
	if err != nil {
		return fmt.Errorf("load ticker robot %d: %w", config.RobotID, err)
	}

	for _, code := range strings.Split(config.Value, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		dailyIndex, err := e.crawler.GetDailyIndex(code)
		if err != nil {
			return fmt.Errorf("fetch quote for %s: %w", code, err)
		}
		if dailyIndex == nil {
			continue
		}

		body, send := e.checkTicker(code, dailyIndex)
		if !send {
			continue
		}
		if err := e.messenger.SendDingTalk(body, robot.Webhook); err != nil {
			return fmt.Errorf("send ticker alert for %s: %w", code, err)
		}
		if e.broadcaster != nil {
			e.broadcaster.BroadcastAlert(code, body)
		}
	}

	return nil
}

// checkTicker advances the alert state machine for one code and returns
// the message to send, if any.
func (e *Executor) checkTicker(code string, dailyIndex *models.DailyIndex) (string, bool) {
	lastPrice, seen := e.alertState.Get(code)
	if !seen {
		e.alertState.Set(code, dailyIndex.PreClosingPrice)
		body := fmt.Sprintf("%s:当前价格:%.02f", code, dailyIndex.ClosingPrice.InexactFloat64())
		return body, true
	}

	rate := IncreaseRate(dailyIndex.ClosingPrice, lastPrice).Abs()
	if rate.Cmp(alertThreshold) < 0 {
		return "", false
	}

	e.alertState.Set(code, dailyIndex.ClosingPrice)
	displayRate := IncreaseRate(dailyIndex.ClosingPrice, dailyIndex.PreClosingPrice)
	body := fmt.Sprintf("%s:当前价格:%.02f, 涨幅%.02f%%", code,
		dailyIndex.ClosingPrice.InexactFloat64(),
		displayRate.InexactFloat64())
	return body, true
}
