package tasks

import (
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"stock_tracker_backend/models"
)

func tickerEnv(codes string) *testEnv {
	env := newTestEnv()
	env.tickerConf.configs = []models.TickerConfig{
		{ID: 1, Key: models.TickerKeyStockList, Value: codes, RobotID: 5},
	}
	env.robots.robots = []models.Robot{
		{ID: 5, Webhook: "https://hook.example/ticker"},
	}
	return env
}

func quote(close, preClose string) *models.DailyIndex {
	c, _ := decimal.NewFromString(close)
	p, _ := decimal.NewFromString(preClose)
	return &models.DailyIndex{
		ClosingPrice:    c,
		PreClosingPrice: p,
		OpeningPrice:    p,
		TradingVolume:   1000,
		TradingValue:    c.Mul(decimal.NewFromInt(1000)),
	}
}

func TestIncreaseRate(t *testing.T) {
	cases := []struct {
		current, base, want string
	}{
		{"10.30", "10.00", "3"},
		{"10.15", "10.00", "1.5"},
		{"9.70", "10.00", "-3"},
		{"10.00", "10.00", "0"},
	}
	for _, tc := range cases {
		got := IncreaseRate(decimalFrom(t, tc.current), decimalFrom(t, tc.base))
		if !got.Equal(decimalFrom(t, tc.want)) {
			t.Errorf("IncreaseRate(%s, %s) = %s, want %s", tc.current, tc.base, got, tc.want)
		}
	}

	if !IncreaseRate(decimalFrom(t, "10.00"), decimal.Zero).IsZero() {
		t.Error("zero base should yield zero rate")
	}
}

func TestTickerFirstTouch(t *testing.T) {
	env := tickerEnv("600000")
	env.crawler.quotes["600000"] = quote("10.50", "10.00")

	info := execute(env, models.TaskTicker)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.messenger.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(env.messenger.sent))
	}
	body := env.messenger.sent[0].body
	if body != "600000:当前价格:10.50" {
		t.Errorf("body = %q", body)
	}
	if strings.Contains(body, "%") {
		t.Error("first-touch message must not include a percentage")
	}

	baseline, ok := env.executor.alertState.Get("600000")
	if !ok || !baseline.Equal(decimalFrom(t, "10.00")) {
		t.Errorf("baseline = %v, want pre-closing 10.00", baseline)
	}
}

func TestTickerThresholdReached(t *testing.T) {
	env := tickerEnv("600000")
	env.executor.alertState.Set("600000", decimalFrom(t, "10.00"))
	env.crawler.quotes["600000"] = quote("10.30", "10.00")

	info := execute(env, models.TaskTicker)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.messenger.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(env.messenger.sent))
	}
	body := env.messenger.sent[0].body
	if body != "600000:当前价格:10.30, 涨幅3.00%" {
		t.Errorf("body = %q", body)
	}

	baseline, _ := env.executor.alertState.Get("600000")
	if !baseline.Equal(decimalFrom(t, "10.30")) {
		t.Errorf("baseline = %v, want updated 10.30", baseline)
	}
}

func TestTickerBelowThreshold(t *testing.T) {
	env := tickerEnv("600000")
	env.executor.alertState.Set("600000", decimalFrom(t, "10.00"))
	env.crawler.quotes["600000"] = quote("10.15", "10.00")

	info := execute(env, models.TaskTicker)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.messenger.sent) != 0 {
		t.Errorf("no message expected below threshold, got %+v", env.messenger.sent)
	}

	baseline, _ := env.executor.alertState.Get("600000")
	if !baseline.Equal(decimalFrom(t, "10.00")) {
		t.Errorf("baseline moved to %v, want unchanged 10.00", baseline)
	}
}

func TestTickerNegativeMoveTriggers(t *testing.T) {
	env := tickerEnv("600000")
	env.executor.alertState.Set("600000", decimalFrom(t, "10.00"))
	env.crawler.quotes["600000"] = quote("9.70", "10.00")

	execute(env, models.TaskTicker)

	if len(env.messenger.sent) != 1 {
		t.Fatalf("a -3%% move must alert, got %d messages", len(env.messenger.sent))
	}
	if !strings.Contains(env.messenger.sent[0].body, "涨幅-3.00%") {
		t.Errorf("body = %q", env.messenger.sent[0].body)
	}
}

func TestTickerNoConfigIsNoOp(t *testing.T) {
	env := newTestEnv()

	info := execute(env, models.TaskTicker)

	if info.Message != "" {
		t.Errorf("missing config must be a no-op, got %q", info.Message)
	}
	if len(env.messenger.sent) != 0 {
		t.Error("unexpected message with no watch-list")
	}
}

func TestTickerDayResetRevertsToUnseen(t *testing.T) {
	env := tickerEnv("600000")
	env.crawler.quotes["600000"] = quote("10.50", "10.00")

	// First observation marks the code seen.
	execute(env, models.TaskTicker)
	if _, ok := env.executor.alertState.Get("600000"); !ok {
		t.Fatal("code not marked seen")
	}

	// Day start clears the state; the next observation is a first touch.
	execute(env, models.TaskBeginOfDay)
	execute(env, models.TaskTicker)

	if len(env.messenger.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(env.messenger.sent))
	}
	second := env.messenger.sent[1].body
	if second != "600000:当前价格:10.50" {
		t.Errorf("post-reset message = %q, want first-touch format", second)
	}
}

func TestTickerSplitsAndTrimsCodes(t *testing.T) {
	env := tickerEnv("600000, 000001,")
	env.crawler.quotes["600000"] = quote("10.50", "10.00")
	env.crawler.quotes["000001"] = quote("8.40", "8.00")

	info := execute(env, models.TaskTicker)

	if info.Message != "" {
		t.Fatalf("task failed: %s", info.Message)
	}
	if len(env.messenger.sent) != 2 {
		t.Errorf("expected 2 first-touch messages, got %d", len(env.messenger.sent))
	}
}

func TestTickerOverlappingRunsAlertOnce(t *testing.T) {
	env := tickerEnv("600000")
	env.executor.alertState.Set("600000", decimalFrom(t, "10.00"))
	env.crawler.quotes["600000"] = quote("10.30", "10.00")

	// Simulates a slow pass overlapping the next scheduled slot. Only the
	// run that advances the baseline may alert.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := env.executor.runTicker(); err != nil {
				t.Errorf("runTicker: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(env.messenger.sent) != 1 {
		t.Fatalf("expected exactly 1 alert across overlapping runs, got %d", len(env.messenger.sent))
	}
	baseline, _ := env.executor.alertState.Get("600000")
	if !baseline.Equal(decimalFrom(t, "10.30")) {
		t.Errorf("baseline = %v, want 10.30", baseline)
	}
}

func TestAlertStateConcurrentAccess(t *testing.T) {
	state := NewAlertState()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			state.Set("600000", decimal.NewFromInt(int64(i)))
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		state.Get("600000")
		if i%100 == 0 {
			state.Clear()
		}
	}
	<-done
}
