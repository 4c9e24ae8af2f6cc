// Package tasks implements the housekeeping task engine: the dispatcher
// that maps a task ID to its handler and the handlers that reconcile the
// stock roster, track listing-state transitions, ingest daily indexes, and
// raise ticker price alerts.
package tasks

import (
	"fmt"
	"log"
	"sync"
	"time"

	"stock_tracker_backend/models"
)

// StockStore is the persistence collaborator consumed by the handlers
type StockStore interface {
	GetAll() ([]models.StockInfo, error)
	GetAllListed() ([]models.StockInfo, error)
	ExistsTodayDailyIndex() (bool, error)
	// UpdateStocks applies inserts, updates, and logs in one transaction
	UpdateStocks(adds, updates []models.StockInfo, logs []models.StockLog) error
	SaveDailyIndexes(indexes []models.DailyIndex) error
}

// ExecutionStore persists ExecuteInfo audit rows
type ExecutionStore interface {
	Save(info *models.ExecuteInfo) error
}

// Crawler fetches live market data from the external data source
type Crawler interface {
	GetStockList() ([]models.StockInfo, error)
	GetStockState(code string) (int, error)
	// GetDailyIndex returns nil when no quote is available for the code
	GetDailyIndex(code string) (*models.DailyIndex, error)
}

// RobotStore looks up notification channels
type RobotStore interface {
	GetListByType(robotType int) ([]models.Robot, error)
	GetByID(id uint) (*models.Robot, error)
}

// Messenger delivers a text message to a webhook target
type Messenger interface {
	SendDingTalk(body, webhook string) error
}

// TickerConfigStore looks up watch-list configuration
type TickerConfigStore interface {
	GetListByKey(key int) ([]models.TickerConfig, error)
}

// Calendar maintains the trading calendar
type Calendar interface {
	UpdateCurrentYear() error
}

// Strategy runs the trading-strategy engine; its internals are opaque here
type Strategy interface {
	Execute() error
}

// Broadcaster pushes ticker alerts to connected realtime clients.
// Implementations must not block the caller.
type Broadcaster interface {
	BroadcastAlert(code string, body string)
}

// Executor resolves task IDs to handlers, runs them, and records the
// outcome. Collaborators are injected at construction time.
type Executor struct {
	calendar    Calendar
	executions  ExecutionStore
	crawler     Crawler
	stocks      StockStore
	robots      RobotStore
	messenger   Messenger
	strategy    Strategy
	tickerConf  TickerConfigStore
	alertState  *AlertState
	broadcaster Broadcaster
	tickerMu    sync.Mutex
	now         func() time.Time
}

// NewExecutor creates an Executor with the given collaborators.
// broadcaster may be nil when no realtime hub is attached.
func NewExecutor(
	calendar Calendar,
	executions ExecutionStore,
	crawler Crawler,
	stocks StockStore,
	robots RobotStore,
	messenger Messenger,
	strategy Strategy,
	tickerConf TickerConfigStore,
	broadcaster Broadcaster,
) *Executor {
	return &Executor{
		calendar:    calendar,
		executions:  executions,
		crawler:     crawler,
		stocks:      stocks,
		robots:      robots,
		messenger:   messenger,
		strategy:    strategy,
		tickerConf:  tickerConf,
		alertState:  NewAlertState(),
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// Execute runs the task identified by info.TaskID. Handler failures are
// captured into info.Message and reported to the ops robot; they never
// propagate to the caller. The ExecuteInfo row is stamped with a completion
// time and saved exactly once on every path, including unknown task IDs.
func (e *Executor) Execute(info *models.ExecuteInfo) {
	info.StartTime = e.now()
	info.Message = ""

	task := models.TaskID(info.TaskID)
	if err := e.run(task); err != nil {
		info.Message = err.Error()
		log.Printf("task %s failed: %v", task.Name(), err)
		e.notifyFailure(task, err)
	}

	completed := e.now()
	info.CompleteTime = &completed
	info.State = models.ExecStateDone
	if err := e.executions.Save(info); err != nil {
		log.Printf("failed to save execution record for task %s: %v", task.Name(), err)
	}
}

// run dispatches to the handler for the task. Unknown IDs are a no-op.
func (e *Executor) run(task models.TaskID) error {
	switch task {
	case models.TaskBeginOfYear:
		return e.calendar.UpdateCurrentYear()
	case models.TaskEndOfYear:
		return nil
	case models.TaskBeginOfDay:
		e.alertState.Clear()
		return nil
	case models.TaskEndOfDay:
		return nil
	case models.TaskUpdateOfStock:
		return e.runUpdateOfStock()
	case models.TaskUpdateOfStockState:
		return e.runUpdateOfStockState()
	case models.TaskUpdateOfDailyIndex:
		return e.runUpdateOfDailyIndex()
	case models.TaskTicker:
		return e.runTicker()
	case models.TaskTradeTicker:
		return e.strategy.Execute()
	default:
		return nil
	}
}

// notifyFailure reports a handler failure to the first configured DingTalk
// robot. A missing robot or a send failure only suppresses the
// notification; the execution record is saved regardless.
func (e *Executor) notifyFailure(task models.TaskID, taskErr error) {
	robots, err := e.robots.GetListByType(models.RobotTypeDingTalk)
	if err != nil {
		log.Printf("failed to look up ops robots: %v", err)
		return
	}
	if len(robots) == 0 {
		return
	}

	body := fmt.Sprintf("task: %s, error: %s", task.Name(), taskErr.Error())
	if err := e.messenger.SendDingTalk(body, robots[0].Webhook); err != nil {
		log.Printf("failed to send ops notification: %v", err)
	}
}
