package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskID identifies a schedulable housekeeping job
type TaskID int

// The fixed set of housekeeping tasks. IDs are stable because they are
// referenced from execute_infos rows and the scheduler configuration.
const (
	TaskBeginOfYear TaskID = iota + 1
	TaskEndOfYear
	TaskBeginOfDay
	TaskEndOfDay
	TaskUpdateOfStock
	TaskUpdateOfStockState
	TaskUpdateOfDailyIndex
	TaskTicker
	TaskTradeTicker
)

var taskNames = map[TaskID]string{
	TaskBeginOfYear:        "beginOfYear",
	TaskEndOfYear:          "endOfYear",
	TaskBeginOfDay:         "beginOfDay",
	TaskEndOfDay:           "endOfDay",
	TaskUpdateOfStock:      "updateOfStock",
	TaskUpdateOfStockState: "updateOfStockState",
	TaskUpdateOfDailyIndex: "updateOfDailyIndex",
	TaskTicker:             "ticker",
	TaskTradeTicker:        "tradeTicker",
}

// Name returns the task's human-readable identifier, or "" for unknown IDs
func (t TaskID) Name() string {
	return taskNames[t]
}

// Known reports whether the ID maps to a defined task
func (t TaskID) Known() bool {
	_, ok := taskNames[t]
	return ok
}

// Execution states for an ExecuteInfo row
const (
	ExecStatePending = 0
	ExecStateDone    = 1
)

// ExecuteInfo represents one dispatch attempt of a task. Message is empty
// if and only if the handler completed without a reported failure.
type ExecuteInfo struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TaskID       int        `gorm:"index" json:"task_id"`
	State        int        `gorm:"index;default:0" json:"state"`
	StartTime    time.Time  `json:"start_time"`
	CompleteTime *time.Time `json:"complete_time"`
	Message      string     `json:"message"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HolidayCalendar represents one non-trading day of a calendar year
type HolidayCalendar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Year      int       `gorm:"index" json:"year"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MigrateTaskModels runs database migrations for task-related models
func MigrateTaskModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&ExecuteInfo{},
		&HolidayCalendar{},
	)
}
