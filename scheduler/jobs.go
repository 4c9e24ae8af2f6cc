package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"stock_tracker_backend/models"
	"stock_tracker_backend/services"
	"stock_tracker_backend/services/tasks"
)

// Scheduler manages scheduled invocations of the task engine
type Scheduler struct {
	cron       *gocron.Scheduler
	executor   *tasks.Executor
	executions *services.ExecutionService
	holidays   *services.HolidayService
}

// NewScheduler creates a new scheduler instance
func NewScheduler(executor *tasks.Executor, executions *services.ExecutionService, holidays *services.HolidayService) *Scheduler {
	return &Scheduler{
		cron:       gocron.NewScheduler(time.Local),
		executor:   executor,
		executions: executions,
		holidays:   holidays,
	}
}

// Start starts all scheduled jobs
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	// Calendar rollover shortly after midnight on January 1st
	s.cron.Every(1).Day().At("00:10").Do(func() {
		now := time.Now()
		if now.Month() == time.January && now.Day() == 1 {
			s.RunTasks(models.TaskBeginOfYear)
		}
		if now.Month() == time.December && now.Day() == 31 {
			s.RunTasks(models.TaskEndOfYear)
		}
	})

	// Day start: clear the ticker alert state before the open
	s.cron.Every(1).Day().At("08:30").Do(func() {
		s.RunTasks(models.TaskBeginOfDay)
	})

	// Roster and listing-state reconciliation before the open
	s.cron.Every(1).Day().At("08:45").Do(func() {
		s.RunTasks(models.TaskUpdateOfStock, models.TaskUpdateOfStockState)
	})

	// Ticker checks every minute during trading hours
	s.cron.Every(1).Minute().Do(func() {
		if s.isTradingTime(time.Now()) {
			s.RunTasks(models.TaskTicker, models.TaskTradeTicker)
		}
	})

	// Daily index ingestion after the close
	s.cron.Every(1).Day().At("15:30").Do(func() {
		s.RunTasks(models.TaskUpdateOfDailyIndex)
	})

	// Day end
	s.cron.Every(1).Day().At("16:00").Do(func() {
		s.RunTasks(models.TaskEndOfDay)
	})

	s.cron.StartAsync()
	log.Println("Scheduler started successfully")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

// RunTasks executes the given tasks in order. Pending execution rows are
// picked up when they exist; otherwise a fresh row is created per task so
// every run leaves an audit record.
func (s *Scheduler) RunTasks(taskIDs ...models.TaskID) {
	ids := make([]int, len(taskIDs))
	for i, id := range taskIDs {
		ids[i] = int(id)
	}

	pending, err := s.executions.GetPendingByTaskIDs(ids)
	if err != nil {
		log.Printf("failed to load pending executions: %v", err)
		pending = nil
	}
	pendingByTask := make(map[int][]models.ExecuteInfo)
	for _, info := range pending {
		pendingByTask[info.TaskID] = append(pendingByTask[info.TaskID], info)
	}

	for _, id := range taskIDs {
		infos := pendingByTask[int(id)]
		if len(infos) == 0 {
			infos = []models.ExecuteInfo{{TaskID: int(id), State: models.ExecStatePending}}
		}
		for i := range infos {
			s.executor.Execute(&infos[i])
		}
	}
}

// isTradingTime reports whether the A-share market is in session:
// weekdays 9:30-11:30 and 13:00-15:00 local time, excluding holidays.
func (s *Scheduler) isTradingTime(now time.Time) bool {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}
	if holiday, err := s.holidays.IsHoliday(now); err == nil && holiday {
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	morning := minutes >= 9*60+30 && minutes <= 11*60+30
	afternoon := minutes >= 13*60 && minutes <= 15*60
	return morning || afternoon
}
