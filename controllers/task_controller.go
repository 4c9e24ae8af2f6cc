package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_tracker_backend/models"
	"stock_tracker_backend/services"
	"stock_tracker_backend/services/tasks"
)

// TaskController exposes the task engine over HTTP: triggering a task by
// ID and auditing past executions.
type TaskController struct {
	executor   *tasks.Executor
	executions *services.ExecutionService
}

// NewTaskController creates a TaskController
func NewTaskController(executor *tasks.Executor, executions *services.ExecutionService) *TaskController {
	return &TaskController{executor: executor, executions: executions}
}

// RunTask triggers one task synchronously and returns its execution record
func (tc *TaskController) RunTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task := models.TaskID(id)
	if !task.Known() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown task id"})
		return
	}

	info := &models.ExecuteInfo{TaskID: id, State: models.ExecStatePending}
	tc.executor.Execute(info)

	status := http.StatusOK
	if info.Message != "" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"task":      task.Name(),
		"execution": info,
	})
}

// ListExecutions returns recent execution records
func (tc *TaskController) ListExecutions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}

	infos, err := tc.executions.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": infos})
}

// ListTasks returns the known task IDs and names
func (tc *TaskController) ListTasks(c *gin.Context) {
	type taskEntry struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	entries := make([]taskEntry, 0)
	for id := models.TaskBeginOfYear; id <= models.TaskTradeTicker; id++ {
		entries = append(entries, taskEntry{ID: int(id), Name: id.Name()})
	}
	c.JSON(http.StatusOK, gin.H{"tasks": entries})
}
