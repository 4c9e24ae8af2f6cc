package services

import (
	"fmt"

	"gorm.io/gorm"

	"stock_tracker_backend/models"
)

// ExecutionService persists and queries ExecuteInfo audit rows
type ExecutionService struct {
	db *gorm.DB
}

// NewExecutionService creates an ExecutionService
func NewExecutionService(db *gorm.DB) *ExecutionService {
	return &ExecutionService{db: db}
}

// Save creates or updates an execution record
func (s *ExecutionService) Save(info *models.ExecuteInfo) error {
	if err := s.db.Save(info).Error; err != nil {
		return fmt.Errorf("save execution record: %w", err)
	}
	return nil
}

// GetPendingByTaskIDs returns pending execution rows for the given tasks
func (s *ExecutionService) GetPendingByTaskIDs(taskIDs []int) ([]models.ExecuteInfo, error) {
	var infos []models.ExecuteInfo
	if err := s.db.Where("task_id IN ? AND state = ?", taskIDs, models.ExecStatePending).
		Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("query pending executions: %w", err)
	}
	return infos, nil
}

// List returns recent execution records, newest first
func (s *ExecutionService) List(limit int) ([]models.ExecuteInfo, error) {
	var infos []models.ExecuteInfo
	if err := s.db.Order("start_time DESC").Limit(limit).Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	return infos, nil
}
