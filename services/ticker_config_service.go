package services

import (
	"fmt"

	"gorm.io/gorm"

	"stock_tracker_backend/models"
)

// TickerConfigService looks up and edits watch-list configuration
type TickerConfigService struct {
	db *gorm.DB
}

// NewTickerConfigService creates a TickerConfigService
func NewTickerConfigService(db *gorm.DB) *TickerConfigService {
	return &TickerConfigService{db: db}
}

// GetListByKey returns the configs registered under a key
func (s *TickerConfigService) GetListByKey(key int) ([]models.TickerConfig, error) {
	var configs []models.TickerConfig
	if err := s.db.Where("key = ?", key).Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("query ticker configs: %w", err)
	}
	return configs, nil
}

// Save creates or updates a ticker config
func (s *TickerConfigService) Save(config *models.TickerConfig) error {
	if err := s.db.Save(config).Error; err != nil {
		return fmt.Errorf("save ticker config: %w", err)
	}
	return nil
}
