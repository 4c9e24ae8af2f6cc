package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"stock_tracker_backend/models"
)

// StockService is the GORM-backed persistence layer for stocks, stock
// logs, and daily indexes. Archive is optional; when set, saved daily
// index batches are mirrored to MongoDB.
type StockService struct {
	db      *gorm.DB
	archive *MongoArchive
}

// NewStockService creates a StockService. archive may be nil.
func NewStockService(db *gorm.DB, archive *MongoArchive) *StockService {
	return &StockService{db: db, archive: archive}
}

// GetAll returns every tracked stock
func (s *StockService) GetAll() ([]models.StockInfo, error) {
	var stocks []models.StockInfo
	if err := s.db.Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	return stocks, nil
}

// GetAllListed returns every stock currently in the listed state
func (s *StockService) GetAllListed() ([]models.StockInfo, error) {
	var stocks []models.StockInfo
	if err := s.db.Where("state = ?", models.StockStateListed).Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("query listed stocks: %w", err)
	}
	return stocks, nil
}

// GetByCode returns a single stock by its code
func (s *StockService) GetByCode(code string) (*models.StockInfo, error) {
	var stock models.StockInfo
	if err := s.db.Where("code = ?", code).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// ExistsTodayDailyIndex reports whether any daily index row exists for the
// current calendar day.
func (s *StockService) ExistsTodayDailyIndex() (bool, error) {
	start, end := dayRange(time.Now())
	var count int64
	if err := s.db.Model(&models.DailyIndex{}).
		Where("date >= ? AND date < ?", start, end).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count today's daily index: %w", err)
	}
	return count > 0, nil
}

// dayRange returns the half-open interval covering the calendar day of now
// in its own location. Truncate would anchor the boundary at UTC midnight.
func dayRange(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// UpdateStocks applies roster inserts, updates, and log entries in a
// single transaction. Log rows for inserted stocks pick up the generated
// stock ID before being written.
func (s *StockService) UpdateStocks(adds, updates []models.StockInfo, logs []models.StockLog) error {
	if len(adds) == 0 && len(updates) == 0 && len(logs) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range adds {
			if err := tx.Create(&adds[i]).Error; err != nil {
				return fmt.Errorf("insert stock %s: %w", adds[i].Code, err)
			}
		}
		for i := range updates {
			if err := tx.Save(&updates[i]).Error; err != nil {
				return fmt.Errorf("update stock %s: %w", updates[i].Code, err)
			}
		}
		backfillNewStockLogIDs(adds, logs)
		for i := range logs {
			if err := tx.Create(&logs[i]).Error; err != nil {
				return fmt.Errorf("insert stock log: %w", err)
			}
		}
		return nil
	})
}

// backfillNewStockLogIDs assigns generated stock IDs to new-stock log rows.
// The reconciler emits one new-stock log per add in the same order, so the
// n-th such log belongs to adds[n]. Matching by name would conflate newly
// listed stocks that share a display name.
func backfillNewStockLogIDs(adds []models.StockInfo, logs []models.StockLog) {
	addIdx := 0
	for i := range logs {
		if logs[i].Type != models.StockLogTypeNew {
			continue
		}
		if logs[i].StockInfoID == 0 && addIdx < len(adds) {
			logs[i].StockInfoID = adds[addIdx].ID
		}
		addIdx++
	}
}

// SaveDailyIndexes persists a batch of daily index rows in one
// transaction and mirrors the batch to the archive if one is configured.
func (s *StockService) SaveDailyIndexes(indexes []models.DailyIndex) error {
	if len(indexes) == 0 {
		return nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(indexes, 200).Error
	})
	if err != nil {
		return fmt.Errorf("save daily indexes: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.ArchiveDailyIndexes(indexes); err != nil {
			// The archive is best-effort; the primary write already succeeded.
			log.Printf("failed to archive daily indexes: %v", err)
		}
	}
	return nil
}

// GetStockLogs returns the audit log entries for a stock, newest first
func (s *StockService) GetStockLogs(stockInfoID uint, limit int) ([]models.StockLog, error) {
	var logs []models.StockLog
	if err := s.db.Where("stock_info_id = ?", stockInfoID).
		Order("date DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("query stock logs: %w", err)
	}
	return logs, nil
}

// GetDailyIndexes returns recent daily index rows for a stock, newest first
func (s *StockService) GetDailyIndexes(stockInfoID uint, limit int) ([]models.DailyIndex, error) {
	var indexes []models.DailyIndex
	if err := s.db.Where("stock_info_id = ?", stockInfoID).
		Order("date DESC").Limit(limit).Find(&indexes).Error; err != nil {
		return nil, fmt.Errorf("query daily indexes: %w", err)
	}
	return indexes, nil
}
