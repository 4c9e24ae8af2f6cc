package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"stock_tracker_backend/models"
)

// HolidayService maintains the trading calendar for the current year
type HolidayService struct {
	db *gorm.DB
}

// NewHolidayService creates a HolidayService
func NewHolidayService(db *gorm.DB) *HolidayService {
	return &HolidayService{db: db}
}

// UpdateCurrentYear populates the non-trading-day calendar for the current
// year. The operation is idempotent: if rows for the year already exist it
// does nothing. Weekends are generated locally; exchange holiday rows are
// maintained through the admin API.
func (s *HolidayService) UpdateCurrentYear() error {
	year := time.Now().Year()

	var count int64
	if err := s.db.Model(&models.HolidayCalendar{}).
		Where("year = ?", year).Count(&count).Error; err != nil {
		return fmt.Errorf("count calendar rows for %d: %w", year, err)
	}
	if count > 0 {
		return nil
	}

	var holidays []models.HolidayCalendar
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	for day.Year() == year {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			holidays = append(holidays, models.HolidayCalendar{
				Year: year,
				Date: day,
				Name: "weekend",
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(holidays, 200).Error
	})
	if err != nil {
		return fmt.Errorf("save calendar for %d: %w", year, err)
	}

	log.Printf("Trading calendar initialized for %d: %d non-trading days", year, len(holidays))
	return nil
}

// IsHoliday reports whether the given date is a recorded non-trading day
func (s *HolidayService) IsHoliday(date time.Time) (bool, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	var count int64
	if err := s.db.Model(&models.HolidayCalendar{}).
		Where("date >= ? AND date < ?", start, start.AddDate(0, 0, 1)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("query calendar: %w", err)
	}
	return count > 0, nil
}
