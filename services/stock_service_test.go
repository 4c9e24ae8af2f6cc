package services

import (
	"testing"
	"time"

	"stock_tracker_backend/models"
)

func TestDayRangeUsesLocalMidnight(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)

	// 01:00 local. A UTC-anchored 24h truncation would start the window
	// at 08:00 local the previous day.
	now := time.Date(2026, 8, 31, 1, 0, 0, 0, cst)
	start, end := dayRange(now)

	wantStart := time.Date(2026, 8, 31, 0, 0, 0, 0, cst)
	wantEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, cst)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestDayRangeExcludesPreviousDay(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 8, 31, 1, 0, 0, 0, cst)
	start, end := dayRange(now)

	previousDay := time.Date(2026, 8, 30, 10, 0, 0, 0, cst)
	if !previousDay.Before(start) {
		t.Errorf("previous-day row %v falls inside window [%v, %v)", previousDay, start, end)
	}
	if !now.Before(end) || now.Before(start) {
		t.Errorf("now %v outside its own window [%v, %v)", now, start, end)
	}
}

func TestBackfillNewStockLogIDsPairsByPosition(t *testing.T) {
	// Two newly listed stocks sharing a display name must keep distinct
	// log rows.
	adds := []models.StockInfo{
		{ID: 11, Code: "600001", Name: "国泰集团"},
		{ID: 12, Code: "688001", Name: "国泰集团"},
	}
	logs := []models.StockLog{
		{Type: models.StockLogTypeNew, NewValue: "国泰集团"},
		{Type: models.StockLogTypeRename, StockInfoID: 7, OldValue: "旧名", NewValue: "新名"},
		{Type: models.StockLogTypeNew, NewValue: "国泰集团"},
	}

	backfillNewStockLogIDs(adds, logs)

	if logs[0].StockInfoID != 11 {
		t.Errorf("first new-stock log StockInfoID = %d, want 11", logs[0].StockInfoID)
	}
	if logs[2].StockInfoID != 12 {
		t.Errorf("second new-stock log StockInfoID = %d, want 12", logs[2].StockInfoID)
	}
	if logs[1].StockInfoID != 7 {
		t.Errorf("rename log StockInfoID = %d, want 7 untouched", logs[1].StockInfoID)
	}
}
