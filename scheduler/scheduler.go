package scheduler

// Package scheduler drives the task engine on a fixed timetable:
// - calendar rollover on the first day of the year
// - alert-state reset and roster reconciliation before the open
// - daily index ingestion after the close
// - ticker and trade-ticker checks every minute during trading hours
//
// The job definitions live in jobs.go
