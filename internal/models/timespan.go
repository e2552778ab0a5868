package models

import "time"

// Timespan is a recorded interval attributed to one task.
// A nil EndTime means the interval is still running.
type Timespan struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	TaskID    uint       `gorm:"not null;index" json:"task_id"`
	StartTime time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// IsOpen reports whether the timespan has not been closed yet.
func (ts Timespan) IsOpen() bool {
	return ts.EndTime == nil
}

// Duration returns end minus start, or zero for an open timespan.
func (ts Timespan) Duration() time.Duration {
	if ts.EndTime == nil {
		return 0
	}
	return ts.EndTime.Sub(ts.StartTime)
}

// Hours returns Duration expressed in hours.
func (ts Timespan) Hours() float64 {
	return ts.Duration().Hours()
}

// TimespanEntry is a timespan joined with the name of its owning task.
type TimespanEntry struct {
	Timespan
	TaskName string `json:"task_name"`
}
