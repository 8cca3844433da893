package models

import (
	"time"
)

// AvailabilityWindow is a weekly opening window for a table.
// A table may carry several windows on the same weekday (lunch and
// dinner services).
type AvailabilityWindow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID   int64     `gorm:"index;not null" json:"table_id"`
	Weekday   int       `gorm:"not null;index" json:"weekday"` // 0=Sunday .. 6=Saturday
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Table *DiningTable `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

// TableName maps the model to its table.
func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}

// Contains reports whether the window covers the start time. Both
// boundaries are inclusive: a reservation may start exactly at opening
// or exactly at closing. Only the start is checked; a booking may run
// past the window's end.
func (w *AvailabilityWindow) Contains(startTime string) bool {
	return w.StartTime <= startTime && startTime <= w.EndTime
}

// OverlapsRange reports whether the window's half-open time range
// intersects [startTime, endTime).
func (w *AvailabilityWindow) OverlapsRange(startTime, endTime string) bool {
	return w.StartTime < endTime && startTime < w.EndTime
}
