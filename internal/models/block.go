package models

import (
	"time"
)

// BlockType identifies the scope of a block.
const (
	BlockTypeTable      = "table"
	BlockTypeSaloon     = "saloon"
	BlockTypeRestaurant = "restaurant"
)

// Block suspends bookings for a table, a saloon or the whole restaurant
// over a date range, optionally limited to a daily time range.
type Block struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BlockType   string    `gorm:"type:varchar(20);not null;index" json:"block_type"`
	ReferenceID *int64    `gorm:"index" json:"reference_id,omitempty"` // table or saloon id; nil for restaurant
	StartDate   time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null;index" json:"end_date"`
	StartTime   *string   `gorm:"type:varchar(5)" json:"start_time,omitempty"` // nil means all day
	EndTime     *string   `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	Reason      *string   `gorm:"type:varchar(255)" json:"reason,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName maps the model to its table.
func (Block) TableName() string {
	return "blocks"
}

// AllDay reports whether the block has no daily time bounds.
func (b *Block) AllDay() bool {
	return b.StartTime == nil || b.EndTime == nil
}

// CoversDate reports whether date falls inside the block's inclusive
// date range. date must be normalized to midnight UTC.
func (b *Block) CoversDate(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}

// BlocksTimeRange reports whether the block suspends the half-open
// time range [startTime, endTime). All-day blocks suspend everything.
func (b *Block) BlocksTimeRange(startTime, endTime string) bool {
	if b.AllDay() {
		return true
	}
	return *b.StartTime < endTime && startTime < *b.EndTime
}

// AppliesToTable reports whether the block's scope reaches the table.
func (b *Block) AppliesToTable(tableID, saloonID int64) bool {
	switch b.BlockType {
	case BlockTypeRestaurant:
		return true
	case BlockTypeSaloon:
		return b.ReferenceID != nil && *b.ReferenceID == saloonID
	case BlockTypeTable:
		return b.ReferenceID != nil && *b.ReferenceID == tableID
	default:
		return false
	}
}
