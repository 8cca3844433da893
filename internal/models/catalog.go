package models

import (
	"time"
)

// Area groups saloons, usually one per floor or environment.
type Area struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Sort        int       `gorm:"not null;default:0" json:"sort"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Saloons []Saloon `gorm:"foreignKey:AreaID" json:"saloons,omitempty"`
}

// TableName maps the model to its table.
func (Area) TableName() string {
	return "areas"
}

// Saloon is a dining room inside an area.
type Saloon struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AreaID      int64     `gorm:"index;not null" json:"area_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Sort        int       `gorm:"not null;default:0" json:"sort"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Area   *Area        `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	Tables []DiningTable `gorm:"foreignKey:SaloonID" json:"tables,omitempty"`
}

// TableName maps the model to its table.
func (Saloon) TableName() string {
	return "saloons"
}

// DiningTable is a bookable table inside a saloon.
type DiningTable struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SaloonID    int64     `gorm:"index;not null" json:"saloon_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Sort        int       `gorm:"not null;default:0" json:"sort"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Saloon  *Saloon              `gorm:"foreignKey:SaloonID" json:"saloon,omitempty"`
	Windows []AvailabilityWindow `gorm:"foreignKey:TableID" json:"windows,omitempty"`
}

// TableName maps the model to its table.
func (DiningTable) TableName() string {
	return "tables"
}
