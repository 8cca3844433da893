package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ReservationStatus values.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusNoShow    = "no_show"
)

// Actor values for status transitions.
const (
	ActorStaff    = "staff"
	ActorCustomer = "customer"
	ActorSystem   = "system"
)

// Reservation source values.
const (
	ReservationSourceAdmin  = "admin"
	ReservationSourcePortal = "portal"
)

// Reservation is a booking of one table for a date and time range.
type Reservation struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code            string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	TableID         int64      `gorm:"index;not null" json:"table_id"`
	CustomerName    string     `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone   string     `gorm:"type:varchar(30);not null" json:"customer_phone"`
	CustomerEmail   string     `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	GuestsCount     int        `gorm:"not null" json:"guests_count"`
	ReservationDate time.Time  `gorm:"type:date;not null;index" json:"reservation_date"`
	ReservationTime string     `gorm:"type:varchar(5);not null" json:"reservation_time"`
	EndTime         string     `gorm:"type:varchar(5);not null" json:"end_time"` // derived: start + duration
	DurationMin     int        `gorm:"not null" json:"duration_min"`
	Status          string     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	Source          string     `gorm:"type:varchar(20);not null;default:admin" json:"source"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`
	OverrideRules   JSON       `gorm:"type:jsonb" json:"override_rules,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	ReminderSent    bool       `gorm:"not null;default:false" json:"reminder_sent"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CancelReason    *string    `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Table *DiningTable `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

// TableName maps the model to its table.
func (Reservation) TableName() string {
	return "reservations"
}

// IsTerminal reports whether the status admits no further transitions.
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case ReservationStatusCompleted, ReservationStatusCancelled, ReservationStatusNoShow:
		return true
	}
	return false
}

// Blocking reports whether the reservation holds its table.
// Only active pending and confirmed reservations occupy a slot.
func (r *Reservation) Blocking() bool {
	if !r.IsActive {
		return false
	}
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// Overlaps reports whether the reservation's half-open time range
// intersects [startTime, endTime) on the same date.
func (r *Reservation) Overlaps(startTime, endTime string) bool {
	return r.ReservationTime < endTime && startTime < r.EndTime
}

// transitionKey indexes the allowed transition set.
type transitionKey struct {
	from  string
	to    string
	actor string
}

// transitions enumerates every allowed status change.
// Terminal states never appear as a source.
var transitions = map[transitionKey]struct{}{
	{ReservationStatusPending, ReservationStatusConfirmed, ActorStaff}:   {},
	{ReservationStatusPending, ReservationStatusCancelled, ActorStaff}:   {},
	{ReservationStatusPending, ReservationStatusCancelled, ActorCustomer}: {},

	{ReservationStatusConfirmed, ReservationStatusCompleted, ActorStaff}:  {},
	{ReservationStatusConfirmed, ReservationStatusCompleted, ActorSystem}: {},
	{ReservationStatusConfirmed, ReservationStatusCancelled, ActorStaff}:  {},
	{ReservationStatusConfirmed, ReservationStatusCancelled, ActorCustomer}: {},
	{ReservationStatusConfirmed, ReservationStatusNoShow, ActorStaff}: {},
}

// CanTransition reports whether actor may move a reservation from one
// status to another.
func CanTransition(from, to, actor string) bool {
	_, ok := transitions[transitionKey{from: from, to: to, actor: actor}]
	return ok
}

// ValidReservationStatus reports whether s is a known status value.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCompleted, ReservationStatusCancelled,
		ReservationStatusNoShow:
		return true
	}
	return false
}

// Override rule keys accepted in OverrideRules.
const (
	OverrideSchedule = "schedule" // skip the opening-hours check
	OverrideBlocks   = "blocks"   // skip the block check
	OverrideCapacity = "capacity" // skip table capacity and venue guest limit
)

// OverrideEnabled reports whether the named rule is bypassed.
func (r *Reservation) OverrideEnabled(rule string) bool {
	if r.OverrideRules == nil {
		return false
	}
	v, ok := r.OverrideRules[rule]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// JSON is a map column stored as jsonb.
type JSON map[string]interface{}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
