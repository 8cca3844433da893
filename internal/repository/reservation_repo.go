package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// blockingStatuses are the statuses that occupy a table slot.
var blockingStatuses = []string{
	models.ReservationStatusPending,
	models.ReservationStatusConfirmed,
}

// reservationSortColumns allow-lists sortable columns for List.
var reservationSortColumns = map[string]string{
	"reservation_date": "reservation_date",
	"reservation_time": "reservation_time",
	"created_at":       "created_at",
	"customer_name":    "customer_name",
	"guests_count":     "guests_count",
	"status":           "status",
}

// ReservationRepository persists reservations.
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a reservation repository.
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a reservation.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// CreateTx inserts a reservation inside an existing transaction.
func (r *ReservationRepository) CreateTx(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Create(reservation).Error
}

// GetByID fetches a reservation by id.
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByIDWithTable fetches a reservation including its table and saloon.
func (r *ReservationRepository) GetByIDWithTable(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Table").
		Preload("Table.Saloon").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByCode fetches a reservation by its public code.
func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Table").
		Where("code = ?", code).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByCodeAndEmail fetches a reservation by code, verifying ownership
// by customer email.
func (r *ReservationRepository) GetByCodeAndEmail(ctx context.Context, code, email string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Table").
		Where("code = ?", code).
		Where("LOWER(customer_email) = LOWER(?)", email).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update saves a reservation.
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// UpdateTx saves a reservation inside an existing transaction.
func (r *ReservationRepository) UpdateTx(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Save(reservation).Error
}

// UpdateFields updates selected columns.
func (r *ReservationRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ExistsOverlap reports whether an active pending or confirmed
// reservation of the table overlaps the half-open time range
// [startTime, endTime) on date, excluding excludeID.
func (r *ReservationRepository) ExistsOverlap(ctx context.Context, tableID int64, date time.Time, startTime, endTime string, excludeID int64) (bool, error) {
	return r.existsOverlap(ctx, r.db, tableID, date, startTime, endTime, excludeID)
}

// ExistsOverlapTx is ExistsOverlap inside an existing transaction, used
// for the locked recheck before writing.
func (r *ReservationRepository) ExistsOverlapTx(ctx context.Context, tx *gorm.DB, tableID int64, date time.Time, startTime, endTime string, excludeID int64) (bool, error) {
	return r.existsOverlap(ctx, tx, tableID, date, startTime, endTime, excludeID)
}

func (r *ReservationRepository) existsOverlap(ctx context.Context, db *gorm.DB, tableID int64, date time.Time, startTime, endTime string, excludeID int64) (bool, error) {
	var count int64
	query := db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("table_id = ?", tableID).
		Where("reservation_date = ?", date).
		Where("is_active = ?", true).
		Where("status IN ?", blockingStatuses).
		Where("reservation_time < ? AND end_time > ?", endTime, startTime)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// ListByTableAndDate fetches the blocking reservations of a table on a
// date ordered by start time.
func (r *ReservationRepository) ListByTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Where("reservation_date = ?", date).
		Where("is_active = ?", true).
		Where("status IN ?", blockingStatuses).
		Order("reservation_time ASC").
		Find(&reservations).Error
	return reservations, err
}

// List fetches reservations with pagination, filters and sorting.
func (r *ReservationRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}, sortBy, sortDir string) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	if tableID, ok := filters["table_id"].(int64); ok && tableID > 0 {
		query = query.Where("table_id = ?", tableID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if statuses, ok := filters["statuses"].([]string); ok && len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if source, ok := filters["source"].(string); ok && source != "" {
		query = query.Where("source = ?", source)
	}
	if code, ok := filters["code"].(string); ok && code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if email, ok := filters["customer_email"].(string); ok && email != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", email)
	}
	if name, ok := filters["customer_name"].(string); ok && name != "" {
		query = query.Where("customer_name LIKE ?", "%"+name+"%")
	}
	if date, ok := filters["date"].(time.Time); ok {
		query = query.Where("reservation_date = ?", date)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("reservation_date >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("reservation_date <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := reservationSortColumns[sortBy]
	if !ok {
		column = "reservation_date"
	}
	direction := "ASC"
	if sortDir == "desc" {
		direction = "DESC"
	}

	if err := query.
		Preload("Table").
		Order(column + " " + direction).
		Order("reservation_time ASC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ListByEmail fetches a customer's reservations ordered by date desc.
func (r *ReservationRepository) ListByEmail(ctx context.Context, email string, offset, limit int) ([]*models.Reservation, int64, error) {
	filters := map[string]interface{}{
		"customer_email": email,
	}
	return r.List(ctx, offset, limit, filters, "reservation_date", "desc")
}

// ListRemindersDue fetches confirmed future reservations starting within
// the lead window that have not been reminded yet.
func (r *ReservationRepository) ListRemindersDue(ctx context.Context, now time.Time, leadHours int, limit int) ([]*models.Reservation, error) {
	var reservations []*models.Reservation

	horizon := now.Add(time.Duration(leadHours) * time.Hour)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizonDate := time.Date(horizon.Year(), horizon.Month(), horizon.Day(), 0, 0, 0, 0, time.UTC)

	err := r.db.WithContext(ctx).
		Preload("Table").
		Where("status = ?", models.ReservationStatusConfirmed).
		Where("is_active = ?", true).
		Where("reminder_sent = ?", false).
		Where("reservation_date >= ?", today).
		Where("reservation_date <= ?", horizonDate).
		Order("reservation_date ASC, reservation_time ASC").
		Limit(limit).
		Find(&reservations).Error
	return reservations, err
}

// MarkReminderSentTx flags the reminder inside a transaction so the flag
// and the send record commit together.
func (r *ReservationRepository) MarkReminderSentTx(ctx context.Context, tx *gorm.DB, id int64) error {
	return tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}

// ListToComplete fetches confirmed reservations on past dates, plus
// today's whose end time already passed.
func (r *ReservationRepository) ListToComplete(ctx context.Context, now time.Time, limit int) ([]*models.Reservation, error) {
	var reservations []*models.Reservation

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nowTime := now.Format("15:04")

	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReservationStatusConfirmed).
		Where("is_active = ?", true).
		Where("reservation_date < ? OR (reservation_date = ? AND end_time <= ?)",
			today, today, nowTime).
		Limit(limit).
		Find(&reservations).Error
	return reservations, err
}
