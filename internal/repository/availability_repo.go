package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// AvailabilityRepository persists weekly availability windows.
type AvailabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository creates an availability repository.
func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create inserts a window.
func (r *AvailabilityRepository) Create(ctx context.Context, window *models.AvailabilityWindow) error {
	return r.db.WithContext(ctx).Create(window).Error
}

// CreateBatch inserts windows atomically.
func (r *AvailabilityRepository) CreateBatch(ctx context.Context, windows []*models.AvailabilityWindow) error {
	if len(windows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&windows).Error
}

// GetByID fetches a window by id.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*models.AvailabilityWindow, error) {
	var window models.AvailabilityWindow
	err := r.db.WithContext(ctx).First(&window, id).Error
	if err != nil {
		return nil, err
	}
	return &window, nil
}

// Update saves a window.
func (r *AvailabilityRepository) Update(ctx context.Context, window *models.AvailabilityWindow) error {
	return r.db.WithContext(ctx).Save(window).Error
}

// Delete removes a window.
func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.AvailabilityWindow{}, id).Error
}

// ListByTable fetches every window of a table ordered by weekday and start.
func (r *AvailabilityRepository) ListByTable(ctx context.Context, tableID int64) ([]*models.AvailabilityWindow, error) {
	var windows []*models.AvailabilityWindow
	err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error
	return windows, err
}

// ListActiveByTableWeekday fetches the active windows of a table on a weekday.
func (r *AvailabilityRepository) ListActiveByTableWeekday(ctx context.Context, tableID int64, weekday int) ([]*models.AvailabilityWindow, error) {
	return r.listActiveByTableWeekday(ctx, r.db, tableID, weekday)
}

// ListActiveByTableWeekdayTx is ListActiveByTableWeekday inside an
// existing transaction, used for the locked recheck before a
// reservation write.
func (r *AvailabilityRepository) ListActiveByTableWeekdayTx(ctx context.Context, tx *gorm.DB, tableID int64, weekday int) ([]*models.AvailabilityWindow, error) {
	return r.listActiveByTableWeekday(ctx, tx, tableID, weekday)
}

func (r *AvailabilityRepository) listActiveByTableWeekday(ctx context.Context, db *gorm.DB, tableID int64, weekday int) ([]*models.AvailabilityWindow, error) {
	var windows []*models.AvailabilityWindow
	err := db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Where("weekday = ?", weekday).
		Where("is_active = ?", true).
		Order("start_time ASC").
		Find(&windows).Error
	return windows, err
}

// ListActiveByTable fetches every active window of a table.
func (r *AvailabilityRepository) ListActiveByTable(ctx context.Context, tableID int64) ([]*models.AvailabilityWindow, error) {
	var windows []*models.AvailabilityWindow
	err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Where("is_active = ?", true).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error
	return windows, err
}

// DeleteByTable removes every window of a table.
func (r *AvailabilityRepository) DeleteByTable(ctx context.Context, tableID int64) error {
	return r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Delete(&models.AvailabilityWindow{}).Error
}
