// Package repository provides the data access layer.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// AreaRepository persists areas.
type AreaRepository struct {
	db *gorm.DB
}

// NewAreaRepository creates an area repository.
func NewAreaRepository(db *gorm.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// Create inserts an area.
func (r *AreaRepository) Create(ctx context.Context, area *models.Area) error {
	return r.db.WithContext(ctx).Create(area).Error
}

// GetByID fetches an area by id.
func (r *AreaRepository) GetByID(ctx context.Context, id int64) (*models.Area, error) {
	var area models.Area
	err := r.db.WithContext(ctx).First(&area, id).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// GetByIDWithSaloons fetches an area including its saloons.
func (r *AreaRepository) GetByIDWithSaloons(ctx context.Context, id int64) (*models.Area, error) {
	var area models.Area
	err := r.db.WithContext(ctx).
		Preload("Saloons").
		First(&area, id).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// Update saves an area.
func (r *AreaRepository) Update(ctx context.Context, area *models.Area) error {
	return r.db.WithContext(ctx).Save(area).Error
}

// Delete removes an area.
func (r *AreaRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Area{}, id).Error
}

// CountSaloons counts saloons that belong to the area.
func (r *AreaRepository) CountSaloons(ctx context.Context, areaID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Saloon{}).
		Where("area_id = ?", areaID).
		Count(&count).Error
	return count, err
}

// List fetches areas with pagination.
func (r *AreaRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Area, int64, error) {
	var areas []*models.Area
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Area{})

	if isActive, ok := filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", isActive)
	}
	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("sort ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&areas).Error; err != nil {
		return nil, 0, err
	}

	return areas, total, nil
}

// ListActive fetches every active area ordered by sort.
func (r *AreaRepository) ListActive(ctx context.Context) ([]*models.Area, error) {
	var areas []*models.Area
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&areas).Error
	return areas, err
}
