package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// SaloonRepository persists saloons.
type SaloonRepository struct {
	db *gorm.DB
}

// NewSaloonRepository creates a saloon repository.
func NewSaloonRepository(db *gorm.DB) *SaloonRepository {
	return &SaloonRepository{db: db}
}

// Create inserts a saloon.
func (r *SaloonRepository) Create(ctx context.Context, saloon *models.Saloon) error {
	return r.db.WithContext(ctx).Create(saloon).Error
}

// GetByID fetches a saloon by id.
func (r *SaloonRepository) GetByID(ctx context.Context, id int64) (*models.Saloon, error) {
	var saloon models.Saloon
	err := r.db.WithContext(ctx).First(&saloon, id).Error
	if err != nil {
		return nil, err
	}
	return &saloon, nil
}

// GetByIDWithTables fetches a saloon including its tables.
func (r *SaloonRepository) GetByIDWithTables(ctx context.Context, id int64) (*models.Saloon, error) {
	var saloon models.Saloon
	err := r.db.WithContext(ctx).
		Preload("Tables").
		First(&saloon, id).Error
	if err != nil {
		return nil, err
	}
	return &saloon, nil
}

// Update saves a saloon.
func (r *SaloonRepository) Update(ctx context.Context, saloon *models.Saloon) error {
	return r.db.WithContext(ctx).Save(saloon).Error
}

// Delete removes a saloon.
func (r *SaloonRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Saloon{}, id).Error
}

// CountTables counts tables that belong to the saloon.
func (r *SaloonRepository) CountTables(ctx context.Context, saloonID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiningTable{}).
		Where("saloon_id = ?", saloonID).
		Count(&count).Error
	return count, err
}

// List fetches saloons with pagination.
func (r *SaloonRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Saloon, int64, error) {
	var saloons []*models.Saloon
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Saloon{})

	if areaID, ok := filters["area_id"].(int64); ok && areaID > 0 {
		query = query.Where("area_id = ?", areaID)
	}
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
		Preload("Area").
		Order("sort ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&saloons).Error; err != nil {
		return nil, 0, err
	}

	return saloons, total, nil
}

// ListActiveByArea fetches active saloons in an area.
func (r *SaloonRepository) ListActiveByArea(ctx context.Context, areaID int64) ([]*models.Saloon, error) {
	var saloons []*models.Saloon
	err := r.db.WithContext(ctx).
		Where("area_id = ?", areaID).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&saloons).Error
	return saloons, err
}

// ListActive fetches every active saloon.
func (r *SaloonRepository) ListActive(ctx context.Context) ([]*models.Saloon, error) {
	var saloons []*models.Saloon
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&saloons).Error
	return saloons, err
}
