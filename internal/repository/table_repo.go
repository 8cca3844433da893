package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// TableRepository persists dining tables.
type TableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a table repository.
func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{db: db}
}

// Create inserts a table.
func (r *TableRepository) Create(ctx context.Context, table *models.DiningTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

// GetByID fetches a table by id.
func (r *TableRepository) GetByID(ctx context.Context, id int64) (*models.DiningTable, error) {
	return r.getByID(ctx, r.db, id)
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *TableRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*models.DiningTable, error) {
	return r.getByID(ctx, tx, id)
}

func (r *TableRepository) getByID(ctx context.Context, db *gorm.DB, id int64) (*models.DiningTable, error) {
	var table models.DiningTable
	err := db.WithContext(ctx).First(&table, id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// GetByIDWithSaloon fetches a table including its saloon and area.
func (r *TableRepository) GetByIDWithSaloon(ctx context.Context, id int64) (*models.DiningTable, error) {
	var table models.DiningTable
	err := r.db.WithContext(ctx).
		Preload("Saloon").
		Preload("Saloon.Area").
		First(&table, id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// GetForUpdate fetches a table holding a row lock until the surrounding
// transaction ends. Serializes concurrent bookings of the same table.
// sqlite has no FOR UPDATE; there the transaction itself serializes
// writers.
func (r *TableRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*models.DiningTable, error) {
	query := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var table models.DiningTable
	err := query.First(&table, id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// Update saves a table.
func (r *TableRepository) Update(ctx context.Context, table *models.DiningTable) error {
	return r.db.WithContext(ctx).Save(table).Error
}

// Delete removes a table and its availability windows.
func (r *TableRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ?", id).
			Delete(&models.AvailabilityWindow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.DiningTable{}, id).Error
	})
}

// List fetches tables with pagination.
func (r *TableRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.DiningTable, int64, error) {
	var tables []*models.DiningTable
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DiningTable{})

	if saloonID, ok := filters["saloon_id"].(int64); ok && saloonID > 0 {
		query = query.Where("saloon_id = ?", saloonID)
	}
	if isActive, ok := filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", isActive)
	}
	if minCapacity, ok := filters["min_capacity"].(int); ok && minCapacity > 0 {
		query = query.Where("capacity >= ?", minCapacity)
	}
	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Saloon").
		Order("sort ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&tables).Error; err != nil {
		return nil, 0, err
	}

	return tables, total, nil
}

// ListBookable fetches active tables in active saloons and areas with
// capacity for the party, ordered by capacity then sort.
func (r *TableRepository) ListBookable(ctx context.Context, guests int, saloonID, areaID *int64) ([]*models.DiningTable, error) {
	var tables []*models.DiningTable

	query := r.db.WithContext(ctx).
		Model(&models.DiningTable{}).
		Joins("JOIN saloons ON saloons.id = tables.saloon_id").
		Joins("JOIN areas ON areas.id = saloons.area_id").
		Where("tables.is_active = ?", true).
		Where("saloons.is_active = ?", true).
		Where("areas.is_active = ?", true)

	if guests > 0 {
		query = query.Where("tables.capacity >= ?", guests)
	}
	if saloonID != nil {
		query = query.Where("tables.saloon_id = ?", *saloonID)
	}
	if areaID != nil {
		query = query.Where("saloons.area_id = ?", *areaID)
	}

	err := query.
		Preload("Saloon").
		Order("tables.capacity ASC, tables.sort ASC, tables.id ASC").
		Find(&tables).Error
	return tables, err
}

// ListActiveBySaloon fetches active tables in a saloon.
func (r *TableRepository) ListActiveBySaloon(ctx context.Context, saloonID int64) ([]*models.DiningTable, error) {
	var tables []*models.DiningTable
	err := r.db.WithContext(ctx).
		Where("saloon_id = ?", saloonID).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&tables).Error
	return tables, err
}
