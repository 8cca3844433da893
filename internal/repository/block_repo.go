package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// BlockRepository persists blocks.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a block repository.
func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create inserts a block.
func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

// GetByID fetches a block by id.
func (r *BlockRepository) GetByID(ctx context.Context, id int64) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).First(&block, id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Update saves a block.
func (r *BlockRepository) Update(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

// Delete removes a block.
func (r *BlockRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Block{}, id).Error
}

// List fetches blocks with pagination.
func (r *BlockRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Block, int64, error) {
	var blocks []*models.Block
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Block{})

	if blockType, ok := filters["block_type"].(string); ok && blockType != "" {
		query = query.Where("block_type = ?", blockType)
	}
	if referenceID, ok := filters["reference_id"].(int64); ok && referenceID > 0 {
		query = query.Where("reference_id = ?", referenceID)
	}
	if isActive, ok := filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", isActive)
	}
	if from, ok := filters["from_date"].(time.Time); ok {
		query = query.Where("end_date >= ?", from)
	}
	if to, ok := filters["to_date"].(time.Time); ok {
		query = query.Where("start_date <= ?", to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("start_date ASC, start_time ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&blocks).Error; err != nil {
		return nil, 0, err
	}

	return blocks, total, nil
}

// scopeForTable narrows a query to blocks that reach the table:
// its own, its saloon's, or restaurant-wide ones.
func scopeForTable(query *gorm.DB, tableID, saloonID int64) *gorm.DB {
	return query.Where(
		"(block_type = ? AND reference_id = ?) OR (block_type = ? AND reference_id = ?) OR block_type = ?",
		models.BlockTypeTable, tableID,
		models.BlockTypeSaloon, saloonID,
		models.BlockTypeRestaurant,
	)
}

// ListBlocking fetches active blocks that suspend the table over the
// inclusive date range [dateStart, dateEnd], restricted to the daily
// half-open time range [timeStart, timeEnd) when both are given.
// All-day blocks match any time range.
func (r *BlockRepository) ListBlocking(ctx context.Context, tableID, saloonID int64, dateStart, dateEnd time.Time, timeStart, timeEnd string) ([]*models.Block, error) {
	return r.listBlocking(ctx, r.db, tableID, saloonID, dateStart, dateEnd, timeStart, timeEnd)
}

// ListBlockingTx is ListBlocking inside an existing transaction, used
// for the locked recheck before a reservation write.
func (r *BlockRepository) ListBlockingTx(ctx context.Context, tx *gorm.DB, tableID, saloonID int64, dateStart, dateEnd time.Time, timeStart, timeEnd string) ([]*models.Block, error) {
	return r.listBlocking(ctx, tx, tableID, saloonID, dateStart, dateEnd, timeStart, timeEnd)
}

func (r *BlockRepository) listBlocking(ctx context.Context, db *gorm.DB, tableID, saloonID int64, dateStart, dateEnd time.Time, timeStart, timeEnd string) ([]*models.Block, error) {
	var blocks []*models.Block

	query := db.WithContext(ctx).
		Model(&models.Block{}).
		Where("is_active = ?", true).
		Where("start_date <= ?", dateEnd).
		Where("end_date >= ?", dateStart)
	query = scopeForTable(query, tableID, saloonID)

	if timeStart != "" && timeEnd != "" {
		query = query.Where(
			"start_time IS NULL OR end_time IS NULL OR (start_time < ? AND end_time > ?)",
			timeEnd, timeStart,
		)
	}

	err := query.
		Order("start_date ASC, start_time ASC, id ASC").
		Find(&blocks).Error
	return blocks, err
}

// ListOverlapping fetches active blocks whose date range intersects
// [dateStart, dateEnd] and whose scope reaches the candidate: a table
// candidate is also hit by its saloon's and restaurant-wide blocks, a
// saloon candidate by restaurant-wide ones. excludeID is skipped.
// Used for advisory conflict previews.
func (r *BlockRepository) ListOverlapping(ctx context.Context, blockType string, referenceID *int64, saloonID int64, dateStart, dateEnd time.Time, excludeID int64) ([]*models.Block, error) {
	var blocks []*models.Block

	query := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("is_active = ?", true).
		Where("start_date <= ?", dateEnd).
		Where("end_date >= ?", dateStart)

	switch blockType {
	case models.BlockTypeTable:
		query = scopeForTable(query, *referenceID, saloonID)
	case models.BlockTypeSaloon:
		query = query.Where(
			"(block_type = ? AND reference_id = ?) OR block_type = ?",
			models.BlockTypeSaloon, *referenceID,
			models.BlockTypeRestaurant,
		)
	default:
		query = query.Where("block_type = ?", models.BlockTypeRestaurant)
	}

	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	err := query.
		Order("start_date ASC, start_time ASC, id ASC").
		Find(&blocks).Error
	return blocks, err
}
