package schedule

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

// BlockService manages booking blocks.
type BlockService struct {
	blockRepo  *repository.BlockRepository
	tableRepo  *repository.TableRepository
	saloonRepo *repository.SaloonRepository
}

// NewBlockService creates a block service.
func NewBlockService(blockRepo *repository.BlockRepository, tableRepo *repository.TableRepository, saloonRepo *repository.SaloonRepository) *BlockService {
	return &BlockService{
		blockRepo:  blockRepo,
		tableRepo:  tableRepo,
		saloonRepo: saloonRepo,
	}
}

// BlockRequest carries block create/update fields.
type BlockRequest struct {
	BlockType   string  `json:"block_type" binding:"required"`
	ReferenceID *int64  `json:"reference_id"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Reason      *string `json:"reason"`
	IsActive    *bool   `json:"is_active"`
}

func (s *BlockService) validate(ctx context.Context, req *BlockRequest) (startDate, endDate time.Time, err error) {
	switch req.BlockType {
	case models.BlockTypeTable:
		if req.ReferenceID == nil {
			return startDate, endDate, errors.ErrBlockNeedsTarget
		}
		if _, err := s.tableRepo.GetByID(ctx, *req.ReferenceID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return startDate, endDate, errors.ErrTableNotFound
			}
			return startDate, endDate, errors.ErrDatabaseError.WithError(err)
		}
	case models.BlockTypeSaloon:
		if req.ReferenceID == nil {
			return startDate, endDate, errors.ErrBlockNeedsTarget
		}
		if _, err := s.saloonRepo.GetByID(ctx, *req.ReferenceID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return startDate, endDate, errors.ErrSaloonNotFound
			}
			return startDate, endDate, errors.ErrDatabaseError.WithError(err)
		}
	case models.BlockTypeRestaurant:
		req.ReferenceID = nil
	default:
		return startDate, endDate, errors.ErrInvalidBlockType
	}

	startDate, err = utils.ParseDate(req.StartDate)
	if err != nil {
		return startDate, endDate, errors.ErrInvalidDate
	}
	endDate, err = utils.ParseDate(req.EndDate)
	if err != nil {
		return startDate, endDate, errors.ErrInvalidDate
	}
	if startDate.After(endDate) {
		return startDate, endDate, errors.ErrInvalidDateRange
	}

	// time bounds come as a pair or not at all
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return startDate, endDate, errors.ErrInvalidTimeRange
	}
	if req.StartTime != nil {
		if !utils.ValidTimeOfDay(*req.StartTime) || !utils.ValidTimeOfDay(*req.EndTime) {
			return startDate, endDate, errors.ErrInvalidTime
		}
		if *req.StartTime >= *req.EndTime {
			return startDate, endDate, errors.ErrInvalidTimeRange
		}
	}

	return startDate, endDate, nil
}

// Create creates a block.
func (s *BlockService) Create(ctx context.Context, req *BlockRequest) (*models.Block, error) {
	startDate, endDate, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	block := &models.Block{
		BlockType:   req.BlockType,
		ReferenceID: req.ReferenceID,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
		IsActive:    true,
	}
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	if err := s.blockRepo.Create(ctx, block); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return block, nil
}

// Get fetches a block.
func (s *BlockService) Get(ctx context.Context, id int64) (*models.Block, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBlockNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return block, nil
}

// Update replaces a block's fields.
func (s *BlockService) Update(ctx context.Context, id int64, req *BlockRequest) (*models.Block, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBlockNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	startDate, endDate, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	block.BlockType = req.BlockType
	block.ReferenceID = req.ReferenceID
	block.StartDate = startDate
	block.EndDate = endDate
	block.StartTime = req.StartTime
	block.EndTime = req.EndTime
	block.Reason = req.Reason
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return block, nil
}

// Delete removes a block.
func (s *BlockService) Delete(ctx context.Context, id int64) error {
	if _, err := s.blockRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrBlockNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// List fetches blocks with pagination.
func (s *BlockService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Block, int64, error) {
	blocks, total, err := s.blockRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return blocks, total, nil
}

// IsBlocked reports whether the table is suspended anywhere inside the
// inclusive date range, optionally narrowed to a daily time range.
func (s *BlockService) IsBlocked(ctx context.Context, tableID int64, dateStart, dateEnd time.Time, timeStart, timeEnd string) (bool, error) {
	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, errors.ErrTableNotFound
		}
		return false, errors.ErrDatabaseError.WithError(err)
	}

	blocks, err := s.blockRepo.ListBlocking(ctx, tableID, table.SaloonID, dateStart, dateEnd, timeStart, timeEnd)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return len(blocks) > 0, nil
}

// IsBlockedTx is IsBlocked inside an existing transaction, used for
// the locked recheck before a reservation write.
func (s *BlockService) IsBlockedTx(ctx context.Context, tx *gorm.DB, tableID int64, dateStart, dateEnd time.Time, timeStart, timeEnd string) (bool, error) {
	table, err := s.tableRepo.GetByIDTx(ctx, tx, tableID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, errors.ErrTableNotFound
		}
		return false, errors.ErrDatabaseError.WithError(err)
	}

	blocks, err := s.blockRepo.ListBlockingTx(ctx, tx, tableID, table.SaloonID, dateStart, dateEnd, timeStart, timeEnd)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return len(blocks) > 0, nil
}

// ListAffecting fetches the blocks reaching a table over a date range,
// ordered by start date and time.
func (s *BlockService) ListAffecting(ctx context.Context, tableID int64, dateStart, dateEnd time.Time) ([]*models.Block, error) {
	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTableNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	blocks, err := s.blockRepo.ListBlocking(ctx, tableID, table.SaloonID, dateStart, dateEnd, "", "")
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return blocks, nil
}

// FindConflicts previews active blocks overlapping the candidate whose
// scope reaches the same tables: a table candidate also reports its
// parent saloon's and restaurant-wide blocks, a saloon candidate the
// restaurant-wide ones. The list is advisory: saving proceeds
// regardless. Restaurant-wide candidates report no conflicts.
func (s *BlockService) FindConflicts(ctx context.Context, req *BlockRequest, excludeID int64) ([]*models.Block, error) {
	startDate, endDate, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.BlockType == models.BlockTypeRestaurant {
		return nil, nil
	}

	var saloonID int64
	if req.BlockType == models.BlockTypeTable {
		table, err := s.tableRepo.GetByID(ctx, *req.ReferenceID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrTableNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		saloonID = table.SaloonID
	}

	candidates, err := s.blockRepo.ListOverlapping(ctx, req.BlockType, req.ReferenceID, saloonID, startDate, endDate, excludeID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// date ranges already overlap; drop candidates disjoint in time
	var conflicts []*models.Block
	for _, b := range candidates {
		if req.StartTime == nil || b.AllDay() || b.BlocksTimeRange(*req.StartTime, *req.EndTime) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}
