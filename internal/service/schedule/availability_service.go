// Package schedule provides the weekly availability calendar and the
// block registry.
package schedule

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

// AvailabilityService manages weekly opening windows.
type AvailabilityService struct {
	availabilityRepo *repository.AvailabilityRepository
	tableRepo        *repository.TableRepository
}

// NewAvailabilityService creates an availability service.
func NewAvailabilityService(availabilityRepo *repository.AvailabilityRepository, tableRepo *repository.TableRepository) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		tableRepo:        tableRepo,
	}
}

// CreateWindowRequest carries window creation fields.
type CreateWindowRequest struct {
	TableID   int64  `json:"table_id" binding:"required"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateWindowRequest carries window update fields.
type UpdateWindowRequest struct {
	Weekday   *int    `json:"weekday"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsActive  *bool   `json:"is_active"`
}

func validateWindowBounds(weekday int, startTime, endTime string) error {
	if weekday < 0 || weekday > 6 {
		return errors.ErrInvalidWeekday
	}
	if !utils.ValidTimeOfDay(startTime) || !utils.ValidTimeOfDay(endTime) {
		return errors.ErrInvalidTime
	}
	if startTime >= endTime {
		return errors.ErrInvalidTimeRange
	}
	return nil
}

// CreateWindow creates an opening window for a table.
func (s *AvailabilityService) CreateWindow(ctx context.Context, req *CreateWindowRequest) (*models.AvailabilityWindow, error) {
	if err := validateWindowBounds(req.Weekday, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if _, err := s.tableRepo.GetByID(ctx, req.TableID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTableNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	window := &models.AvailabilityWindow{
		TableID:   req.TableID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}

	if err := s.availabilityRepo.Create(ctx, window); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return window, nil
}

// UpdateWindow modifies an opening window.
func (s *AvailabilityService) UpdateWindow(ctx context.Context, id int64, req *UpdateWindowRequest) (*models.AvailabilityWindow, error) {
	window, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrWindowNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	weekday := window.Weekday
	startTime := window.StartTime
	endTime := window.EndTime
	if req.Weekday != nil {
		weekday = *req.Weekday
	}
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	if err := validateWindowBounds(weekday, startTime, endTime); err != nil {
		return nil, err
	}

	window.Weekday = weekday
	window.StartTime = startTime
	window.EndTime = endTime
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}

	if err := s.availabilityRepo.Update(ctx, window); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return window, nil
}

// DeleteWindow removes an opening window.
func (s *AvailabilityService) DeleteWindow(ctx context.Context, id int64) error {
	if _, err := s.availabilityRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrWindowNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.availabilityRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListWindows fetches a table's windows.
func (s *AvailabilityService) ListWindows(ctx context.Context, tableID int64) ([]*models.AvailabilityWindow, error) {
	if _, err := s.tableRepo.GetByID(ctx, tableID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTableNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	windows, err := s.availabilityRepo.ListByTable(ctx, tableID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return windows, nil
}

// IsOpen reports whether any active window of the table covers the
// start time on the weekday. Only the start is checked, with both
// boundaries inclusive: a booking at the exact closing time is open
// and may run past the window's end.
func (s *AvailabilityService) IsOpen(ctx context.Context, tableID int64, weekday int, startTime string) (bool, error) {
	windows, err := s.availabilityRepo.ListActiveByTableWeekday(ctx, tableID, weekday)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return windowsContain(windows, startTime), nil
}

// IsOpenTx is IsOpen inside an existing transaction, used for the
// locked recheck before a reservation write.
func (s *AvailabilityService) IsOpenTx(ctx context.Context, tx *gorm.DB, tableID int64, weekday int, startTime string) (bool, error) {
	windows, err := s.availabilityRepo.ListActiveByTableWeekdayTx(ctx, tx, tableID, weekday)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return windowsContain(windows, startTime), nil
}

func windowsContain(windows []*models.AvailabilityWindow, startTime string) bool {
	for _, w := range windows {
		if w.Contains(startTime) {
			return true
		}
	}
	return false
}

// CopyWeekRequest selects the copy destination: explicit tables or a
// whole saloon.
type CopyWeekRequest struct {
	FromTableID int64   `json:"from_table_id" binding:"required"`
	ToTableIDs  []int64 `json:"to_table_ids"`
	ToSaloonID  *int64  `json:"to_saloon_id"`
}

// CopyWeekResult reports the outcome per destination table.
type CopyWeekResult struct {
	TableID int64 `json:"table_id"`
	Copied  int   `json:"copied"`
	Skipped int   `json:"skipped"`
}

// CopyWeek copies the source table's active week onto the destinations.
// Destination windows whose weekday and time range overlap an existing
// active window are skipped rather than duplicated.
func (s *AvailabilityService) CopyWeek(ctx context.Context, req *CopyWeekRequest) ([]CopyWeekResult, error) {
	source, err := s.availabilityRepo.ListActiveByTable(ctx, req.FromTableID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	targetIDs := req.ToTableIDs
	if req.ToSaloonID != nil {
		tables, err := s.tableRepo.ListActiveBySaloon(ctx, *req.ToSaloonID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		for _, t := range tables {
			targetIDs = append(targetIDs, t.ID)
		}
	}
	if len(targetIDs) == 0 {
		return nil, errors.ErrInvalidParams.WithMessage("no destination tables")
	}

	results := make([]CopyWeekResult, 0, len(targetIDs))
	for _, targetID := range targetIDs {
		if targetID == req.FromTableID {
			return nil, errors.ErrCopySameTable
		}

		if _, err := s.tableRepo.GetByID(ctx, targetID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrTableNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}

		existing, err := s.availabilityRepo.ListActiveByTable(ctx, targetID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}

		result := CopyWeekResult{TableID: targetID}
		var toCreate []*models.AvailabilityWindow
		for _, src := range source {
			if overlapsExisting(existing, src) {
				result.Skipped++
				continue
			}
			toCreate = append(toCreate, &models.AvailabilityWindow{
				TableID:   targetID,
				Weekday:   src.Weekday,
				StartTime: src.StartTime,
				EndTime:   src.EndTime,
				IsActive:  true,
			})
			result.Copied++
		}

		if err := s.availabilityRepo.CreateBatch(ctx, toCreate); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		results = append(results, result)
	}

	return results, nil
}

func overlapsExisting(existing []*models.AvailabilityWindow, candidate *models.AvailabilityWindow) bool {
	for _, w := range existing {
		if w.Weekday == candidate.Weekday && w.OverlapsRange(candidate.StartTime, candidate.EndTime) {
			return true
		}
	}
	return false
}
