package reservation

import (
	"context"
	"time"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// CheckTableAvailable verifies a slot in fixed order: block, opening
// hours, overlapping reservation. Returns nil when the table is free,
// otherwise the sentinel naming the first failed rule.
func (s *Service) CheckTableAvailable(ctx context.Context, tableID int64, date time.Time, startTime string, durationMin int, excludeID int64) error {
	if durationMin <= 0 {
		durationMin = s.cfg.DefaultDuration
	}
	endTime, err := utils.AddMinutes(startTime, durationMin)
	if err != nil {
		return errors.ErrCrossesMidnight
	}

	blocked, err := s.blocks.IsBlocked(ctx, tableID, date, date, startTime, endTime)
	if err != nil {
		return err
	}
	if blocked {
		return errors.ErrSlotBlocked
	}

	open, err := s.availability.IsOpen(ctx, tableID, int(date.Weekday()), startTime)
	if err != nil {
		return err
	}
	if !open {
		return errors.ErrOutsideOpeningHours
	}

	overlap, err := s.reservationRepo.ExistsOverlap(ctx, tableID, date, startTime, endTime, excludeID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if overlap {
		return errors.ErrReservationConflict
	}
	return nil
}

// IsTableAvailable is the boolean form of CheckTableAvailable.
// Rule failures read as unavailable; other errors propagate.
func (s *Service) IsTableAvailable(ctx context.Context, tableID int64, date time.Time, startTime string, durationMin int, excludeID int64) (bool, error) {
	err := s.CheckTableAvailable(ctx, tableID, date, startTime, durationMin, excludeID)
	if err == nil {
		return true, nil
	}
	switch {
	case errors.ErrSlotBlocked.Is(err),
		errors.ErrOutsideOpeningHours.Is(err),
		errors.ErrReservationConflict.Is(err),
		errors.ErrCrossesMidnight.Is(err):
		return false, nil
	}
	return false, err
}

// GetAvailableTables fetches the bookable tables for a slot: active
// tables in active saloons and areas with enough capacity, each passing
// the availability check unless ignoreRules is set.
func (s *Service) GetAvailableTables(ctx context.Context, date time.Time, startTime string, durationMin, guests int, saloonID, areaID *int64, ignoreRules bool) ([]*models.DiningTable, error) {
	candidates, err := s.tableRepo.ListBookable(ctx, guests, saloonID, areaID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if ignoreRules {
		return candidates, nil
	}

	available := make([]*models.DiningTable, 0, len(candidates))
	for _, table := range candidates {
		ok, err := s.IsTableAvailable(ctx, table.ID, date, startTime, durationMin, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, table)
		}
	}
	return available, nil
}

// AssignTable picks a table for the slot using the configured strategy.
// Candidates arrive sorted by ascending capacity; an unknown strategy
// falls back to the first candidate.
func (s *Service) AssignTable(ctx context.Context, date time.Time, startTime string, durationMin, guests int, saloonID, areaID *int64) (*models.DiningTable, error) {
	candidates, err := s.GetAvailableTables(ctx, date, startTime, durationMin, guests, saloonID, areaID, false)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.GetMetrics().RecordConflict("no_table")
		return nil, errors.ErrNoTableAvailable
	}

	switch s.cfg.AssignStrategy {
	case config.AssignSmallestSuitable:
		return candidates[0], nil
	case config.AssignLargestAvailable:
		largest := candidates[0]
		for _, t := range candidates[1:] {
			if t.Capacity > largest.Capacity {
				largest = t
			}
		}
		return largest, nil
	case config.AssignRandom:
		return candidates[utils.RandomIndex(len(candidates))], nil
	default:
		return candidates[0], nil
	}
}
