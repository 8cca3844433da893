// Package reservation implements the booking ledger: availability
// checks, table assignment, reservation writes and the status machine.
package reservation

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/service/schedule"
)

// codePrefix starts every reservation code.
const codePrefix = "RES"

// Notifier delivers reservation messages. Failures stay inside the
// implementation; the booking flow never blocks on them.
type Notifier interface {
	SendConfirmation(ctx context.Context, r *models.Reservation)
	SendCancellation(ctx context.Context, r *models.Reservation)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// SendConfirmation does nothing.
func (NopNotifier) SendConfirmation(ctx context.Context, r *models.Reservation) {}

// SendCancellation does nothing.
func (NopNotifier) SendCancellation(ctx context.Context, r *models.Reservation) {}

// Service is the reservation service.
type Service struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	tableRepo       *repository.TableRepository
	availability    *schedule.AvailabilityService
	blocks          *schedule.BlockService
	notifier        Notifier
	cfg             *config.ReservationConfig

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a reservation service.
func NewService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	tableRepo *repository.TableRepository,
	availability *schedule.AvailabilityService,
	blocks *schedule.BlockService,
	notifier Notifier,
	cfg *config.ReservationConfig,
) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		db:              db,
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		availability:    availability,
		blocks:          blocks,
		notifier:        notifier,
		cfg:             cfg,
		now:             time.Now,
	}
}

// CreateRequest carries reservation creation fields. TableID is
// optional: without it a table is auto-assigned, narrowed by SaloonID
// or AreaID when given.
type CreateRequest struct {
	TableID       *int64                 `json:"table_id"`
	SaloonID      *int64                 `json:"saloon_id"`
	AreaID        *int64                 `json:"area_id"`
	CustomerName  string                 `json:"customer_name" binding:"required,max=100"`
	CustomerPhone string                 `json:"customer_phone" binding:"required,max=30"`
	CustomerEmail string                 `json:"customer_email" binding:"required,max=255"`
	GuestsCount   int                    `json:"guests_count" binding:"required"`
	Date          string                 `json:"date" binding:"required"`
	Time          string                 `json:"time" binding:"required"`
	DurationMin   int                    `json:"duration_min"`
	Notes         *string                `json:"notes"`
	Status        string                 `json:"status"`
	OverrideRules map[string]interface{} `json:"override_rules"`
}

// UpdateRequest carries reservation update fields.
type UpdateRequest struct {
	TableID       *int64                 `json:"table_id"`
	CustomerName  *string                `json:"customer_name" binding:"omitempty,max=100"`
	CustomerPhone *string                `json:"customer_phone" binding:"omitempty,max=30"`
	CustomerEmail *string                `json:"customer_email" binding:"omitempty,max=255"`
	GuestsCount   *int                   `json:"guests_count"`
	Date          *string                `json:"date"`
	Time          *string                `json:"time"`
	DurationMin   *int                   `json:"duration_min"`
	Notes         *string                `json:"notes"`
	OverrideRules map[string]interface{} `json:"override_rules"`
}

func (s *Service) validateCustomer(name, phone, email string) error {
	if name == "" || phone == "" || email == "" {
		return errors.ErrMissingCustomer
	}
	if !utils.ValidateEmail(email) {
		return errors.ErrInvalidParams.WithMessage("invalid customer email")
	}
	if !utils.ValidatePhone(phone) {
		return errors.ErrInvalidParams.WithMessage("invalid customer phone")
	}
	return nil
}

// validateSchedule parses and checks the date, time and duration,
// returning the normalized date and the derived end time.
func (s *Service) validateSchedule(dateStr, timeStr string, durationMin int) (date time.Time, endTime string, err error) {
	date, err = utils.ParseDate(dateStr)
	if err != nil {
		return date, "", errors.ErrInvalidDate
	}
	if !utils.ValidTimeOfDay(timeStr) {
		return date, "", errors.ErrInvalidTime
	}
	endTime, err = utils.AddMinutes(timeStr, durationMin)
	if err != nil {
		return date, "", errors.ErrCrossesMidnight
	}
	return date, endTime, nil
}

// validateAdvance enforces the booking window for portal reservations.
func (s *Service) validateAdvance(date time.Time, timeStr string) error {
	start, err := utils.CombineDateTime(date, timeStr)
	if err != nil {
		return errors.ErrInvalidTime
	}
	now := s.now()

	if s.cfg.MinAdvanceHours > 0 {
		if start.Before(now.Add(time.Duration(s.cfg.MinAdvanceHours) * time.Hour)) {
			return errors.ErrAdvanceTooShort
		}
	} else if !start.After(now) {
		return errors.ErrPastReservation
	}

	if s.cfg.MaxAdvanceDays > 0 {
		if start.After(now.AddDate(0, 0, s.cfg.MaxAdvanceDays)) {
			return errors.ErrAdvanceTooLong
		}
	}
	return nil
}

// Create books a table. source distinguishes staff and portal writes:
// portal reservations start pending, enforce the advance window and
// never carry overrides. Staff writes may carry any valid status and
// may be past-dated, so a walk-in can be recorded after the fact.
func (s *Service) Create(ctx context.Context, req *CreateRequest, source string) (*models.Reservation, error) {
	if err := s.validateCustomer(req.CustomerName, req.CustomerPhone, req.CustomerEmail); err != nil {
		return nil, err
	}
	if req.GuestsCount <= 0 {
		return nil, errors.ErrGuestsInvalid
	}

	duration := req.DurationMin
	if duration <= 0 {
		duration = s.cfg.DefaultDuration
	}
	date, endTime, err := s.validateSchedule(req.Date, req.Time, duration)
	if err != nil {
		return nil, err
	}

	overrides := models.JSON(req.OverrideRules)
	status := models.ReservationStatusConfirmed
	if source == models.ReservationSourcePortal {
		overrides = nil
		status = models.ReservationStatusPending
		if err := s.validateAdvance(date, req.Time); err != nil {
			metrics.GetMetrics().RecordConflict("advance")
			return nil, err
		}
	} else if req.Status != "" {
		if !models.ValidReservationStatus(req.Status) {
			return nil, errors.ErrInvalidParams.WithMessage("invalid reservation status")
		}
		status = req.Status
	}

	reservation := &models.Reservation{
		Code:            utils.GenerateReservationCode(codePrefix),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		GuestsCount:     req.GuestsCount,
		ReservationDate: date,
		ReservationTime: req.Time,
		EndTime:         endTime,
		DurationMin:     duration,
		Status:          status,
		Source:          source,
		Notes:           req.Notes,
		OverrideRules:   overrides,
		IsActive:        true,
	}

	if !reservation.OverrideEnabled(models.OverrideCapacity) &&
		req.GuestsCount > s.cfg.MaxGuests {
		metrics.GetMetrics().RecordConflict("guest_limit")
		return nil, errors.ErrGuestsOverLimit
	}

	if req.TableID != nil {
		reservation.TableID = *req.TableID
	} else {
		table, err := s.AssignTable(ctx, date, req.Time, duration, req.GuestsCount, req.SaloonID, req.AreaID)
		if err != nil {
			return nil, err
		}
		reservation.TableID = table.ID
	}

	if err := s.writeChecked(ctx, reservation, 0); err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordReservationCreated(source)
	s.invalidateDaySlots(ctx, reservation.ReservationDate)
	if reservation.Status == models.ReservationStatusConfirmed {
		s.notifyConfirmed(ctx, reservation)
	}
	return reservation, nil
}

// writeChecked persists the reservation after re-running the
// availability check under a row lock on the table. The lock serializes
// concurrent writes for the same table, so two requests for the same
// slot cannot both pass the check.
func (s *Service) writeChecked(ctx context.Context, reservation *models.Reservation, excludeID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		table, err := s.tableRepo.GetForUpdate(ctx, tx, reservation.TableID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrTableNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if !table.IsActive {
			return errors.ErrTableInactive
		}

		if !reservation.OverrideEnabled(models.OverrideCapacity) &&
			reservation.GuestsCount > table.Capacity {
			metrics.GetMetrics().RecordConflict("capacity")
			return errors.ErrGuestsOverCapacity
		}

		if err := s.checkSlot(ctx, tx, reservation, excludeID); err != nil {
			return err
		}

		if reservation.ID == 0 {
			return s.reservationRepo.CreateTx(ctx, tx, reservation)
		}
		return s.reservationRepo.UpdateTx(ctx, tx, reservation)
	})
}

// checkSlot verifies the slot in fixed order: blocks, opening hours,
// then overlapping reservations. Overrides skip the first two; an
// overlap with another active booking is never overridable. Every
// query runs on tx so the whole check sits under the table's row lock.
func (s *Service) checkSlot(ctx context.Context, tx *gorm.DB, reservation *models.Reservation, excludeID int64) error {
	if !reservation.OverrideEnabled(models.OverrideBlocks) {
		blocked, err := s.blocks.IsBlockedTx(ctx, tx, reservation.TableID,
			reservation.ReservationDate, reservation.ReservationDate,
			reservation.ReservationTime, reservation.EndTime)
		if err != nil {
			return err
		}
		if blocked {
			metrics.GetMetrics().RecordConflict("block")
			return errors.ErrSlotBlocked
		}
	}

	if !reservation.OverrideEnabled(models.OverrideSchedule) {
		weekday := int(reservation.ReservationDate.Weekday())
		open, err := s.availability.IsOpenTx(ctx, tx, reservation.TableID, weekday,
			reservation.ReservationTime)
		if err != nil {
			return err
		}
		if !open {
			metrics.GetMetrics().RecordConflict("schedule")
			return errors.ErrOutsideOpeningHours
		}
	}

	overlap, err := s.reservationRepo.ExistsOverlapTx(ctx, tx, reservation.TableID,
		reservation.ReservationDate, reservation.ReservationTime, reservation.EndTime, excludeID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if overlap {
		metrics.GetMetrics().RecordConflict("overlap")
		return errors.ErrReservationConflict
	}
	return nil
}

// Update edits a live reservation, re-running the availability check
// with the reservation itself excluded from overlap detection.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if reservation.IsTerminal() {
		return nil, errors.ErrReservationInactive
	}

	if req.CustomerName != nil {
		reservation.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		reservation.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		reservation.CustomerEmail = *req.CustomerEmail
	}
	if err := s.validateCustomer(reservation.CustomerName, reservation.CustomerPhone, reservation.CustomerEmail); err != nil {
		return nil, err
	}

	if req.GuestsCount != nil {
		if *req.GuestsCount <= 0 {
			return nil, errors.ErrGuestsInvalid
		}
		reservation.GuestsCount = *req.GuestsCount
	}
	if req.TableID != nil {
		reservation.TableID = *req.TableID
	}
	if req.Notes != nil {
		reservation.Notes = req.Notes
	}
	if req.OverrideRules != nil {
		reservation.OverrideRules = models.JSON(req.OverrideRules)
	}

	oldDate := reservation.ReservationDate
	dateStr := utils.FormatDate(reservation.ReservationDate)
	if req.Date != nil {
		dateStr = *req.Date
	}
	timeStr := reservation.ReservationTime
	if req.Time != nil {
		timeStr = *req.Time
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			return nil, errors.ErrInvalidParams.WithMessage("duration must be positive")
		}
		reservation.DurationMin = *req.DurationMin
	}

	date, endTime, err := s.validateSchedule(dateStr, timeStr, reservation.DurationMin)
	if err != nil {
		return nil, err
	}
	reservation.ReservationDate = date
	reservation.ReservationTime = timeStr
	reservation.EndTime = endTime

	if !reservation.OverrideEnabled(models.OverrideCapacity) &&
		reservation.GuestsCount > s.cfg.MaxGuests {
		return nil, errors.ErrGuestsOverLimit
	}

	if err := s.writeChecked(ctx, reservation, reservation.ID); err != nil {
		return nil, err
	}
	s.invalidateDaySlots(ctx, reservation.ReservationDate)
	if !oldDate.Equal(reservation.ReservationDate) {
		s.invalidateDaySlots(ctx, oldDate)
	}
	return reservation, nil
}

// Get fetches a reservation with its table.
func (s *Service) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByIDWithTable(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}

// GetByCode fetches a reservation by public code.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}

// List fetches reservations with filters and sorting.
func (s *Service) List(ctx context.Context, offset, limit int, filters map[string]interface{}, sortBy, sortDir string) ([]*models.Reservation, int64, error) {
	reservations, total, err := s.reservationRepo.List(ctx, offset, limit, filters, sortBy, sortDir)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return reservations, total, nil
}

// ListByEmail fetches a customer's reservations for the portal.
func (s *Service) ListByEmail(ctx context.Context, email string, offset, limit int) ([]*models.Reservation, int64, error) {
	if !utils.ValidateEmail(email) {
		return nil, 0, errors.ErrInvalidParams.WithMessage("invalid email")
	}
	reservations, total, err := s.reservationRepo.ListByEmail(ctx, email, offset, limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return reservations, total, nil
}

// notifyConfirmed reloads the reservation with its table so templates
// can name it, then dispatches the confirmation.
func (s *Service) notifyConfirmed(ctx context.Context, reservation *models.Reservation) {
	loaded, err := s.reservationRepo.GetByIDWithTable(ctx, reservation.ID)
	if err != nil {
		loaded = reservation
	}
	s.notifier.SendConfirmation(ctx, loaded)
}
