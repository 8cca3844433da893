package reservation

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

// UpdateStatus moves a reservation through the status machine on behalf
// of an actor. Confirmations and cancellations notify the customer.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to, actor string, reason *string) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByIDWithTable(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !models.ValidReservationStatus(to) {
		return nil, errors.ErrInvalidParams.WithMessage("invalid reservation status")
	}
	if !models.CanTransition(reservation.Status, to, actor) {
		return nil, errors.ErrInvalidTransition
	}

	now := s.now()
	reservation.Status = to
	switch to {
	case models.ReservationStatusCancelled:
		reservation.CancelledAt = &now
		reservation.CancelReason = reason
	case models.ReservationStatusCompleted:
		reservation.CompletedAt = &now
	}

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	metrics.GetMetrics().RecordReservationStatus(to)

	switch to {
	case models.ReservationStatusConfirmed:
		s.notifier.SendConfirmation(ctx, reservation)
	case models.ReservationStatusCancelled:
		s.invalidateDaySlots(ctx, reservation.ReservationDate)
		s.notifier.SendCancellation(ctx, reservation)
	case models.ReservationStatusNoShow:
		s.invalidateDaySlots(ctx, reservation.ReservationDate)
	}
	return reservation, nil
}

// LookupByCodeAndEmail fetches a reservation for the portal, matching
// the code against the customer's email.
func (s *Service) LookupByCodeAndEmail(ctx context.Context, code, email string) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByCodeAndEmail(ctx, code, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}

// CustomerCancel cancels the customer's own reservation. Only pending
// and confirmed reservations with a start still in the future qualify.
func (s *Service) CustomerCancel(ctx context.Context, code, email string, reason *string) (*models.Reservation, error) {
	reservation, err := s.LookupByCodeAndEmail(ctx, code, email)
	if err != nil {
		return nil, err
	}

	start, err := utils.CombineDateTime(reservation.ReservationDate, reservation.ReservationTime)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	if !start.After(s.now()) {
		return nil, errors.ErrCancelNotAllowed
	}

	return s.UpdateStatus(ctx, reservation.ID, models.ReservationStatusCancelled, models.ActorCustomer, reason)
}
