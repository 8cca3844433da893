package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/cache"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/logger"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

const sweepBatchSize = 100

// ReminderNotifier sends the pre-visit reminder.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, r *models.Reservation)
}

// StatusUpdater moves a reservation through its status machine.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, to, actor string, reason *string) (*models.Reservation, error)
}

// TaskHandler holds the dependencies of the background sweeps.
type TaskHandler struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	notifier        ReminderNotifier
	reservations    StatusUpdater
	cfg             *config.ReservationConfig
	log             *zap.Logger

	now func() time.Time
}

// NewTaskHandler creates a task handler.
func NewTaskHandler(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	notifier ReminderNotifier,
	reservations StatusUpdater,
	cfg *config.ReservationConfig,
) *TaskHandler {
	return &TaskHandler{
		db:              db,
		reservationRepo: reservationRepo,
		notifier:        notifier,
		reservations:    reservations,
		cfg:             cfg,
		log:             logger.GetLogger(),
		now:             time.Now,
	}
}

// acquireSweepLock takes a short redis lock so multiple instances never
// run the same sweep twice. Fails open when redis is down or absent.
func acquireSweepLock(ctx context.Context, name string) bool {
	if cache.GetClient() == nil {
		return true
	}
	ok, err := cache.SetNX(ctx, "sweep:"+name, "1", 10*time.Minute)
	if err != nil {
		return true
	}
	return ok
}

// SendReservationReminders mails the reminder for confirmed
// reservations starting within the configured lead window. The
// reminder_sent flag commits before the send, so a crash mid-sweep
// cannot double-remind.
func (h *TaskHandler) SendReservationReminders(ctx context.Context) error {
	if !acquireSweepLock(ctx, "reminders") {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.GetMetrics().RecordSweep("reminders", time.Since(start))
	}()

	leadHours := h.cfg.ReminderLeadHours
	if leadHours <= 0 {
		leadHours = 24
	}

	now := h.now()
	due, err := h.reservationRepo.ListRemindersDue(ctx, now, leadHours, sweepBatchSize)
	if err != nil {
		return err
	}

	horizon := now.Add(time.Duration(leadHours) * time.Hour)
	sent := 0
	for _, r := range due {
		// the repository filters by date only; narrow to the hour here
		startsAt, err := utils.CombineDateTime(r.ReservationDate, r.ReservationTime)
		if err != nil {
			h.log.Warn("skipping reminder with bad start time",
				zap.Int64("reservation_id", r.ID),
				zap.Error(err))
			continue
		}
		if startsAt.Before(now) || startsAt.After(horizon) {
			continue
		}

		err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return h.reservationRepo.MarkReminderSentTx(ctx, tx, r.ID)
		})
		if err != nil {
			h.log.Error("failed to flag reminder",
				zap.Int64("reservation_id", r.ID),
				zap.Error(err))
			continue
		}

		h.notifier.SendReminder(ctx, r)
		metrics.GetMetrics().RecordReminderSent()
		sent++
	}

	if sent > 0 {
		h.log.Info("reminders sent", zap.Int("count", sent))
	}
	return nil
}

// CompletePastReservations closes out confirmed reservations whose end
// time has passed.
func (h *TaskHandler) CompletePastReservations(ctx context.Context) error {
	if !acquireSweepLock(ctx, "complete") {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.GetMetrics().RecordSweep("complete", time.Since(start))
	}()

	due, err := h.reservationRepo.ListToComplete(ctx, h.now(), sweepBatchSize)
	if err != nil {
		return err
	}

	completed := 0
	for _, r := range due {
		if _, err := h.reservations.UpdateStatus(ctx, r.ID, models.ReservationStatusCompleted, models.ActorSystem, nil); err != nil {
			h.log.Error("failed to complete reservation",
				zap.Int64("reservation_id", r.ID),
				zap.Error(err))
			continue
		}
		completed++
	}

	if completed > 0 {
		h.log.Info("reservations completed", zap.Int("count", completed))
	}
	return nil
}

// SetupTasks registers the sweeps on the scheduler.
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	scheduler.AddTask("SendReservationReminders", 1*time.Hour, handler.SendReservationReminders)
	scheduler.AddTask("CompletePastReservations", 5*time.Minute, handler.CompletePastReservations)
}
