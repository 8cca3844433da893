package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

type recordingNotifier struct {
	reminders []int64
}

func (n *recordingNotifier) SendReminder(_ context.Context, r *models.Reservation) {
	n.reminders = append(n.reminders, r.ID)
}

type recordingUpdater struct {
	completed []int64
	failOn    int64
}

func (u *recordingUpdater) UpdateStatus(_ context.Context, id int64, to, actor string, _ *string) (*models.Reservation, error) {
	if to != models.ReservationStatusCompleted || actor != models.ActorSystem {
		return nil, fmt.Errorf("unexpected transition %s by %s", to, actor)
	}
	if id == u.failOn {
		return nil, fmt.Errorf("update failed")
	}
	u.completed = append(u.completed, id)
	return &models.Reservation{ID: id, Status: to}, nil
}

func setupTasks(t *testing.T) (*gorm.DB, *TaskHandler, *recordingNotifier, *recordingUpdater) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection gets its own in-memory database; a single
	// connection keeps all sessions, transactions included, on one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Area{}, &models.Saloon{}, &models.DiningTable{},
		&models.Reservation{},
	))

	notifier := &recordingNotifier{}
	updater := &recordingUpdater{}
	handler := NewTaskHandler(
		db,
		repository.NewReservationRepository(db),
		notifier,
		updater,
		&config.ReservationConfig{ReminderLeadHours: 24},
	)
	handler.now = func() time.Time {
		return time.Date(2026, 9, 18, 10, 0, 0, 0, time.Local)
	}

	return db, handler, notifier, updater
}

func seedReservation(t *testing.T, db *gorm.DB, code string, date time.Time, startTime, endTime, status string, reminderSent bool) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		Code:            code,
		TableID:         1,
		CustomerName:    "Ana Souza",
		CustomerPhone:   "+5541999990000",
		CustomerEmail:   "ana@example.com",
		GuestsCount:     2,
		ReservationDate: date,
		ReservationTime: startTime,
		EndTime:         endTime,
		DurationMin:     90,
		Status:          status,
		Source:          models.ReservationSourceAdmin,
		IsActive:        true,
		ReminderSent:    reminderSent,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestSendReservationReminders(t *testing.T) {
	db, handler, notifier, _ := setupTasks(t)
	ctx := context.Background()

	today := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	due := seedReservation(t, db, "RES-DUE", today, "19:00", "20:30", models.ReservationStatusConfirmed, false)
	// beyond the 24h lead
	farOut := seedReservation(t, db, "RES-FAR", tomorrow, "21:00", "22:30", models.ReservationStatusConfirmed, false)
	// already reminded
	seedReservation(t, db, "RES-SENT", today, "20:00", "21:30", models.ReservationStatusConfirmed, true)
	// pending never gets a reminder
	seedReservation(t, db, "RES-PEND", today, "21:00", "22:30", models.ReservationStatusPending, false)
	// started earlier today
	seedReservation(t, db, "RES-PAST", today, "08:00", "09:30", models.ReservationStatusConfirmed, false)

	require.NoError(t, handler.SendReservationReminders(ctx))

	assert.Equal(t, []int64{due.ID}, notifier.reminders)

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, due.ID).Error)
	assert.True(t, reloaded.ReminderSent)

	require.NoError(t, db.First(&reloaded, farOut.ID).Error)
	assert.False(t, reloaded.ReminderSent)

	// second sweep finds nothing new
	require.NoError(t, handler.SendReservationReminders(ctx))
	assert.Len(t, notifier.reminders, 1)
}

func TestSendReservationRemindersLeadBoundary(t *testing.T) {
	db, handler, notifier, _ := setupTasks(t)
	ctx := context.Background()

	tomorrow := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)

	// clock is 10:00; 24h horizon reaches tomorrow 10:00
	inside := seedReservation(t, db, "RES-IN", tomorrow, "09:30", "11:00", models.ReservationStatusConfirmed, false)
	seedReservation(t, db, "RES-OUT", tomorrow, "10:30", "12:00", models.ReservationStatusConfirmed, false)

	require.NoError(t, handler.SendReservationReminders(ctx))
	assert.Equal(t, []int64{inside.ID}, notifier.reminders)
}

func TestCompletePastReservations(t *testing.T) {
	db, handler, _, updater := setupTasks(t)
	ctx := context.Background()

	today := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	past := seedReservation(t, db, "RES-YDAY", yesterday, "19:00", "20:30", models.ReservationStatusConfirmed, true)
	endedToday := seedReservation(t, db, "RES-AM", today, "08:00", "09:30", models.ReservationStatusConfirmed, true)
	// still running at 10:00
	seedReservation(t, db, "RES-LIVE", today, "09:00", "10:30", models.ReservationStatusConfirmed, true)
	// tonight, untouched
	seedReservation(t, db, "RES-PM", today, "19:00", "20:30", models.ReservationStatusConfirmed, true)
	// only confirmed reservations complete
	seedReservation(t, db, "RES-PEND", yesterday, "19:00", "20:30", models.ReservationStatusPending, false)

	require.NoError(t, handler.CompletePastReservations(ctx))
	assert.ElementsMatch(t, []int64{past.ID, endedToday.ID}, updater.completed)
}

func TestCompletePastReservationsContinuesOnError(t *testing.T) {
	db, handler, _, updater := setupTasks(t)
	ctx := context.Background()

	yesterday := time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC)
	first := seedReservation(t, db, "RES-1", yesterday, "19:00", "20:30", models.ReservationStatusConfirmed, true)
	second := seedReservation(t, db, "RES-2", yesterday, "20:00", "21:30", models.ReservationStatusConfirmed, true)

	updater.failOn = first.ID

	require.NoError(t, handler.CompletePastReservations(ctx))
	assert.Equal(t, []int64{second.ID}, updater.completed)
}

func TestSetupTasksRegistersSweeps(t *testing.T) {
	_, handler, _, _ := setupTasks(t)

	s := NewScheduler()
	SetupTasks(s, handler)

	require.Len(t, s.tasks, 2)
	assert.Equal(t, "SendReservationReminders", s.tasks[0].Name)
	assert.Equal(t, time.Hour, s.tasks[0].Interval)
	assert.Equal(t, "CompletePastReservations", s.tasks[1].Name)
	assert.Equal(t, 5*time.Minute, s.tasks[1].Interval)
}
