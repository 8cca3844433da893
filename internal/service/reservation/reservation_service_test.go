package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	apperrors "github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/service/schedule"
)

// recordingNotifier captures dispatched notifications.
type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []string
	cancellations []string
}

func (n *recordingNotifier) SendConfirmation(ctx context.Context, r *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, r.Code)
}

func (n *recordingNotifier) SendCancellation(ctx context.Context, r *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancellations = append(n.cancellations, r.Code)
}

type fixture struct {
	db       *gorm.DB
	service  *Service
	blocks   *schedule.BlockService
	notifier *recordingNotifier
	table    *models.DiningTable
	saloon   *models.Saloon
	area     *models.Area
}

func testConfig() *config.ReservationConfig {
	return &config.ReservationConfig{
		DefaultDuration:   90,
		MaxGuests:         12,
		MinAdvanceHours:   2,
		MaxAdvanceDays:    60,
		Interval:          30,
		SelectionMode:     config.SelectionModeSaloon,
		AssignStrategy:    config.AssignSmallestSuitable,
		ReminderLeadHours: 24,
	}
}

// setup builds the full service stack on sqlite with one table open
// Fridays 18:00-23:00. The clock is pinned to 2026-09-14 12:00.
func setup(t *testing.T) *fixture {
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
		&models.AvailabilityWindow{}, &models.Block{}, &models.Reservation{},
	))

	area := &models.Area{Name: "Main floor", IsActive: true}
	require.NoError(t, db.Create(area).Error)
	saloon := &models.Saloon{AreaID: area.ID, Name: "Front saloon", IsActive: true}
	require.NoError(t, db.Create(saloon).Error)
	table := &models.DiningTable{SaloonID: saloon.ID, Name: "T1", Capacity: 4, IsActive: true}
	require.NoError(t, db.Create(table).Error)

	// 2026-09-18 is a Friday
	window := &models.AvailabilityWindow{
		TableID: table.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00", IsActive: true,
	}
	require.NoError(t, db.Create(window).Error)

	reservationRepo := repository.NewReservationRepository(db)
	tableRepo := repository.NewTableRepository(db)
	saloonRepo := repository.NewSaloonRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	blockRepo := repository.NewBlockRepository(db)

	availability := schedule.NewAvailabilityService(availabilityRepo, tableRepo)
	blocks := schedule.NewBlockService(blockRepo, tableRepo, saloonRepo)

	notifier := &recordingNotifier{}
	service := NewService(db, reservationRepo, tableRepo, availability, blocks, notifier, testConfig())
	service.now = func() time.Time {
		return time.Date(2026, 9, 14, 12, 0, 0, 0, time.Local)
	}

	return &fixture{
		db: db, service: service, blocks: blocks, notifier: notifier,
		table: table, saloon: saloon, area: area,
	}
}

func createRequest(tableID int64) *CreateRequest {
	id := tableID
	return &CreateRequest{
		TableID:       &id,
		CustomerName:  "Ana Souza",
		CustomerPhone: "+55 41 99999-0001",
		CustomerEmail: "ana@example.com",
		GuestsCount:   2,
		Date:          "2026-09-18",
		Time:          "19:00",
	}
}

func TestCreateInsideWindow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Code)
	assert.Equal(t, models.ReservationStatusConfirmed, res.Status)
	assert.Equal(t, "20:30", res.EndTime)
	assert.Equal(t, 90, res.DurationMin)
	assert.Equal(t, []string{res.Code}, f.notifier.confirmations)
}

func TestCreateAtWindowBoundaries(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// starts exactly at opening
	req := createRequest(f.table.ID)
	req.Time = "18:00"
	_, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)

	// only the start must fall inside the window; the booking may run
	// past closing
	req = createRequest(f.table.ID)
	req.Time = "22:30"
	req.DurationMin = 60
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, "23:30", res.EndTime)

	// starts before opening
	req = createRequest(f.table.ID)
	req.Time = "17:30"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrOutsideOpeningHours)

	// starts after closing
	req = createRequest(f.table.ID)
	req.Time = "23:15"
	req.DurationMin = 30
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrOutsideOpeningHours)

	// closed weekday
	req = createRequest(f.table.ID)
	req.Date = "2026-09-19"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrOutsideOpeningHours)
}

func TestCreateStartExactlyAtClosing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.Time = "23:00"
	req.DurationMin = 30
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, "23:30", res.EndTime)
}

func TestCreateConflictRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)

	// overlapping request for the same table
	req := createRequest(f.table.ID)
	req.Time = "20:00"
	req.CustomerEmail = "bruno@example.com"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrReservationConflict)
}

func TestCreateBackToBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.Time = "18:00"
	_, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)

	// second booking starts exactly when the first ends
	req = createRequest(f.table.ID)
	req.Time = "19:30"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
}

func TestCreateBlockedSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.blocks.Create(ctx, &schedule.BlockRequest{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &f.saloon.ID,
		StartDate:   "2026-09-18",
		EndDate:     "2026-09-18",
	})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrSlotBlocked)
}

func TestCreateBlockCheckedBeforeWindow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.blocks.Create(ctx, &schedule.BlockRequest{
		BlockType: models.BlockTypeRestaurant,
		StartDate: "2026-09-18",
		EndDate:   "2026-09-18",
	})
	require.NoError(t, err)

	// the slot is both blocked and outside every window; the block wins
	req := createRequest(f.table.ID)
	req.Time = "10:00"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrSlotBlocked)
}

func TestCancelledSlotFreesTable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, res.ID, models.ReservationStatusCancelled, models.ActorStaff, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{res.Code}, f.notifier.cancellations)

	// the slot can be booked again
	req := createRequest(f.table.ID)
	req.CustomerEmail = "bruno@example.com"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
}

func TestCreateGuestsValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.GuestsCount = 0
	_, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrGuestsInvalid)

	// over table capacity
	req = createRequest(f.table.ID)
	req.GuestsCount = 6
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrGuestsOverCapacity)

	// over venue limit
	req = createRequest(f.table.ID)
	req.GuestsCount = 13
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrGuestsOverLimit)
}

func TestCreateCapacityOverride(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.GuestsCount = 6
	req.OverrideRules = map[string]interface{}{models.OverrideCapacity: true}
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, 6, res.GuestsCount)
}

func TestCreateScheduleOverride(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.Time = "10:00"
	req.OverrideRules = map[string]interface{}{models.OverrideSchedule: true}
	_, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
}

func TestCreateOverrideBypassesRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.blocks.Create(ctx, &schedule.BlockRequest{
		BlockType: models.BlockTypeRestaurant,
		StartDate: "2026-09-18",
		EndDate:   "2026-09-18",
	})
	require.NoError(t, err)

	// blocked, outside every window and over capacity at once
	req := createRequest(f.table.ID)
	req.Time = "10:00"
	req.GuestsCount = 6
	req.OverrideRules = map[string]interface{}{
		models.OverrideBlocks:   true,
		models.OverrideSchedule: true,
		models.OverrideCapacity: true,
	}
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, 6, res.GuestsCount)
}

func TestCreateOverrideNeverBypassesConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)

	req := createRequest(f.table.ID)
	req.OverrideRules = map[string]interface{}{
		models.OverrideSchedule: true,
		models.OverrideBlocks:   true,
		models.OverrideCapacity: true,
	}
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrReservationConflict)
}

func TestCreateCrossesMidnight(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.Time = "23:30"
	req.DurationMin = 60
	_, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrCrossesMidnight)
}

func TestPortalCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.Status = "confirmed"
	req.OverrideRules = map[string]interface{}{models.OverrideCapacity: true}
	res, err := f.service.Create(ctx, req, models.ReservationSourcePortal)
	require.NoError(t, err)

	// portal writes start pending and never carry overrides
	assert.Equal(t, models.ReservationStatusPending, res.Status)
	assert.Nil(t, res.OverrideRules)
	assert.Equal(t, models.ReservationSourcePortal, res.Source)
	assert.Empty(t, f.notifier.confirmations)
}

func TestPortalAdvanceWindow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// same-day 13:00 is below the 2h minimum
	f.service.now = func() time.Time {
		return time.Date(2026, 9, 18, 12, 0, 0, 0, time.Local)
	}
	req := createRequest(f.table.ID)
	req.Time = "13:00"
	_, err := f.service.Create(ctx, req, models.ReservationSourcePortal)
	assert.ErrorIs(t, err, apperrors.ErrAdvanceTooShort)

	// beyond the 60-day horizon; 2026-12-18 is also a Friday
	f.service.now = func() time.Time {
		return time.Date(2026, 9, 14, 12, 0, 0, 0, time.Local)
	}
	req = createRequest(f.table.ID)
	req.Date = "2026-12-18"
	_, err = f.service.Create(ctx, req, models.ReservationSourcePortal)
	assert.ErrorIs(t, err, apperrors.ErrAdvanceTooLong)
}

func TestAutoAssignSmallestSuitable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	big := &models.DiningTable{SaloonID: f.saloon.ID, Name: "T2", Capacity: 8, IsActive: true}
	require.NoError(t, f.db.Create(big).Error)
	require.NoError(t, f.db.Create(&models.AvailabilityWindow{
		TableID: big.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00", IsActive: true,
	}).Error)

	req := createRequest(0)
	req.TableID = nil
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, f.table.ID, res.TableID)

	// smallest table taken, falls over to the bigger one
	req = createRequest(0)
	req.TableID = nil
	req.CustomerEmail = "bruno@example.com"
	res, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, big.ID, res.TableID)

	// both taken
	req = createRequest(0)
	req.TableID = nil
	req.CustomerEmail = "carla@example.com"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrNoTableAvailable)
}

func TestAutoAssignLargestAvailable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.service.cfg.AssignStrategy = config.AssignLargestAvailable

	big := &models.DiningTable{SaloonID: f.saloon.ID, Name: "T2", Capacity: 8, IsActive: true}
	require.NoError(t, f.db.Create(big).Error)
	require.NoError(t, f.db.Create(&models.AvailabilityWindow{
		TableID: big.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00", IsActive: true,
	}).Error)

	req := createRequest(0)
	req.TableID = nil
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, big.ID, res.TableID)
}

func TestUpdateMovesReservation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)

	// shifting its own time never conflicts with itself
	newTime := "20:00"
	updated, err := f.service.Update(ctx, res.ID, &UpdateRequest{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, "20:00", updated.ReservationTime)
	assert.Equal(t, "21:30", updated.EndTime)
}

func TestUpdateRejectsTerminal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, res.ID, models.ReservationStatusCancelled, models.ActorStaff, nil)
	require.NoError(t, err)

	name := "Renamed"
	_, err = f.service.Update(ctx, res.ID, &UpdateRequest{CustomerName: &name})
	assert.ErrorIs(t, err, apperrors.ErrReservationInactive)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.Status = models.ReservationStatusPending
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)

	// pending cannot complete
	_, err = f.service.UpdateStatus(ctx, res.ID, models.ReservationStatusCompleted, models.ActorStaff, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	confirmed, err := f.service.UpdateStatus(ctx, res.ID, models.ReservationStatusConfirmed, models.ActorStaff, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)
	assert.Equal(t, []string{res.Code}, f.notifier.confirmations)

	completed, err := f.service.UpdateStatus(ctx, res.ID, models.ReservationStatusCompleted, models.ActorSystem, nil)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	// terminal states admit nothing
	_, err = f.service.UpdateStatus(ctx, res.ID, models.ReservationStatusConfirmed, models.ActorStaff, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCustomerCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)

	// wrong email
	_, err = f.service.CustomerCancel(ctx, res.Code, "other@example.com", nil)
	assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)

	reason := "change of plans"
	cancelled, err := f.service.CustomerCancel(ctx, res.Code, "ana@example.com", &reason)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, reason, *cancelled.CancelReason)
}

func TestCustomerCancelPastReservation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourceAdmin)
	require.NoError(t, err)

	// move the clock past the reservation
	f.service.now = func() time.Time {
		return time.Date(2026, 9, 18, 22, 0, 0, 0, time.Local)
	}
	_, err = f.service.CustomerCancel(ctx, res.Code, "ana@example.com", nil)
	assert.ErrorIs(t, err, apperrors.ErrCancelNotAllowed)
}

func TestAdminCreatePastAllowed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// staff records a walk-in after the fact; 2026-09-11 is a past Friday
	req := createRequest(f.table.ID)
	req.Date = "2026-09-11"
	req.Status = models.ReservationStatusCompleted
	res, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCompleted, res.Status)
}

func TestPortalCreatePastRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.service.cfg.MinAdvanceHours = 0

	f.service.now = func() time.Time {
		return time.Date(2026, 9, 18, 21, 0, 0, 0, time.Local)
	}
	_, err := f.service.Create(ctx, createRequest(f.table.ID), models.ReservationSourcePortal)
	assert.ErrorIs(t, err, apperrors.ErrPastReservation)
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	emails := []string{"ana@example.com", "bruno@example.com"}
	errs := make([]error, len(emails))
	var wg sync.WaitGroup
	for i := range emails {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := createRequest(f.table.ID)
			req.CustomerEmail = emails[i]
			_, errs[i] = f.service.Create(ctx, req, models.ReservationSourceAdmin)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case apperrors.ErrReservationConflict.Is(err):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	var count int64
	require.NoError(t, f.db.Model(&models.Reservation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateValidatesCustomer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest(f.table.ID)
	req.CustomerEmail = ""
	_, err := f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrMissingCustomer)

	req = createRequest(f.table.ID)
	req.CustomerEmail = "not-an-email"
	_, err = f.service.Create(ctx, req, models.ReservationSourceAdmin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParams)
}
