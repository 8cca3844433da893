// Package schedule unit tests run against in-memory sqlite.
package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

func setupSchedule(t *testing.T) (*gorm.DB, *AvailabilityService, *BlockService, *models.Saloon, *models.DiningTable) {
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
		&models.AvailabilityWindow{}, &models.Block{},
	))

	area := &models.Area{Name: "Main floor", IsActive: true}
	require.NoError(t, db.Create(area).Error)
	saloon := &models.Saloon{AreaID: area.ID, Name: "Front saloon", IsActive: true}
	require.NoError(t, db.Create(saloon).Error)
	table := &models.DiningTable{SaloonID: saloon.ID, Name: "T1", Capacity: 4, IsActive: true}
	require.NoError(t, db.Create(table).Error)

	tableRepo := repository.NewTableRepository(db)
	availability := NewAvailabilityService(repository.NewAvailabilityRepository(db), tableRepo)
	blocks := NewBlockService(repository.NewBlockRepository(db), tableRepo, repository.NewSaloonRepository(db))

	return db, availability, blocks, saloon, table
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestCreateWindowValidation(t *testing.T) {
	_, availability, _, _, table := setupSchedule(t)
	ctx := context.Background()

	_, err := availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 7, StartTime: "18:00", EndTime: "23:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidWeekday)

	_, err = availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 5, StartTime: "23:00", EndTime: "18:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeRange)

	_, err = availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 5, StartTime: "6pm", EndTime: "23:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTime)

	_, err = availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: 999, Weekday: 5, StartTime: "18:00", EndTime: "23:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrTableNotFound)

	window, err := availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00",
	})
	require.NoError(t, err)
	assert.True(t, window.IsActive)
}

func TestIsOpenInclusiveBoundaries(t *testing.T) {
	_, availability, _, _, table := setupSchedule(t)
	ctx := context.Background()

	_, err := availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 5, StartTime: "12:00", EndTime: "15:00",
	})
	require.NoError(t, err)
	_, err = availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00",
	})
	require.NoError(t, err)

	open, err := availability.IsOpen(ctx, table.ID, 5, "12:00")
	require.NoError(t, err)
	assert.True(t, open)

	// exactly at closing is still open
	open, err = availability.IsOpen(ctx, table.ID, 5, "15:00")
	require.NoError(t, err)
	assert.True(t, open)

	// the gap between services is closed
	open, err = availability.IsOpen(ctx, table.ID, 5, "16:00")
	require.NoError(t, err)
	assert.False(t, open)

	open, err = availability.IsOpen(ctx, table.ID, 6, "12:00")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestCopyWeekSkipsOverlaps(t *testing.T) {
	db, availability, _, saloon, table := setupSchedule(t)
	ctx := context.Background()

	target := &models.DiningTable{SaloonID: saloon.ID, Name: "T2", Capacity: 4, IsActive: true}
	require.NoError(t, db.Create(target).Error)

	for _, w := range []struct{ weekday int; start, end string }{
		{5, "12:00", "15:00"},
		{5, "18:00", "23:00"},
		{6, "18:00", "23:00"},
	} {
		_, err := availability.CreateWindow(ctx, &CreateWindowRequest{
			TableID: table.ID, Weekday: w.weekday, StartTime: w.start, EndTime: w.end,
		})
		require.NoError(t, err)
	}

	// the target already covers Friday dinner
	_, err := availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: target.ID, Weekday: 5, StartTime: "19:00", EndTime: "22:00",
	})
	require.NoError(t, err)

	results, err := availability.CopyWeek(ctx, &CopyWeekRequest{
		FromTableID: table.ID,
		ToTableIDs:  []int64{target.ID},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Copied)
	assert.Equal(t, 1, results[0].Skipped)

	windows, err := availability.ListWindows(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, windows, 3)
}

func TestCopyWeekRejectsSelfCopy(t *testing.T) {
	_, availability, _, _, table := setupSchedule(t)
	ctx := context.Background()

	_, err := availability.CopyWeek(ctx, &CopyWeekRequest{
		FromTableID: table.ID,
		ToTableIDs:  []int64{table.ID},
	})
	assert.ErrorIs(t, err, apperrors.ErrCopySameTable)
}

func TestCopyWeekToSaloon(t *testing.T) {
	db, availability, _, saloon, table := setupSchedule(t)
	ctx := context.Background()

	t2 := &models.DiningTable{SaloonID: saloon.ID, Name: "T2", Capacity: 4, IsActive: true}
	t3 := &models.DiningTable{SaloonID: saloon.ID, Name: "T3", Capacity: 6, IsActive: true}
	require.NoError(t, db.Create(t2).Error)
	require.NoError(t, db.Create(t3).Error)

	_, err := availability.CreateWindow(ctx, &CreateWindowRequest{
		TableID: table.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00",
	})
	require.NoError(t, err)

	// the source sits in the same saloon and must be rejected
	_, err = availability.CopyWeek(ctx, &CopyWeekRequest{
		FromTableID: table.ID,
		ToSaloonID:  &saloon.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrCopySameTable)

	results, err := availability.CopyWeek(ctx, &CopyWeekRequest{
		FromTableID: table.ID,
		ToTableIDs:  []int64{t2.ID, t3.ID},
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBlockValidation(t *testing.T) {
	_, _, blocks, saloon, _ := setupSchedule(t)
	ctx := context.Background()

	_, err := blocks.Create(ctx, &BlockRequest{
		BlockType: "floor", StartDate: "2026-09-18", EndDate: "2026-09-18",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBlockType)

	_, err = blocks.Create(ctx, &BlockRequest{
		BlockType: models.BlockTypeSaloon, StartDate: "2026-09-18", EndDate: "2026-09-18",
	})
	assert.ErrorIs(t, err, apperrors.ErrBlockNeedsTarget)

	_, err = blocks.Create(ctx, &BlockRequest{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &saloon.ID,
		StartDate:   "2026-09-19",
		EndDate:     "2026-09-18",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)

	_, err = blocks.Create(ctx, &BlockRequest{
		BlockType: models.BlockTypeRestaurant, StartDate: "18/09/2026", EndDate: "2026-09-18",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)

	start := "15:00"
	_, err = blocks.Create(ctx, &BlockRequest{
		BlockType: models.BlockTypeRestaurant,
		StartDate: "2026-09-18", EndDate: "2026-09-18",
		StartTime: &start,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeRange)

	block, err := blocks.Create(ctx, &BlockRequest{
		BlockType: models.BlockTypeRestaurant,
		StartDate: "2026-09-18", EndDate: "2026-09-20",
	})
	require.NoError(t, err)
	assert.Nil(t, block.ReferenceID)
}

func TestFindConflictsAdvisory(t *testing.T) {
	_, _, blocks, _, table := setupSchedule(t)
	ctx := context.Background()

	existing, err := blocks.Create(ctx, &BlockRequest{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-12",
	})
	require.NoError(t, err)

	conflicts, err := blocks.FindConflicts(ctx, &BlockRequest{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   "2026-09-12",
		EndDate:     "2026-09-14",
	}, 0)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, existing.ID, conflicts[0].ID)

	// restaurant candidates report none
	conflicts, err = blocks.FindConflicts(ctx, &BlockRequest{
		BlockType: models.BlockTypeRestaurant,
		StartDate: "2026-09-10",
		EndDate:   "2026-09-14",
	}, 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// conflicts never prevent saving
	_, err = blocks.Create(ctx, &BlockRequest{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   "2026-09-12",
		EndDate:     "2026-09-14",
	})
	require.NoError(t, err)
}

func TestFindConflictsScopeEscalation(t *testing.T) {
	db, _, blocks, saloon, table := setupSchedule(t)
	ctx := context.Background()

	saloonBlock, err := blocks.Create(ctx, &BlockRequest{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &saloon.ID,
		StartDate:   "2026-09-18",
		EndDate:     "2026-09-18",
	})
	require.NoError(t, err)
	restaurantBlock, err := blocks.Create(ctx, &BlockRequest{
		BlockType: models.BlockTypeRestaurant,
		StartDate: "2026-09-17",
		EndDate:   "2026-09-19",
	})
	require.NoError(t, err)

	// a sibling table's block never reaches this candidate
	sibling := &models.DiningTable{SaloonID: saloon.ID, Name: "T8", Capacity: 2, IsActive: true}
	require.NoError(t, db.Create(sibling).Error)
	_, err = blocks.Create(ctx, &BlockRequest{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &sibling.ID,
		StartDate:   "2026-09-18",
		EndDate:     "2026-09-18",
	})
	require.NoError(t, err)

	// a table candidate reports its saloon's and restaurant-wide blocks
	conflicts, err := blocks.FindConflicts(ctx, &BlockRequest{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   "2026-09-18",
		EndDate:     "2026-09-18",
	}, 0)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.ElementsMatch(t,
		[]int64{saloonBlock.ID, restaurantBlock.ID},
		[]int64{conflicts[0].ID, conflicts[1].ID})

	// an unrelated saloon candidate only sees the restaurant block
	other := &models.Saloon{AreaID: saloon.AreaID, Name: "Back saloon", IsActive: true}
	require.NoError(t, db.Create(other).Error)
	conflicts, err = blocks.FindConflicts(ctx, &BlockRequest{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &other.ID,
		StartDate:   "2026-09-18",
		EndDate:     "2026-09-18",
	}, 0)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, restaurantBlock.ID, conflicts[0].ID)
}

func TestIsBlockedScopes(t *testing.T) {
	db, _, blocks, saloon, table := setupSchedule(t)
	ctx := context.Background()

	other := &models.DiningTable{SaloonID: saloon.ID, Name: "T9", Capacity: 2, IsActive: true}
	require.NoError(t, db.Create(other).Error)

	_, err := blocks.Create(ctx, &BlockRequest{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   "2026-09-18",
		EndDate:     "2026-09-18",
	})
	require.NoError(t, err)

	date := mustParseDate(t, "2026-09-18")
	blocked, err := blocks.IsBlocked(ctx, table.ID, date, date, "19:00", "20:30")
	require.NoError(t, err)
	assert.True(t, blocked)

	// sibling table in the same saloon stays open
	blocked, err = blocks.IsBlocked(ctx, other.ID, date, date, "19:00", "20:30")
	require.NoError(t, err)
	assert.False(t, blocked)
}
