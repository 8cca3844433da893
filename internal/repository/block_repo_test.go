package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

func TestBlockRepository_ListBlockingScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	_, saloon, table := seedTable(t, db, 4)
	otherSaloon := &models.Saloon{AreaID: saloon.AreaID, Name: "Back saloon", IsActive: true}
	require.NoError(t, db.Create(otherSaloon).Error)

	date := mustDate(t, "2026-09-18")

	tableBlock := &models.Block{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   date,
		EndDate:     date,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, tableBlock))

	saloonBlock := &models.Block{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &saloon.ID,
		StartDate:   date,
		EndDate:     date,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, saloonBlock))

	otherSaloonBlock := &models.Block{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &otherSaloon.ID,
		StartDate:   date,
		EndDate:     date,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, otherSaloonBlock))

	restaurantBlock := &models.Block{
		BlockType: models.BlockTypeRestaurant,
		StartDate: date,
		EndDate:   date,
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, restaurantBlock))

	blocks, err := repo.ListBlocking(ctx, table.ID, saloon.ID, date, date, "", "")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.NotEqual(t, otherSaloonBlock.ID, b.ID)
	}
}

func TestBlockRepository_ListBlockingDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	_, saloon, table := seedTable(t, db, 4)

	block := &models.Block{
		BlockType: models.BlockTypeRestaurant,
		StartDate: mustDate(t, "2026-09-10"),
		EndDate:   mustDate(t, "2026-09-12"),
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, block))

	// boundary dates are inclusive
	blocks, err := repo.ListBlocking(ctx, table.ID, saloon.ID,
		mustDate(t, "2026-09-12"), mustDate(t, "2026-09-12"), "", "")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)

	blocks, err = repo.ListBlocking(ctx, table.ID, saloon.ID,
		mustDate(t, "2026-09-13"), mustDate(t, "2026-09-13"), "", "")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestBlockRepository_ListBlockingTimeRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	_, saloon, table := seedTable(t, db, 4)
	date := mustDate(t, "2026-09-18")

	start, end := "12:00", "15:00"
	timed := &models.Block{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   date,
		EndDate:     date,
		StartTime:   &start,
		EndTime:     &end,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, timed))

	// half-open overlap
	blocks, err := repo.ListBlocking(ctx, table.ID, saloon.ID, date, date, "14:00", "16:00")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)

	// touching boundary is free
	blocks, err = repo.ListBlocking(ctx, table.ID, saloon.ID, date, date, "15:00", "17:00")
	require.NoError(t, err)
	assert.Empty(t, blocks)

	// all-day block matches any time range
	allDay := &models.Block{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   date,
		EndDate:     date,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, allDay))

	blocks, err = repo.ListBlocking(ctx, table.ID, saloon.ID, date, date, "15:00", "17:00")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
	assert.Equal(t, allDay.ID, blocks[0].ID)
}

func TestBlockRepository_InactiveIgnored(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	_, saloon, table := seedTable(t, db, 4)
	date := mustDate(t, "2026-09-18")

	block := &models.Block{
		BlockType: models.BlockTypeRestaurant,
		StartDate: date,
		EndDate:   date,
		IsActive:  false,
	}
	require.NoError(t, repo.Create(ctx, block))

	blocks, err := repo.ListBlocking(ctx, table.ID, saloon.ID, date, date, "", "")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestBlockRepository_ListOverlapping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	_, saloon, table := seedTable(t, db, 4)

	existing := &models.Block{
		BlockType:   models.BlockTypeTable,
		ReferenceID: &table.ID,
		StartDate:   mustDate(t, "2026-09-10"),
		EndDate:     mustDate(t, "2026-09-12"),
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, existing))

	blocks, err := repo.ListOverlapping(ctx, models.BlockTypeTable, &table.ID, saloon.ID,
		mustDate(t, "2026-09-12"), mustDate(t, "2026-09-14"), 0)
	require.NoError(t, err)
	assert.Len(t, blocks, 1)

	// excluding the candidate itself during edits
	blocks, err = repo.ListOverlapping(ctx, models.BlockTypeTable, &table.ID, saloon.ID,
		mustDate(t, "2026-09-12"), mustDate(t, "2026-09-14"), existing.ID)
	require.NoError(t, err)
	assert.Empty(t, blocks)

	// wider scopes reach a table candidate
	wider := &models.Block{
		BlockType:   models.BlockTypeSaloon,
		ReferenceID: &saloon.ID,
		StartDate:   mustDate(t, "2026-09-13"),
		EndDate:     mustDate(t, "2026-09-13"),
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, wider))

	blocks, err = repo.ListOverlapping(ctx, models.BlockTypeTable, &table.ID, saloon.ID,
		mustDate(t, "2026-09-12"), mustDate(t, "2026-09-14"), existing.ID)
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}
