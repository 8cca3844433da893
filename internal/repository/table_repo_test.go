package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

func TestTableRepository_ListBookable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTableRepository(db)
	ctx := context.Background()

	area, saloon, small := seedTable(t, db, 2)

	big := &models.DiningTable{SaloonID: saloon.ID, Name: "T2", Capacity: 6, IsActive: true}
	require.NoError(t, db.Create(big).Error)

	inactive := &models.DiningTable{SaloonID: saloon.ID, Name: "T3", Capacity: 8, IsActive: false}
	require.NoError(t, db.Create(inactive).Error)

	inactiveSaloon := &models.Saloon{AreaID: area.ID, Name: "Closed saloon", IsActive: false}
	require.NoError(t, db.Create(inactiveSaloon).Error)
	hidden := &models.DiningTable{SaloonID: inactiveSaloon.ID, Name: "T4", Capacity: 10, IsActive: true}
	require.NoError(t, db.Create(hidden).Error)

	tables, err := repo.ListBookable(ctx, 4, nil, nil)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, big.ID, tables[0].ID)

	// capacity ordering: smallest first
	tables, err = repo.ListBookable(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, small.ID, tables[0].ID)
	assert.Equal(t, big.ID, tables[1].ID)

	// saloon filter
	tables, err = repo.ListBookable(ctx, 0, &inactiveSaloon.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestTableRepository_DeleteRemovesWindows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTableRepository(db)
	ctx := context.Background()

	_, _, table := seedTable(t, db, 4)
	window := &models.AvailabilityWindow{
		TableID: table.ID, Weekday: 5, StartTime: "18:00", EndTime: "23:00", IsActive: true,
	}
	require.NoError(t, db.Create(window).Error)

	require.NoError(t, repo.Delete(ctx, table.ID))

	var count int64
	db.Model(&models.AvailabilityWindow{}).Where("table_id = ?", table.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
