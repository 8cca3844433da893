// Package repository unit tests run against in-memory sqlite.
package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection gets its own in-memory database; a single
	// connection keeps all sessions, transactions included, on one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Area{},
		&models.Saloon{},
		&models.DiningTable{},
		&models.AvailabilityWindow{},
		&models.Block{},
		&models.Reservation{},
	)
	require.NoError(t, err)

	return db
}

// seedTable creates an active area, saloon and table and returns them.
func seedTable(t *testing.T, db *gorm.DB, capacity int) (*models.Area, *models.Saloon, *models.DiningTable) {
	area := &models.Area{Name: "Main floor", IsActive: true}
	require.NoError(t, db.Create(area).Error)

	saloon := &models.Saloon{AreaID: area.ID, Name: "Front saloon", IsActive: true}
	require.NoError(t, db.Create(saloon).Error)

	table := &models.DiningTable{SaloonID: saloon.ID, Name: "T1", Capacity: capacity, IsActive: true}
	require.NoError(t, db.Create(table).Error)

	return area, saloon, table
}

func mustDate(t *testing.T, s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
