package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storage-reservation-backend/internal/model"
)

// newSQLiteStore opens a named in-memory SQLite database, migrates the
// schema and returns a store over it. Each test uses its own name so
// parallel tests never share state.
func newSQLiteStore(t *testing.T, name string) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Reservation{},
		&model.ReservedItem{},
		&model.Shelf{},
		&model.StorageItem{},
		&model.CatalogCategory{},
		&model.CatalogItem{},
	))

	return NewGormStore(db)
}

// seedUser inserts one account and returns it.
func seedUser(t *testing.T, s Store, email string, handler, admin bool) *model.User {
	t.Helper()

	user := &model.User{
		Email:            email,
		Username:         email,
		FirstName:        "Test",
		LastName:         "User",
		PasswordHash:     "x",
		IsAdmin:          admin,
		IsStorageHandler: handler,
		EmailsActivated:  true,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// seedReservation creates an open reservation for the user with one
// abstract item line.
func seedReservation(t *testing.T, s Store, userID int64, project string, items []RequestedItem) *model.Reservation {
	t.Helper()

	r, err := s.CreateReservation(context.Background(), CreateReservationInput{
		UserID:      userID,
		ProjectName: project,
		PickupDate:  time.Now().Add(48 * time.Hour),
		Items:       items,
	})
	require.NoError(t, err)
	return r
}

// seedStorageItem stocks one serialized unit.
func seedStorageItem(t *testing.T, s Store, itemType, itemName, serial string) *model.StorageItem {
	t.Helper()

	item, err := s.AddStorageItem(context.Background(), AddStorageItemInput{
		ItemType:     itemType,
		ItemName:     itemName,
		SerialNumber: serial,
		AddedBy:      "Test User",
	})
	require.NoError(t, err)
	return item
}
