package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// Sentinel errors returned by store operations. Callers map these to
// HTTP statuses; anything else is a persistence fault.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrDuplicate = errors.New("already exists")
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Reservation ledger
	CreateReservation(ctx context.Context, in CreateReservationInput) (*model.Reservation, error)
	ListReservationsForUser(ctx context.Context, userID int64) ([]model.Reservation, error)
	ListAllReservations(ctx context.Context) ([]model.Reservation, error)
	PatchReservation(ctx context.Context, id int64, ownerID *int64, patch ReservationPatch) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, id int64, ownerID *int64) error

	// Fulfillment engine
	FulfillReservation(ctx context.Context, in FulfillmentInput) (*FulfillmentResult, error)

	// Shelf registry
	SyncShelves(ctx context.Context, canonical []string) error
	ListShelfStatus(ctx context.Context) ([]ShelfStatus, error)

	// Inventory stocking
	AddStorageItem(ctx context.Context, in AddStorageItemInput) (*model.StorageItem, error)
	ListStorageGrouped(ctx context.Context) ([]StorageGroup, error)

	// Item catalog
	CreateCategory(ctx context.Context, name string) (*model.CatalogCategory, error)
	CreateCatalogItem(ctx context.Context, in CreateCatalogItemInput) (*model.CatalogItem, error)
	DeleteCatalogItem(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error
	ListCatalog(ctx context.Context) ([]CatalogGroup, error)

	// User directory
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetTemporaryPassword(ctx context.Context, email, passwordHash string) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListHandlerEmails(ctx context.Context) ([]string, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for migrations and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
