package store

import (
	"time"

	"storage-reservation-backend/internal/model"
)

// RequestedItem is one abstract item line of a new reservation.
type RequestedItem struct {
	ItemType string `json:"itemType"`
	ItemName string `json:"itemName"`
}

// CreateReservationInput carries the requester's ask. The requester
// identity is snapshotted from the user directory inside the store.
type CreateReservationInput struct {
	UserID                int64
	ProjectName           string
	AdditionalInformation string
	PickupDate            time.Time
	Items                 []RequestedItem
}

// ReservationPatch is a sparse update; nil fields are left unchanged.
type ReservationPatch struct {
	ProjectName           *string
	AdditionalInformation *string
	PickupDate            *time.Time
	IsActive              *bool
}

// ChosenItem is one concrete serialized unit picked by the handler.
type ChosenItem struct {
	ItemType     string `json:"itemType"`
	ItemName     string `json:"itemName"`
	SerialNumber string `json:"serialNumber"`
}

// FulfillmentInput carries the handler's choices for one reservation.
type FulfillmentInput struct {
	ReservationID int64
	HandlerID     int64
	Note          string
	ShelfIDs      []string
	Items         []ChosenItem
}

// FulfillmentResult reports the committed state plus everything the
// ready-notification needs. OriginalItems is the pre-fulfillment ask,
// snapshotted before the engine replaces it with concrete lines.
type FulfillmentResult struct {
	Reservation     *model.Reservation
	OriginalItems   []model.ReservedItem
	RequesterEmail  string
	NotifyRequester bool
}

// ShelfStatus is one registry row joined with its bound reservation.
type ShelfStatus struct {
	ShelfID       string     `json:"shelfId"`
	Available     bool       `json:"available"`
	ReservationID *int64     `json:"reservationId,omitempty"`
	ProjectName   string     `json:"projectName,omitempty"`
	PickupDate    *time.Time `json:"pickupDate,omitempty"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	UserID        int64      `json:"userId,omitempty"`
}

// AddStorageItemInput carries a handler's stocking action.
type AddStorageItemInput struct {
	ItemType              string
	ItemName              string
	SerialNumber          string
	AdditionalInformation string
	AddedBy               string
}

// StorageGroup is a type-grouped slice of serialized stock.
type StorageGroup struct {
	Category string              `json:"category"`
	Items    []model.StorageItem `json:"items"`
}

// CreateCatalogItemInput carries a new catalog entry.
type CreateCatalogItemInput struct {
	ItemType  string
	ItemName  string
	ImageURL  string
	ManualURL string
}

// CatalogGroup is a category with its orderable items.
type CatalogGroup struct {
	Category string              `json:"category"`
	Items    []model.CatalogItem `json:"items"`
}

// UserPatch is a sparse user update; nil fields are left unchanged.
type UserPatch struct {
	Username         *string
	FirstName        *string
	LastName         *string
	IsAdmin          *bool
	IsStorageHandler *bool
	EmailsActivated  *bool
}
