package model

import "time"

// Storage item lifecycle states.
const (
	StateInStorage = "In the storage"
	StateInUse     = "In use"
)

// UnassignedProject is the project placeholder for unbound stock.
const UnassignedProject = "-"

// StorageItem is one physical serialized unit of equipment. The business
// key is the (type, name, serial) triple; ReservationID 0 means unbound.
type StorageItem struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	ItemType     string `gorm:"size:128;not null;uniqueIndex:idx_storage_identity" json:"itemType"`
	ItemName     string `gorm:"size:256;not null;uniqueIndex:idx_storage_identity" json:"itemName"`
	SerialNumber string `gorm:"size:128;uniqueIndex:idx_storage_identity" json:"serialNumber"`

	Available             bool      `gorm:"not null" json:"available"`
	State                 string    `gorm:"size:64;not null" json:"state"`
	ProjectName           string    `gorm:"size:256" json:"projectName"`
	AdditionalInformation string    `json:"additionalInformation"`
	AddedBy               string    `gorm:"size:256" json:"addedBy,omitempty"`
	AddedAt               time.Time `json:"addedAt"`
	ReservationID         int64     `gorm:"not null;default:0" json:"reservationId"`
}
