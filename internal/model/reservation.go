package model

import "time"

// Reservation is an equipment request tied to a project and pickup date.
// The requester's identity is denormalized onto the row at creation time
// so the reservation survives later user-directory changes.
type Reservation struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"index;not null" json:"userId"`
	Username  string `gorm:"size:128;not null" json:"username"`
	FirstName string `gorm:"size:128" json:"firstName"`
	LastName  string `gorm:"size:128" json:"lastName"`

	ProjectName           string    `gorm:"size:256;not null" json:"projectName"`
	AdditionalInformation string    `json:"additionalInformation"`
	PickupDate            time.Time `gorm:"not null" json:"pickupDate"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"-"`

	IsActive bool `gorm:"not null" json:"isActive"`

	// Fulfillment state, written exactly once by the fulfillment engine.
	IsReady      bool       `gorm:"not null" json:"isReady"`
	ReadyDate    *time.Time `json:"readyDate,omitempty"`
	HandlerNote  string     `json:"handlerNote,omitempty"`
	HandlerName  string     `gorm:"size:256" json:"handlerName,omitempty"`
	HandlerEmail string     `gorm:"size:256" json:"handlerEmail,omitempty"`

	// Associations
	Items   []ReservedItem `gorm:"foreignKey:ReservationID" json:"items"`
	Shelves []Shelf        `gorm:"foreignKey:ReservationID" json:"shelves"`
}

// ReservedItem is one item line of a reservation. Before fulfillment the
// line is abstract (type and name only); fulfillment replaces all lines
// with concrete serial-numbered ones. The two kinds never coexist.
type ReservedItem struct {
	ID            int64  `gorm:"primaryKey" json:"-"`
	ReservationID int64  `gorm:"index;not null" json:"reservationId"`
	ItemType      string `gorm:"size:128;not null" json:"itemType"`
	ItemName      string `gorm:"size:256;not null" json:"itemName"`
	SerialNumber  string `gorm:"size:128" json:"serialNumber,omitempty"`
}
