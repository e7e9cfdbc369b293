package model

// Shelf is a fixed physical pickup slot. The id set is canonical and
// reconciled on every sync; a shelf is available iff it is unbound.
type Shelf struct {
	ID            string `gorm:"primaryKey;size:32" json:"shelfId"`
	Available     bool   `gorm:"not null" json:"available"`
	ReservationID *int64 `gorm:"index" json:"reservationId,omitempty"`
}
