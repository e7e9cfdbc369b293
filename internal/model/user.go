package model

import "time"

// User represents an account in the user directory.
type User struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	Email            string `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Username         string `gorm:"size:128;not null" json:"username"`
	FirstName        string `gorm:"size:128" json:"firstName"`
	LastName         string `gorm:"size:128" json:"lastName"`
	PasswordHash     string `gorm:"size:256;not null" json:"-"`
	IsAdmin          bool   `gorm:"not null;default:false" json:"isAdmin"`
	IsStorageHandler bool   `gorm:"not null;default:false" json:"isStorageHandler"`
	EmailsActivated  bool   `gorm:"not null;default:true" json:"emailsActivated"`

	// Set when a temporary password was issued; cleared once the user
	// picks their own.
	MustChangePassword bool `gorm:"not null;default:false" json:"mustChangePassword"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeRoles enforces the derived rule that an admin is always
// also a storage handler. Every code path that mutates role flags
// must call this before persisting.
func (u *User) NormalizeRoles() {
	if u.IsAdmin {
		u.IsStorageHandler = true
	}
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
