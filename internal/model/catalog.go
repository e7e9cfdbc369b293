package model

// CatalogCategory is reference data grouping orderable item types.
type CatalogCategory struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Category string `gorm:"uniqueIndex;size:128;not null" json:"category"`
}

// CatalogItem is an orderable item type within a category. Deleting a
// category deletes all of its items.
type CatalogItem struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	ItemType  string `gorm:"index;size:128;not null" json:"itemType"`
	ItemName  string `gorm:"uniqueIndex;size:256;not null" json:"itemName"`
	ImageURL  string `gorm:"size:512" json:"imageUrl,omitempty"`
	ManualURL string `gorm:"size:512" json:"manualUrl,omitempty"`
}
