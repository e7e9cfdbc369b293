package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// AddStorageItem stocks one serialized unit. An existing row with the
// same (type, name, serial) triple is rejected; the unique index is the
// arbiter so concurrent stocking of the same triple cannot race past a
// pre-check.
func (s *gormStore) AddStorageItem(ctx context.Context, in AddStorageItemInput) (*model.StorageItem, error) {
	item := model.StorageItem{
		ItemType:              in.ItemType,
		ItemName:              in.ItemName,
		SerialNumber:          in.SerialNumber,
		Available:             true,
		State:                 model.StateInStorage,
		ProjectName:           model.UnassignedProject,
		AdditionalInformation: in.AdditionalInformation,
		AddedBy:               in.AddedBy,
		AddedAt:               time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("item %s/%s with serial %q: %w", in.ItemType, in.ItemName, in.SerialNumber, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to stock item: %w", err)
	}
	return &item, nil
}

// ListStorageGrouped returns all stock grouped by item type, types and
// items each in stable order.
func (s *gormStore) ListStorageGrouped(ctx context.Context) ([]StorageGroup, error) {
	var items []model.StorageItem
	err := s.db.WithContext(ctx).
		Order("item_type, item_name, serial_number").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list storage: %w", err)
	}

	var groups []StorageGroup
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.ItemType]
		if !ok {
			i = len(groups)
			index[item.ItemType] = i
			groups = append(groups, StorageGroup{Category: item.ItemType})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups, nil
}
