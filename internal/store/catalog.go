package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// CreateCategory adds a new catalog category.
func (s *gormStore) CreateCategory(ctx context.Context, name string) (*model.CatalogCategory, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.CatalogCategory{}).
		Where("category = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check for existing category: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("category %q: %w", name, ErrDuplicate)
	}

	category := model.CatalogCategory{Category: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("category %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// CreateCatalogItem adds a new orderable item. Its category must exist
// and the item name must be unused.
func (s *gormStore) CreateCatalogItem(ctx context.Context, in CreateCatalogItemInput) (*model.CatalogItem, error) {
	var item model.CatalogItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var categories int64
		if err := tx.Model(&model.CatalogCategory{}).
			Where("category = ?", in.ItemType).Count(&categories).Error; err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if categories == 0 {
			return fmt.Errorf("category %q: %w", in.ItemType, ErrNotFound)
		}

		var existing int64
		if err := tx.Model(&model.CatalogItem{}).
			Where("item_name = ?", in.ItemName).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check item name: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("item name %q: %w", in.ItemName, ErrDuplicate)
		}

		item = model.CatalogItem{
			ItemType:  in.ItemType,
			ItemName:  in.ItemName,
			ImageURL:  in.ImageURL,
			ManualURL: in.ManualURL,
		}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("item name %q: %w", in.ItemName, ErrDuplicate)
			}
			return fmt.Errorf("failed to create catalog item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteCatalogItem removes one item by name.
func (s *gormStore) DeleteCatalogItem(ctx context.Context, name string) error {
	var item model.CatalogItem
	if err := s.db.WithContext(ctx).First(&item, "item_name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("item %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to load item %q: %w", name, err)
	}
	if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete item %q: %w", name, err)
	}
	return nil
}

// DeleteCategory removes a category and every item under it in one
// operation.
func (s *gormStore) DeleteCategory(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.CatalogCategory
		if err := tx.First(&category, "category = ?", name).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %q: %w", name, ErrNotFound)
			}
			return fmt.Errorf("failed to load category %q: %w", name, err)
		}

		if err := tx.Where("item_type = ?", name).Delete(&model.CatalogItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of category %q: %w", name, err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category %q: %w", name, err)
		}
		return nil
	})
}

// ListCatalog returns every category with its items; categories without
// items are included with an empty list.
func (s *gormStore) ListCatalog(ctx context.Context) ([]CatalogGroup, error) {
	var categories []model.CatalogCategory
	if err := s.db.WithContext(ctx).Order("category").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var items []model.CatalogItem
	if err := s.db.WithContext(ctx).Order("item_type, item_name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}

	byType := make(map[string][]model.CatalogItem)
	for _, item := range items {
		byType[item.ItemType] = append(byType[item.ItemType], item)
	}

	groups := make([]CatalogGroup, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, CatalogGroup{
			Category: category.Category,
			Items:    byType[category.Category],
		})
	}
	return groups, nil
}
