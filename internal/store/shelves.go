package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// SyncShelves reconciles the registry against the canonical id list:
// missing ids are inserted as available and unbound, rows outside the
// list are pruned. A bound out-of-set shelf is never pruned; pruning it
// would strand a reservation's pickup slot, so it is logged and kept
// until its reservation releases it.
func (s *gormStore) SyncShelves(ctx context.Context, canonical []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.Shelf
		if err := tx.Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load shelf registry: %w", err)
		}

		known := make(map[string]model.Shelf, len(existing))
		for _, shelf := range existing {
			known[shelf.ID] = shelf
		}

		wanted := make(map[string]bool, len(canonical))
		for _, id := range canonical {
			wanted[id] = true
			if _, ok := known[id]; ok {
				continue
			}
			if err := tx.Create(&model.Shelf{ID: id, Available: true}).Error; err != nil {
				return fmt.Errorf("failed to create shelf %q: %w", id, err)
			}
		}

		for _, shelf := range existing {
			if wanted[shelf.ID] {
				continue
			}
			if shelf.ReservationID != nil {
				log.Printf("shelf %s is outside the canonical set but bound to reservation %d; keeping it", shelf.ID, *shelf.ReservationID)
				continue
			}
			if err := tx.Delete(&model.Shelf{ID: shelf.ID}).Error; err != nil {
				return fmt.Errorf("failed to prune shelf %q: %w", shelf.ID, err)
			}
		}
		return nil
	})
}

// ListShelfStatus returns every registry row joined with its bound
// reservation's pickup details.
func (s *gormStore) ListShelfStatus(ctx context.Context) ([]ShelfStatus, error) {
	var shelves []model.Shelf
	if err := s.db.WithContext(ctx).Order("id").Find(&shelves).Error; err != nil {
		return nil, fmt.Errorf("failed to list shelves: %w", err)
	}

	ids := make([]int64, 0, len(shelves))
	for _, shelf := range shelves {
		if shelf.ReservationID != nil {
			ids = append(ids, *shelf.ReservationID)
		}
	}

	reservations := make(map[int64]model.Reservation, len(ids))
	if len(ids) > 0 {
		var bound []model.Reservation
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&bound).Error; err != nil {
			return nil, fmt.Errorf("failed to load bound reservations: %w", err)
		}
		for _, r := range bound {
			reservations[r.ID] = r
		}
	}

	statuses := make([]ShelfStatus, 0, len(shelves))
	for _, shelf := range shelves {
		status := ShelfStatus{
			ShelfID:       shelf.ID,
			Available:     shelf.Available,
			ReservationID: shelf.ReservationID,
		}
		if shelf.ReservationID != nil {
			if r, ok := reservations[*shelf.ReservationID]; ok {
				pickup := r.PickupDate
				status.ProjectName = r.ProjectName
				status.PickupDate = &pickup
				status.FirstName = r.FirstName
				status.LastName = r.LastName
				status.UserID = r.UserID
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
