package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// CreateReservation stores a new open reservation with the requester's
// identity snapshotted from the user directory.
func (s *gormStore) CreateReservation(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	var requester model.User
	if err := s.db.WithContext(ctx).First(&requester, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("requester %d: %w", in.UserID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up requester: %w", err)
	}

	items := make([]model.ReservedItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, model.ReservedItem{
			ItemType: it.ItemType,
			ItemName: it.ItemName,
		})
	}

	reservation := model.Reservation{
		UserID:                requester.ID,
		Username:              requester.Username,
		FirstName:             requester.FirstName,
		LastName:              requester.LastName,
		ProjectName:           in.ProjectName,
		AdditionalInformation: in.AdditionalInformation,
		PickupDate:            in.PickupDate,
		IsActive:              true,
		Items:                 items,
	}

	if err := s.db.WithContext(ctx).Create(&reservation).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return &reservation, nil
}

// ListReservationsForUser returns the requester's reservations joined
// with their shelf bindings and item lines.
func (s *gormStore) ListReservationsForUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Shelves").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// ListAllReservations returns every reservation with its bindings.
func (s *gormStore) ListAllReservations(ctx context.Context) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Shelves").
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// findReservationScoped loads a reservation, restricting the lookup to
// the owner's rows when ownerID is set. An id outside the caller's scope
// reads as not found so ownership is never leaked.
func findReservationScoped(tx *gorm.DB, id int64, ownerID *int64) (*model.Reservation, error) {
	q := tx.Where("id = ?", id)
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}

	var reservation model.Reservation
	if err := q.First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load reservation %d: %w", id, err)
	}
	return &reservation, nil
}

// PatchReservation applies a sparse field update to a reservation.
func (s *gormStore) PatchReservation(ctx context.Context, id int64, ownerID *int64, patch ReservationPatch) (*model.Reservation, error) {
	updates := map[string]any{}
	if patch.ProjectName != nil {
		updates["project_name"] = *patch.ProjectName
	}
	if patch.AdditionalInformation != nil {
		updates["additional_information"] = *patch.AdditionalInformation
	}
	if patch.PickupDate != nil {
		updates["pickup_date"] = *patch.PickupDate
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}

	var patched model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := findReservationScoped(tx, id, ownerID)
		if err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(reservation).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to patch reservation %d: %w", id, err)
			}
		}
		return tx.Preload("Items").Preload("Shelves").First(&patched, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &patched, nil
}

// DeleteReservation removes a reservation and releases everything bound
// to it: shelves become available again and storage rows return to the
// stocked state, all in one transaction.
func (s *gormStore) DeleteReservation(ctx context.Context, id int64, ownerID *int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := findReservationScoped(tx, id, ownerID)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.Shelf{}).
			Where("reservation_id = ?", reservation.ID).
			Updates(map[string]any{"available": true, "reservation_id": nil}).Error; err != nil {
			return fmt.Errorf("failed to release shelves for reservation %d: %w", id, err)
		}

		if err := tx.Model(&model.StorageItem{}).
			Where("reservation_id = ?", reservation.ID).
			Updates(map[string]any{
				"available":      true,
				"state":          model.StateInStorage,
				"project_name":   model.UnassignedProject,
				"reservation_id": 0,
			}).Error; err != nil {
			return fmt.Errorf("failed to release storage items for reservation %d: %w", id, err)
		}

		if err := tx.Where("reservation_id = ?", reservation.ID).
			Delete(&model.ReservedItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete reserved items for reservation %d: %w", id, err)
		}

		if err := tx.Delete(reservation).Error; err != nil {
			return fmt.Errorf("failed to delete reservation %d: %w", id, err)
		}
		return nil
	})
}
