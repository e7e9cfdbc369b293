package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// FulfillReservation marks an open reservation ready, binds the chosen
// shelves, replaces the abstract item lines with the chosen serialized
// units and takes those units out of stock. Everything runs in one
// transaction; outside the transaction no partial state is visible.
//
// Shelf and storage rows are claimed with guarded updates: the UPDATE
// only matches a row that is still unbound, and zero rows affected is
// resolved into not-found versus a concurrent-binding conflict. This
// keeps two overlapping fulfillments from double-assigning a shelf or
// a serial number without dialect-specific row locks.
func (s *gormStore) FulfillReservation(ctx context.Context, in FulfillmentInput) (*FulfillmentResult, error) {
	var result FulfillmentResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var handler model.User
		if err := tx.First(&handler, in.HandlerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("handler %d: %w", in.HandlerID, ErrNotFound)
			}
			return fmt.Errorf("failed to look up handler: %w", err)
		}

		var reservation model.Reservation
		if err := tx.First(&reservation, in.ReservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", in.ReservationID, ErrNotFound)
			}
			return fmt.Errorf("failed to load reservation %d: %w", in.ReservationID, err)
		}
		if reservation.IsReady {
			return fmt.Errorf("reservation %d is already fulfilled: %w", reservation.ID, ErrConflict)
		}

		// Snapshot the original ask before it is replaced below; the
		// ready-notification reports what the requester asked for.
		var originalItems []model.ReservedItem
		if err := tx.Where("reservation_id = ?", reservation.ID).
			Find(&originalItems).Error; err != nil {
			return fmt.Errorf("failed to snapshot requested items: %w", err)
		}

		// The mark-ready step is guarded like the shelf and serial
		// claims: a concurrent fulfillment that committed after the
		// load above leaves zero rows to update here.
		now := time.Now()
		res := tx.Model(&model.Reservation{}).
			Where("id = ? AND is_ready = ?", reservation.ID, false).
			Updates(map[string]any{
				"is_ready":      true,
				"ready_date":    now,
				"handler_note":  in.Note,
				"handler_name":  handler.FullName(),
				"handler_email": handler.Email,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark reservation %d ready: %w", reservation.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("reservation %d is already fulfilled: %w", reservation.ID, ErrConflict)
		}

		for _, shelfID := range in.ShelfIDs {
			if err := claimShelf(tx, shelfID, reservation.ID); err != nil {
				return err
			}
		}

		if err := tx.Where("reservation_id = ?", reservation.ID).
			Delete(&model.ReservedItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear requested items: %w", err)
		}

		if len(in.Items) > 0 {
			concrete := make([]model.ReservedItem, 0, len(in.Items))
			for _, it := range in.Items {
				concrete = append(concrete, model.ReservedItem{
					ReservationID: reservation.ID,
					ItemType:      it.ItemType,
					ItemName:      it.ItemName,
					SerialNumber:  it.SerialNumber,
				})
			}
			if err := tx.Create(&concrete).Error; err != nil {
				return fmt.Errorf("failed to store assigned items: %w", err)
			}
		}

		for _, it := range in.Items {
			if err := claimStorageItem(tx, it, reservation.ID, reservation.ProjectName); err != nil {
				return err
			}
		}

		if err := tx.Preload("Items").Preload("Shelves").
			First(&reservation, reservation.ID).Error; err != nil {
			return fmt.Errorf("failed to reload reservation %d: %w", reservation.ID, err)
		}

		var requester model.User
		switch err := tx.First(&requester, reservation.UserID).Error; {
		case err == nil:
			result.RequesterEmail = requester.Email
			result.NotifyRequester = requester.EmailsActivated && requester.Email != ""
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Requester account was deleted; the fulfillment still stands.
		default:
			return fmt.Errorf("failed to look up requester: %w", err)
		}

		result.Reservation = &reservation
		result.OriginalItems = originalItems
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// claimShelf binds one shelf to the reservation, rejecting unknown ids
// and shelves already bound to a different reservation.
func claimShelf(tx *gorm.DB, shelfID string, reservationID int64) error {
	res := tx.Model(&model.Shelf{}).
		Where("id = ? AND (reservation_id IS NULL OR reservation_id = ?)", shelfID, reservationID).
		Updates(map[string]any{"available": false, "reservation_id": reservationID})
	if res.Error != nil {
		return fmt.Errorf("failed to bind shelf %q: %w", shelfID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var shelf model.Shelf
	if err := tx.First(&shelf, "id = ?", shelfID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("shelf %q: %w", shelfID, ErrNotFound)
		}
		return fmt.Errorf("failed to inspect shelf %q: %w", shelfID, err)
	}
	return fmt.Errorf("shelf %q is already bound to reservation %d: %w", shelfID, *shelf.ReservationID, ErrConflict)
}

// claimStorageItem takes one serialized unit out of stock for the
// reservation, rejecting unknown units and units already in use. The
// unit is identified by its full (type, name, serial) business key;
// serial numbers alone are not unique across item types.
func claimStorageItem(tx *gorm.DB, item ChosenItem, reservationID int64, projectName string) error {
	res := tx.Model(&model.StorageItem{}).
		Where("item_type = ? AND item_name = ? AND serial_number = ? AND (reservation_id = 0 OR reservation_id = ?)",
			item.ItemType, item.ItemName, item.SerialNumber, reservationID).
		Updates(map[string]any{
			"state":          model.StateInUse,
			"available":      false,
			"reservation_id": reservationID,
			"project_name":   projectName,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to assign %s/%s serial %q: %w", item.ItemType, item.ItemName, item.SerialNumber, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&model.StorageItem{}).
		Where("item_type = ? AND item_name = ? AND serial_number = ?",
			item.ItemType, item.ItemName, item.SerialNumber).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to inspect %s/%s serial %q: %w", item.ItemType, item.ItemName, item.SerialNumber, err)
	}
	if count == 0 {
		return fmt.Errorf("%s/%s serial %q: %w", item.ItemType, item.ItemName, item.SerialNumber, ErrNotFound)
	}
	return fmt.Errorf("%s/%s serial %q is already in use: %w", item.ItemType, item.ItemName, item.SerialNumber, ErrConflict)
}
