package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-reservation-backend/internal/model"
)

func TestAddStorageItem_Defaults(t *testing.T) {
	s := newSQLiteStore(t, "storage_add")

	item := seedStorageItem(t, s, "Vibration sensor", "VS-100", "SN-0099")

	assert.True(t, item.Available)
	assert.Equal(t, model.StateInStorage, item.State)
	assert.Equal(t, model.UnassignedProject, item.ProjectName)
	assert.Zero(t, item.ReservationID)
	assert.Equal(t, "Test User", item.AddedBy)
	assert.False(t, item.AddedAt.IsZero())
}

func TestAddStorageItem_DuplicateTriple(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, "storage_dup")

	seedStorageItem(t, s, "Vibration sensor", "VS-100", "SN-0099")

	_, err := s.AddStorageItem(ctx, AddStorageItemInput{
		ItemType:     "Vibration sensor",
		ItemName:     "VS-100",
		SerialNumber: "SN-0099",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	// Changing any leg of the triple makes it a new unit.
	_, err = s.AddStorageItem(ctx, AddStorageItemInput{
		ItemType:     "Vibration sensor",
		ItemName:     "VS-100",
		SerialNumber: "SN-0100",
	})
	require.NoError(t, err)
}

func TestListStorageGrouped(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, "storage_group")

	seedStorageItem(t, s, "Vibration sensor", "VS-100", "SN-0100")
	seedStorageItem(t, s, "Multimeter", "MM-20", "SN-0001")
	seedStorageItem(t, s, "Vibration sensor", "VS-100", "SN-0099")

	groups, err := s.ListStorageGrouped(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Multimeter", groups[0].Category)
	require.Len(t, groups[0].Items, 1)

	assert.Equal(t, "Vibration sensor", groups[1].Category)
	require.Len(t, groups[1].Items, 2)
	assert.Equal(t, "SN-0099", groups[1].Items[0].SerialNumber)
	assert.Equal(t, "SN-0100", groups[1].Items[1].SerialNumber)
}
