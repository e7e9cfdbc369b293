package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-reservation-backend/internal/model"
)

func TestCatalogItemRequiresCategory(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, "catalog_category")

	_, err := s.CreateCatalogItem(ctx, CreateCatalogItemInput{
		ItemType: "Sensors",
		ItemName: "VS-100",
	})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateCategory(ctx, "Sensors")
	require.NoError(t, err)

	item, err := s.CreateCatalogItem(ctx, CreateCatalogItemInput{
		ItemType:  "Sensors",
		ItemName:  "VS-100",
		ImageURL:  "https://example.com/vs-100.png",
		ManualURL: "https://example.com/vs-100.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sensors", item.ItemType)

	_, err = s.CreateCatalogItem(ctx, CreateCatalogItemInput{
		ItemType: "Sensors",
		ItemName: "VS-100",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = s.CreateCategory(ctx, "Sensors")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestDeleteCategory_Cascades(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, "catalog_cascade")

	_, err := s.CreateCategory(ctx, "Sensors")
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, "Meters")
	require.NoError(t, err)

	for _, name := range []string{"VS-100", "VS-200", "VS-300"} {
		_, err = s.CreateCatalogItem(ctx, CreateCatalogItemInput{ItemType: "Sensors", ItemName: name})
		require.NoError(t, err)
	}
	_, err = s.CreateCatalogItem(ctx, CreateCatalogItemInput{ItemType: "Meters", ItemName: "MM-20"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, "Sensors"))

	var remaining int64
	require.NoError(t, s.DB().Model(&model.CatalogItem{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	require.ErrorIs(t, s.DeleteCategory(ctx, "Sensors"), ErrNotFound)
}

func TestListCatalog_IncludesEmptyCategories(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, "catalog_list")

	_, err := s.CreateCategory(ctx, "Sensors")
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, "Meters")
	require.NoError(t, err)
	_, err = s.CreateCatalogItem(ctx, CreateCatalogItemInput{ItemType: "Sensors", ItemName: "VS-100"})
	require.NoError(t, err)

	groups, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Meters", groups[0].Category)
	assert.Empty(t, groups[0].Items)
	assert.Equal(t, "Sensors", groups[1].Category)
	require.Len(t, groups[1].Items, 1)
}

func TestDeleteCatalogItem(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, "catalog_delete_item")

	_, err := s.CreateCategory(ctx, "Sensors")
	require.NoError(t, err)
	_, err = s.CreateCatalogItem(ctx, CreateCatalogItemInput{ItemType: "Sensors", ItemName: "VS-100"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCatalogItem(ctx, "VS-100"))
	require.ErrorIs(t, s.DeleteCatalogItem(ctx, "VS-100"), ErrNotFound)
}
