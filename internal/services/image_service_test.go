package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageService_SaveAndFind(t *testing.T) {
	_, imageSvc, _ := setupListingTest(t, "testdb_image_save")
	ctx := context.Background()

	img := uploadTestImage(t, imageSvc, "", 0)
	assert.NotEmpty(t, img.ID)
	assert.Equal(t, "zdjecie.jpg", img.OriginalName)

	// Orphan uploads are not attributed to any listing yet.
	none, err := imageSvc.FindByListing(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestImageService_RemoveImage_Ownership(t *testing.T) {
	listingSvc, imageSvc, _ := setupListingTest(t, "testdb_image_remove")
	ctx := context.Background()
	ownerID := uuid.NewString()

	listing, err := listingSvc.Create(ctx, completeInput(), ownerID)
	require.NoError(t, err)
	img := uploadTestImage(t, imageSvc, listing.ID, 0)

	err = imageSvc.RemoveImage(ctx, img.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, imageSvc.RemoveImage(ctx, img.ID, ownerID))

	err = imageSvc.RemoveImage(ctx, img.ID, ownerID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestImageService_RemoveImage_OrphanDeletableByAnyone(t *testing.T) {
	_, imageSvc, _ := setupListingTest(t, "testdb_image_remove_orphan")
	ctx := context.Background()

	orphan := uploadTestImage(t, imageSvc, "", 0)
	assert.NoError(t, imageSvc.RemoveImage(ctx, orphan.ID, uuid.NewString()))
}

func TestImageService_ReorderImages(t *testing.T) {
	listingSvc, imageSvc, _ := setupListingTest(t, "testdb_image_reorder")
	ctx := context.Background()
	ownerID := uuid.NewString()

	listing, err := listingSvc.Create(ctx, completeInput(), ownerID)
	require.NoError(t, err)
	first := uploadTestImage(t, imageSvc, listing.ID, 0)
	second := uploadTestImage(t, imageSvc, listing.ID, 1)
	third := uploadTestImage(t, imageSvc, listing.ID, 2)

	require.NoError(t, imageSvc.ReorderImages(ctx, listing.ID, []string{third.ID, first.ID, second.ID}, ownerID))

	ordered, err := imageSvc.FindByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, third.ID, ordered[0].ID)
	assert.Equal(t, first.ID, ordered[1].ID)
	assert.Equal(t, second.ID, ordered[2].ID)
	assert.Equal(t, []int{0, 1, 2}, []int{ordered[0].Order, ordered[1].Order, ordered[2].Order})

	// Re-applying the same sequence leaves positions unchanged.
	require.NoError(t, imageSvc.ReorderImages(ctx, listing.ID, []string{third.ID, first.ID, second.ID}, ownerID))

	again, err := imageSvc.FindByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, again, 3)
	for i := range ordered {
		assert.Equal(t, ordered[i].ID, again[i].ID)
		assert.Equal(t, ordered[i].Order, again[i].Order)
	}
}

func TestImageService_ReorderImages_OnlyOwner(t *testing.T) {
	listingSvc, imageSvc, _ := setupListingTest(t, "testdb_image_reorder_owner")
	ctx := context.Background()
	ownerID := uuid.NewString()

	listing, err := listingSvc.Create(ctx, completeInput(), ownerID)
	require.NoError(t, err)
	img := uploadTestImage(t, imageSvc, listing.ID, 0)

	err = imageSvc.ReorderImages(ctx, listing.ID, []string{img.ID}, uuid.NewString())
	assert.ErrorIs(t, err, ErrForbidden)

	err = imageSvc.ReorderImages(ctx, uuid.NewString(), []string{img.ID}, ownerID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}
