package data

import (
	"context"
	"os"
	"strings"
	"testing"

	"gonext_go/models"
	"gonext_go/photostore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importPhoto(t *testing.T, j *Journal, placeID string, tripPlaceID *string) *models.PlacePhoto {
	t.Helper()
	photo, err := j.Photos.ImportPhoto(context.Background(), placeID, tripPlaceID, strings.NewReader("jpeg"), "jpg")
	require.NoError(t, err)
	return photo
}

func TestImportPhotoAndList(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	place := mustCreatePlace(t, j, "Место", nil)

	first := importPhoto(t, j, place.ID, nil)
	second := importPhoto(t, j, place.ID, nil)
	assert.FileExists(t, first.FilePath)

	photos, err := j.Photos.GetPhotosByPlaceID(ctx, place.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, second.ID, photos[0].ID)
	assert.Equal(t, first.ID, photos[1].ID)

	loaded, err := j.Photos.GetPhotoByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *loaded)
}

func TestImportPhotoRemovesFileWhenRecordFails(t *testing.T) {
	j := newTestJournal(t)

	_, err := j.Photos.ImportPhoto(context.Background(), "missing-place", nil, strings.NewReader("jpeg"), ".png")
	require.ErrorIs(t, err, ErrStorage)

	files, err := os.ReadDir(j.Photos.Store().Dir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestPhotosByTripPlace(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	_, entries := tripWithPlaces(t, j, "А")
	tp := entries[0]

	visitPhoto := importPhoto(t, j, tp.PlaceID, &tp.ID)
	importPhoto(t, j, tp.PlaceID, nil)

	photos, err := j.Photos.GetPhotosByTripPlaceID(ctx, tp.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, visitPhoto.ID, photos[0].ID)

	byPlace, err := j.Photos.GetPhotosByPlaceID(ctx, tp.PlaceID)
	require.NoError(t, err)
	assert.Len(t, byPlace, 2)
}

func TestDeletePhotoWithMissingFile(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	place := mustCreatePlace(t, j, "Место", nil)
	photo := importPhoto(t, j, place.ID, nil)

	require.NoError(t, os.Remove(photo.FilePath))
	require.NoError(t, j.Photos.DeletePhoto(ctx, photo.ID))

	loaded, err := j.Photos.GetPhotoByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.ErrorIs(t, j.Photos.DeletePhoto(ctx, photo.ID), ErrNotFound)
}

func TestAddPhotoToPlaceRecordsExistingFile(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	place := mustCreatePlace(t, j, "Место", nil)

	photo, err := j.Photos.AddPhotoToPlace(ctx, place.ID, "/tmp/gallery/photo.jpg", nil)
	require.NoError(t, err)
	assert.Nil(t, photo.TripPlaceID)

	// Файла нет на диске, удаление записи все равно проходит.
	require.NoError(t, j.Photos.DeletePhoto(ctx, photo.ID))
}

func TestDeletePhotosByPlaceID(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	place := mustCreatePlace(t, j, "Место", nil)
	first := importPhoto(t, j, place.ID, nil)
	second := importPhoto(t, j, place.ID, nil)

	require.NoError(t, j.Photos.DeletePhotosByPlaceID(ctx, place.ID))

	photos, err := j.Photos.GetPhotosByPlaceID(ctx, place.ID)
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.NoFileExists(t, first.FilePath)
	assert.NoFileExists(t, second.FilePath)
}

func TestPhotoRepositoryWithDisabledStore(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	j := NewJournal(db, photostore.DisabledStore{})
	ctx := context.Background()
	place := mustCreatePlace(t, j, "Место", nil)

	photos, err := j.Photos.GetPhotosByPlaceID(ctx, place.ID)
	require.NoError(t, err)
	assert.Empty(t, photos)

	_, err = j.Photos.AddPhotoToPlace(ctx, place.ID, "photo.jpg", nil)
	assert.ErrorIs(t, err, photostore.ErrUnsupported)
	_, err = j.Photos.ImportPhoto(ctx, place.ID, nil, strings.NewReader("x"), "jpg")
	assert.ErrorIs(t, err, photostore.ErrUnsupported)
	assert.ErrorIs(t, j.Photos.DeletePhoto(ctx, "any"), photostore.ErrUnsupported)

	// Удаление места работает и без поддержки фотографий.
	assert.NoError(t, j.DeletePlace(ctx, place.ID))
}
