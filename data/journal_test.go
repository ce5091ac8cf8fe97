package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gonext_go/geo"
	"gonext_go/models"
	"gonext_go/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePlaceCascades(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	trip, entries := tripWithPlaces(t, j, "А", "Б")
	tp := entries[0]
	placePhoto := importPhoto(t, j, tp.PlaceID, nil)
	visitPhoto := importPhoto(t, j, tp.PlaceID, &tp.ID)

	require.NoError(t, j.DeletePlace(ctx, tp.PlaceID))

	list, err := j.TripPlaces.GetTripPlaces(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Б"}, placeNames(list))

	for _, photo := range []*models.PlacePhoto{placePhoto, visitPhoto} {
		loaded, err := j.Photos.GetPhotoByID(ctx, photo.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
		assert.NoFileExists(t, photo.FilePath)
	}

	assert.ErrorIs(t, j.DeletePlace(ctx, tp.PlaceID), ErrNotFound)
}

func TestRepositoryDeletePlaceCascadesRecords(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	_, entries := tripWithPlaces(t, j, "А")
	photo := importPhoto(t, j, entries[0].PlaceID, &entries[0].ID)

	require.NoError(t, j.Places.DeletePlace(ctx, entries[0].PlaceID))

	tp, err := j.TripPlaces.GetTripPlaceByID(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Nil(t, tp)
	loaded, err := j.Photos.GetPhotoByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestJournalDeleteTripRemovesVisitPhotos(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	trip, entries := tripWithPlaces(t, j, "А")
	visitPhoto := importPhoto(t, j, entries[0].PlaceID, &entries[0].ID)
	placePhoto := importPhoto(t, j, entries[0].PlaceID, nil)

	require.NoError(t, j.DeleteTrip(ctx, trip.ID))

	assert.NoFileExists(t, visitPhoto.FilePath)
	assert.FileExists(t, placePhoto.FilePath)
	photos, err := j.Photos.GetPhotosByPlaceID(ctx, entries[0].PlaceID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, placePhoto.ID, photos[0].ID)

	assert.ErrorIs(t, j.DeleteTrip(ctx, trip.ID), ErrNotFound)
}

func TestJournalRemoveTripPlace(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	_, entries := tripWithPlaces(t, j, "А")
	photo := importPhoto(t, j, entries[0].PlaceID, &entries[0].ID)

	require.NoError(t, j.RemoveTripPlace(ctx, entries[0].ID))
	assert.NoFileExists(t, photo.FilePath)

	place, err := j.Places.GetPlaceByID(ctx, entries[0].PlaceID)
	require.NoError(t, err)
	assert.NotNil(t, place)

	assert.ErrorIs(t, j.RemoveTripPlace(ctx, entries[0].ID), ErrNotFound)
}

func TestJournalCreateTripWithPlaces(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	a := mustCreatePlace(t, j, "А", nil)
	b := mustCreatePlace(t, j, "Б", nil)

	trip, err := j.CreateTrip(ctx, models.TripInput{Title: "Поездка", PlaceIDs: []string{b.ID, a.ID}})
	require.NoError(t, err)

	list, err := j.TripPlaces.GetTripPlaces(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Б", "А"}, placeNames(list))
	assert.Equal(t, []int{1, 2}, []int{list[0].Order, list[1].Order})
}

func TestJournalSyncTripPlacesRemovesPhotos(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	trip, entries := tripWithPlaces(t, j, "А", "Б")
	photo := importPhoto(t, j, entries[0].PlaceID, &entries[0].ID)

	require.NoError(t, j.SyncTripPlaces(ctx, trip.ID, []string{entries[1].PlaceID}))
	assert.NoFileExists(t, photo.FilePath)

	list, err := j.TripPlaces.GetTripPlaces(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Б"}, placeNames(list))

	assert.ErrorIs(t, j.SyncTripPlaces(ctx, "missing", nil), ErrNotFound)
}

func TestJournalCreateTripRollsBack(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	old := mustCreateTrip(t, j, "Старая", true)
	place := mustCreatePlace(t, j, "А", nil)

	_, err := j.CreateTrip(ctx, models.TripInput{
		Title:    "Новая",
		Current:  true,
		PlaceIDs: []string{place.ID, "missing-place"},
	})
	require.ErrorIs(t, err, ErrStorage)

	count, err := j.Trips.CountTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "поездка не создается без маршрута")

	current, err := j.Trips.GetCurrentTrip(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, old.ID, current.ID, "прежняя поездка остается текущей")
	assert.Equal(t, 1, countCurrent(t, j))
}

func TestJournalSyncTripPlacesRollsBack(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	trip, entries := tripWithPlaces(t, j, "А", "Б")
	photo := importPhoto(t, j, entries[1].PlaceID, &entries[1].ID)

	err := j.SyncTripPlaces(ctx, trip.ID, []string{entries[0].PlaceID, "missing-place"})
	require.ErrorIs(t, err, ErrStorage)

	list, err := j.TripPlaces.GetTripPlaces(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"А", "Б"}, placeNames(list))

	loaded, err := j.Photos.GetPhotoByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.FileExists(t, photo.FilePath)
}

func TestJournalDeleteMissingKeepsFiles(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	_, entries := tripWithPlaces(t, j, "А")
	photo := importPhoto(t, j, entries[0].PlaceID, &entries[0].ID)

	assert.ErrorIs(t, j.DeletePlace(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, j.DeleteTrip(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, j.RemoveTripPlace(ctx, "missing"), ErrNotFound)
	assert.FileExists(t, photo.FilePath)
}

func TestJournalDeleteKeepsExternalFiles(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	place := mustCreatePlace(t, j, "Место", nil)

	external := filepath.Join(t.TempDir(), "gallery.jpg")
	require.NoError(t, os.WriteFile(external, []byte("jpeg"), 0o644))
	photo, err := j.Photos.AddPhotoToPlace(ctx, place.ID, external, nil)
	require.NoError(t, err)
	imported := importPhoto(t, j, place.ID, nil)

	require.NoError(t, j.DeletePlace(ctx, place.ID))

	loaded, err := j.Photos.GetPhotoByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.FileExists(t, external, "файлы вне каталога фотографий не удаляются")
	assert.NoFileExists(t, imported.FilePath)
}

func TestListTripsWithProgress(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	current, entries := tripWithPlaces(t, j, "А", "Б")
	_, err := j.TripPlaces.MarkAsVisited(ctx, entries[0].ID, nil, nil)
	require.NoError(t, err)
	older := mustCreateTrip(t, j, "Старая", false)
	newer := mustCreateTrip(t, j, "Новая", false)

	trips, err := j.ListTripsWithProgress(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, []string{current.ID, newer.ID, older.ID}, []string{trips[0].ID, trips[1].ID, trips[2].ID})
	assert.Equal(t, 2, trips[0].PlacesCount)
	assert.Equal(t, 1, trips[0].VisitedCount)
	assert.Zero(t, trips[1].PlacesCount)
}

func TestNextPlaceOverview(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	overview, err := j.NextPlaceOverview(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, overview.Trip)
	assert.Nil(t, overview.NextPlace)

	trip := mustCreateTrip(t, j, "Питер", true)
	place := mustCreatePlace(t, j, "Эрмитаж", strPtr("59.9398,30.3146"))
	_, err = j.TripPlaces.AddPlaceToTrip(ctx, trip.ID, place.ID, 1)
	require.NoError(t, err)

	moscow := geo.Point{Latitude: 55.7558, Longitude: 37.6173}
	overview, err = j.NextPlaceOverview(ctx, &moscow)
	require.NoError(t, err)
	require.NotNil(t, overview.Trip)
	assert.Equal(t, trip.ID, overview.Trip.ID)
	require.NotNil(t, overview.NextPlace)
	assert.Equal(t, "Эрмитаж", overview.NextPlace.Place.Name)
	assert.Equal(t, models.TripProgress{Total: 1, Visited: 0}, overview.Progress)
	require.NotNil(t, overview.DistanceKm)
	assert.InDelta(t, 634, *overview.DistanceKm, 5)

	overview, err = j.NextPlaceOverview(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, overview.DistanceKm)
}

func TestStatsAndClearAll(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	_, entries := tripWithPlaces(t, j, "А", "Б")
	photo := importPhoto(t, j, entries[0].PlaceID, nil)
	require.NoError(t, j.Settings.SetSetting(ctx, SettingPINHash, "hash"))

	stats, err := j.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{PlacesCount: 2, TripsCount: 1}, stats)

	require.NoError(t, j.ClearAll(ctx))

	stats, err = j.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{}, stats)
	assert.NoFileExists(t, photo.FilePath)

	_, ok, err := j.Settings.GetSetting(ctx, SettingPINHash)
	require.NoError(t, err)
	assert.True(t, ok, "настройки не очищаются")
}

func TestBackup(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	_, entries := tripWithPlaces(t, j, "А", "Б")
	importPhoto(t, j, entries[0].PlaceID, nil)

	backup, err := j.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, backup.SchemaVersion)
	assert.Len(t, backup.Places, 2)
	assert.Len(t, backup.Trips, 1)
	assert.Len(t, backup.TripPlaces, 2)
	assert.Len(t, backup.Photos, 1)
	assert.NotEmpty(t, backup.CreatedAt)
}

func TestSettings(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	_, ok, err := j.Settings.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, j.Settings.SetSetting(ctx, "theme", "dark"))
	require.NoError(t, j.Settings.SetSetting(ctx, "theme", "light"))
	value, ok, err := j.Settings.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)

	require.NoError(t, j.Settings.DeleteSetting(ctx, "theme"))
	_, ok, err = j.Settings.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreReplacesData(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	trip, entries := tripWithPlaces(t, j, "А", "Б")
	_, err := j.TripPlaces.MarkAsVisited(ctx, entries[0].ID, strPtr("2024-06-15"), strPtr("Заметка"))
	require.NoError(t, err)

	backup, err := j.Backup(ctx)
	require.NoError(t, err)

	mustCreatePlace(t, j, "Лишнее", nil)
	require.NoError(t, j.Restore(ctx, backup))

	places, err := j.Places.GetAllPlaces(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, backup.Places, places)

	list, err := j.TripPlaces.GetTripPlaces(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"А", "Б"}, placeNames(list))
	assert.True(t, list[0].Visited)
	assert.Equal(t, "Заметка", *list[0].Notes)
}

func TestRestoreRollsBackOnBrokenBackup(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	mustCreatePlace(t, j, "Место", nil)

	broken := &models.BackupData{
		SchemaVersion: SchemaVersion,
		TripPlaces:    []models.TripPlace{{ID: "tp", TripID: "missing", PlaceID: "missing", Order: 1}},
	}
	err := j.Restore(ctx, broken)
	assert.ErrorIs(t, err, ErrStorage)

	count, err := j.Places.CountPlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	mustCreatePlace(t, j, "Место", nil)

	err := j.Restore(ctx, &models.BackupData{SchemaVersion: SchemaVersion + 1})
	assert.ErrorIs(t, err, validation.ErrValidation)

	twoCurrent := &models.BackupData{
		SchemaVersion: SchemaVersion,
		Trips: []models.Trip{
			{ID: "t1", Title: "Первая", Current: true, CreatedAt: Now()},
			{ID: "t2", Title: "Вторая", Current: true, CreatedAt: Now()},
		},
	}
	err = j.Restore(ctx, twoCurrent)
	assert.ErrorIs(t, err, validation.ErrValidation)

	count, err := j.Places.CountPlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRestoreValidatesRecords(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	mustCreatePlace(t, j, "Место", nil)

	places := []models.Place{
		{ID: "p1", Name: "А", CreatedAt: Now()},
		{ID: "p2", Name: "Б", CreatedAt: Now()},
	}
	trips := []models.Trip{{ID: "t1", Title: "Поездка", CreatedAt: Now()}}
	cases := map[string]*models.BackupData{
		"пустое название места": {
			Places: []models.Place{{ID: "p1", Name: " ", CreatedAt: Now()}},
		},
		"координаты не числа": {
			Places: []models.Place{{ID: "p1", Name: "А", DD: strPtr("NaN,NaN"), CreatedAt: Now()}},
		},
		"даты поездки": {
			Trips: []models.Trip{{ID: "t1", Title: "Поездка", StartDate: strPtr("2024-06-10"), EndDate: strPtr("2024-06-01")}},
		},
		"нулевой порядок": {
			Places: places, Trips: trips,
			TripPlaces: []models.TripPlace{{ID: "tp1", TripID: "t1", PlaceID: "p1", Order: 0}},
		},
		"повтор порядка": {
			Places: places, Trips: trips,
			TripPlaces: []models.TripPlace{
				{ID: "tp1", TripID: "t1", PlaceID: "p1", Order: 1},
				{ID: "tp2", TripID: "t1", PlaceID: "p2", Order: 1},
			},
		},
		"дата посещения": {
			Places: places, Trips: trips,
			TripPlaces: []models.TripPlace{{ID: "tp1", TripID: "t1", PlaceID: "p1", Order: 1, Visited: true, VisitDate: strPtr("вчера")}},
		},
	}
	for name, backup := range cases {
		backup.SchemaVersion = SchemaVersion
		err := j.Restore(ctx, backup)
		assert.ErrorIs(t, err, validation.ErrValidation, name)
	}

	all, err := j.Places.GetAllPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Место", all[0].Name)
}
