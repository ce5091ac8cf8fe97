package data

import (
	"context"
	"fmt"
	"log"
	"sort"

	"gonext_go/geo"
	"gonext_go/models"
	"gonext_go/photostore"
	"gonext_go/validation"

	"github.com/jmoiron/sqlx"
)

// Journal объединяет репозитории и выполняет операции, затрагивающие несколько таблиц
// и файлы фотографий. Создается один раз при запуске и передается обработчикам.
type Journal struct {
	db         *sqlx.DB
	Places     *PlaceRepository
	Trips      *TripRepository
	TripPlaces *TripPlaceRepository
	Photos     *PhotoRepository
	Settings   *SettingsRepository
}

func NewJournal(db *sqlx.DB, store photostore.PhotoStore) *Journal {
	return &Journal{
		db:         db,
		Places:     NewPlaceRepository(db),
		Trips:      NewTripRepository(db),
		TripPlaces: NewTripPlaceRepository(db),
		Photos:     NewPhotoRepository(db, store),
		Settings:   NewSettingsRepository(db),
	}
}

// CreateTrip создает поездку и добавляет в ее маршрут места из in.PlaceIDs.
// Поездка, сброс прежней текущей поездки и маршрут записываются в одной транзакции.
func (j *Journal) CreateTrip(ctx context.Context, in models.TripInput) (*models.Trip, error) {
	trip, err := newTrip(in)
	if err != nil {
		return nil, err
	}
	err = withTx(ctx, j.db, "CreateTrip", func(tx *sqlx.Tx) error {
		if err := insertTrip(ctx, tx, trip); err != nil {
			return err
		}
		if len(in.PlaceIDs) == 0 {
			return nil
		}
		if err := syncTripPlaces(ctx, tx, trip.ID, in.PlaceIDs); err != nil {
			return fmt.Errorf("CreateTrip: ошибка добавления мест в поездку %s: %w", trip.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Создана поездка с ID: %s (мест: %d)", trip.ID, len(in.PlaceIDs))
	return trip, nil
}

// SyncTripPlaces приводит маршрут к списку мест. Записи фотографий исключенных
// посещений удаляются каскадно, файлы - только после фиксации транзакции.
func (j *Journal) SyncTripPlaces(ctx context.Context, tripID string, placeIDs []string) error {
	var paths []string
	err := withTx(ctx, j.db, "SyncTripPlaces", func(tx *sqlx.Tx) error {
		trip, err := getTrip(ctx, tx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, tripID)
		if err != nil {
			return err
		}
		if trip == nil {
			return notFound("SyncTripPlaces", "поездка", tripID)
		}

		dropped, err := droppedTripPlaceIDs(ctx, tx, tripID, placeIDs)
		if err != nil {
			return err
		}
		if len(dropped) > 0 {
			where, args, err := sqlx.In(`tripPlaceId IN (?)`, dropped)
			if err != nil {
				return fmt.Errorf("SyncTripPlaces: ошибка построения запроса для sqlx.In: %w", err)
			}
			if paths, err = photoPaths(ctx, tx, tx.Rebind(where), args...); err != nil {
				return err
			}
		}
		return syncTripPlaces(ctx, tx, tripID, placeIDs)
	})
	if err != nil {
		return err
	}
	j.removeFiles("SyncTripPlaces", paths)
	return nil
}

// DeletePlace удаляет место вместе с фотографиями (записи каскадно, затем файлы).
func (j *Journal) DeletePlace(ctx context.Context, id string) error {
	var paths []string
	err := withTx(ctx, j.db, "DeletePlace", func(tx *sqlx.Tx) error {
		var err error
		if paths, err = photoPaths(ctx, tx, `placeId = ?`, id); err != nil {
			return err
		}
		return deletePlace(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	j.removeFiles("DeletePlace", paths)
	return nil
}

// DeleteTrip удаляет поездку и фотографии ее посещений. Фотографии самих мест остаются.
func (j *Journal) DeleteTrip(ctx context.Context, id string) error {
	var paths []string
	err := withTx(ctx, j.db, "DeleteTrip", func(tx *sqlx.Tx) error {
		var err error
		paths, err = photoPaths(ctx, tx, `tripPlaceId IN (SELECT id FROM trip_places WHERE tripId = ?)`, id)
		if err != nil {
			return err
		}
		return deleteTrip(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	j.removeFiles("DeleteTrip", paths)
	return nil
}

// RemoveTripPlace убирает место из маршрута вместе с фотографиями посещения.
func (j *Journal) RemoveTripPlace(ctx context.Context, id string) error {
	var paths []string
	err := withTx(ctx, j.db, "RemoveTripPlace", func(tx *sqlx.Tx) error {
		var err error
		if paths, err = photoPaths(ctx, tx, `tripPlaceId = ?`, id); err != nil {
			return err
		}
		return removeTripPlace(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	j.removeFiles("RemoveTripPlace", paths)
	return nil
}

// removeFiles удаляет файлы фотографий, записи которых уже удалены. Ошибки только логируются.
func (j *Journal) removeFiles(op string, paths []string) {
	store := j.Photos.Store()
	if !store.Supported() {
		return
	}
	for _, path := range paths {
		if err := store.Remove(path); err != nil {
			log.Printf("%s: не удалось удалить файл %s: %v", op, path, err)
		}
	}
}

// ListTripsWithProgress возвращает поездки с прогрессом: текущая первой, остальные от новых к старым.
func (j *Journal) ListTripsWithProgress(ctx context.Context) ([]models.TripWithProgress, error) {
	trips, err := j.Trips.GetAllTrips(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.TripWithProgress, 0, len(trips))
	for _, trip := range trips {
		progress, err := j.TripPlaces.GetTripProgress(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.TripWithProgress{
			Trip:         trip,
			PlacesCount:  progress.Total,
			VisitedCount: progress.Visited,
		})
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].Current && !result[b].Current
	})
	return result, nil
}

// NextPlaceOverview собирает данные о следующем месте текущей поездки.
// Если from и координаты места известны, считается расстояние до места.
func (j *Journal) NextPlaceOverview(ctx context.Context, from *geo.Point) (*models.NextPlaceOverview, error) {
	overview := &models.NextPlaceOverview{}
	trip, err := j.Trips.GetCurrentTrip(ctx)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return overview, nil
	}
	overview.Trip = trip

	if overview.NextPlace, err = j.TripPlaces.GetNextPlace(ctx, trip.ID); err != nil {
		return nil, err
	}
	if overview.Progress, err = j.TripPlaces.GetTripProgress(ctx, trip.ID); err != nil {
		return nil, err
	}

	if from != nil && overview.NextPlace != nil && overview.NextPlace.Place.DD != nil {
		to, err := geo.ParseCoordinates(*overview.NextPlace.Place.DD)
		if err != nil {
			log.Printf("NextPlaceOverview: некорректные координаты места %s: %v", overview.NextPlace.PlaceID, err)
			return overview, nil
		}
		distance := geo.DistanceKm(*from, to)
		overview.DistanceKm = &distance
	}
	return overview, nil
}

// Stats возвращает количество мест и поездок.
func (j *Journal) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	var err error
	if stats.PlacesCount, err = j.Places.CountPlaces(ctx); err != nil {
		return models.Stats{}, err
	}
	if stats.TripsCount, err = j.Trips.CountTrips(ctx); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// ClearAll удаляет все данные журнала в одной транзакции, затем файлы фотографий.
// Настройки (PIN-код) сохраняются.
func (j *Journal) ClearAll(ctx context.Context) error {
	var paths []string
	err := withTx(ctx, j.db, "ClearAll", func(tx *sqlx.Tx) error {
		var err error
		if paths, err = photoPaths(ctx, tx, `1 = 1`); err != nil {
			return err
		}
		return clearTables(ctx, tx, "ClearAll")
	})
	if err != nil {
		return err
	}
	j.removeFiles("ClearAll", paths)
	log.Printf("Все данные журнала удалены (фотографий: %d)", len(paths))
	return nil
}

func clearTables(ctx context.Context, tx *sqlx.Tx, op string) error {
	for _, table := range []string{"place_photos", "trip_places", "trips", "places"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return wrapStorage(op, fmt.Errorf("ошибка очистки таблицы %s: %w", table, err))
		}
	}
	return nil
}

// Backup возвращает снимок всех таблиц журнала.
func (j *Journal) Backup(ctx context.Context) (*models.BackupData, error) {
	backup := &models.BackupData{SchemaVersion: SchemaVersion, CreatedAt: Now()}

	var err error
	if backup.Places, err = j.Places.GetAllPlaces(ctx); err != nil {
		return nil, err
	}
	if backup.Trips, err = j.Trips.GetAllTrips(ctx); err != nil {
		return nil, err
	}

	var tripPlaceRows []tripPlaceRow
	query := `SELECT ` + tripPlaceColumns + ` FROM trip_places ORDER BY tripId, "order", rowid`
	if err := j.db.SelectContext(ctx, &tripPlaceRows, query); err != nil {
		return nil, wrapStorage("Backup", fmt.Errorf("ошибка получения маршрутов: %w", err))
	}
	backup.TripPlaces = make([]models.TripPlace, 0, len(tripPlaceRows))
	for _, row := range tripPlaceRows {
		backup.TripPlaces = append(backup.TripPlaces, row.toModel())
	}

	var photoRows []photoRow
	if err := j.db.SelectContext(ctx, &photoRows, `SELECT `+photoColumns+` FROM place_photos ORDER BY createdAt, rowid`); err != nil {
		return nil, wrapStorage("Backup", fmt.Errorf("ошибка получения фотографий: %w", err))
	}
	backup.Photos = make([]models.PlacePhoto, 0, len(photoRows))
	for _, row := range photoRows {
		backup.Photos = append(backup.Photos, row.toModel())
	}

	log.Printf("Создана резервная копия: мест %d, поездок %d", len(backup.Places), len(backup.Trips))
	return backup, nil
}

// Restore заменяет все данные журнала содержимым резервной копии в одной транзакции.
// Копия проверяется теми же правилами, что и обычные записи. Файлы фотографий
// не трогаются: записи ссылаются на пути из копии.
func (j *Journal) Restore(ctx context.Context, backup *models.BackupData) error {
	if err := validateBackup(backup); err != nil {
		return err
	}
	err := withTx(ctx, j.db, "Restore", func(tx *sqlx.Tx) error {
		if err := clearTables(ctx, tx, "Restore"); err != nil {
			return err
		}
		for i := range backup.Places {
			query := `INSERT INTO places (` + placeColumns + `)
			          VALUES (:id, :name, :description, :visitlater, :liked, :dd, :createdAt)`
			if _, err := tx.NamedExecContext(ctx, query, placeToRow(&backup.Places[i])); err != nil {
				return wrapStorage("Restore", fmt.Errorf("ошибка вставки места %s: %w", backup.Places[i].ID, err))
			}
		}
		for i := range backup.Trips {
			query := `INSERT INTO trips (` + tripColumns + `)
			          VALUES (:id, :title, :description, :startDate, :endDate, :current, :createdAt)`
			if _, err := tx.NamedExecContext(ctx, query, tripToRow(&backup.Trips[i])); err != nil {
				return wrapStorage("Restore", fmt.Errorf("ошибка вставки поездки %s: %w", backup.Trips[i].ID, err))
			}
		}
		for i := range backup.TripPlaces {
			query := `INSERT INTO trip_places (` + tripPlaceColumns + `)
			          VALUES (:id, :tripId, :placeId, :order, :visited, :visitDate, :notes)`
			if _, err := tx.NamedExecContext(ctx, query, tripPlaceToRow(&backup.TripPlaces[i])); err != nil {
				return wrapStorage("Restore", fmt.Errorf("ошибка вставки места в поездке %s: %w", backup.TripPlaces[i].ID, err))
			}
		}
		for i := range backup.Photos {
			query := `INSERT INTO place_photos (` + photoColumns + `)
			          VALUES (:id, :placeId, :tripPlaceId, :filePath, :createdAt)`
			if _, err := tx.NamedExecContext(ctx, query, photoToRow(&backup.Photos[i])); err != nil {
				return wrapStorage("Restore", fmt.Errorf("ошибка вставки фотографии %s: %w", backup.Photos[i].ID, err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("Восстановлена резервная копия: мест %d, поездок %d", len(backup.Places), len(backup.Trips))
	return nil
}

// validateBackup проверяет копию до записи: версию схемы, поля записей,
// единственность текущей поездки и порядковых номеров в маршрутах.
func validateBackup(backup *models.BackupData) error {
	if backup.SchemaVersion > SchemaVersion {
		return validation.NewError("schemaVersion",
			fmt.Sprintf("Версия схемы копии %d новее поддерживаемой %d", backup.SchemaVersion, SchemaVersion))
	}
	for _, p := range backup.Places {
		if err := validation.ValidatePlace(p.Name, p.Description, p.DD); err != nil {
			return fmt.Errorf("Restore: место %s: %w", p.ID, err)
		}
	}

	current := 0
	for _, t := range backup.Trips {
		if err := validation.ValidateTrip(t.Title, t.Description, t.StartDate, t.EndDate); err != nil {
			return fmt.Errorf("Restore: поездка %s: %w", t.ID, err)
		}
		if t.Current {
			current++
		}
	}
	if current > 1 {
		return validation.NewError("trips", fmt.Sprintf("В копии %d текущих поездок, допускается одна", current))
	}

	type slot struct {
		tripID string
		order  int
	}
	used := make(map[slot]struct{}, len(backup.TripPlaces))
	for _, tp := range backup.TripPlaces {
		if err := validation.ValidateOrder(tp.Order); err != nil {
			return fmt.Errorf("Restore: место в поездке %s: %w", tp.ID, err)
		}
		if err := validation.ValidateVisitDate(deref(tp.VisitDate)); err != nil {
			return fmt.Errorf("Restore: место в поездке %s: %w", tp.ID, err)
		}
		if err := validation.ValidateNotes(tp.Notes); err != nil {
			return fmt.Errorf("Restore: место в поездке %s: %w", tp.ID, err)
		}
		key := slot{tripID: tp.TripID, order: tp.Order}
		if _, dup := used[key]; dup {
			return validation.NewError("order", fmt.Sprintf("Порядок %d повторяется в поездке %s", tp.Order, tp.TripID))
		}
		used[key] = struct{}{}
	}

	for _, photo := range backup.Photos {
		if err := validation.ValidateRequired(photo.FilePath, "filePath"); err != nil {
			return fmt.Errorf("Restore: фотография %s: %w", photo.ID, err)
		}
	}
	return nil
}
