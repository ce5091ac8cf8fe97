package data

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"gonext_go/models"
	"gonext_go/photostore"
	"gonext_go/validation"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"
)

// PhotoRepository хранит записи о фотографиях, а файлы - в хранилище фотографий.
type PhotoRepository struct {
	db    *sqlx.DB
	store photostore.PhotoStore
}

func NewPhotoRepository(db *sqlx.DB, store photostore.PhotoStore) *PhotoRepository {
	return &PhotoRepository{db: db, store: store}
}

// Store возвращает хранилище файлов фотографий.
func (r *PhotoRepository) Store() photostore.PhotoStore {
	return r.store
}

// AddPhotoToPlace сохраняет запись о фотографии, файл которой уже лежит по filePath.
// tripPlaceID задается для фотографий конкретного посещения.
func (r *PhotoRepository) AddPhotoToPlace(ctx context.Context, placeID, filePath string, tripPlaceID *string) (*models.PlacePhoto, error) {
	if !r.store.Supported() {
		return nil, fmt.Errorf("AddPhotoToPlace: %w", photostore.ErrUnsupported)
	}
	if err := validation.ValidateRequired(filePath, "filePath"); err != nil {
		return nil, err
	}
	photo := &models.PlacePhoto{
		ID:          NewID(),
		PlaceID:     placeID,
		TripPlaceID: normalizeOptional(tripPlaceID),
		FilePath:    filePath,
		CreatedAt:   Now(),
	}
	query := `INSERT INTO place_photos (` + photoColumns + `)
	          VALUES (:id, :placeId, :tripPlaceId, :filePath, :createdAt)`
	if _, err := r.db.NamedExecContext(ctx, query, photoToRow(photo)); err != nil {
		return nil, wrapStorage("AddPhotoToPlace", fmt.Errorf("ошибка вставки фотографии: %w", err))
	}
	log.Printf("Добавлена фотография с ID: %s для места %s", photo.ID, placeID)
	return photo, nil
}

// ImportPhoto копирует изображение в хранилище и сохраняет запись о нем.
// Если запись сохранить не удалось, скопированный файл удаляется.
func (r *PhotoRepository) ImportPhoto(ctx context.Context, placeID string, tripPlaceID *string, src io.Reader, ext string) (*models.PlacePhoto, error) {
	if !r.store.Supported() {
		return nil, fmt.Errorf("ImportPhoto: %w", photostore.ErrUnsupported)
	}
	path, err := r.store.Import(src, ext)
	if err != nil {
		return nil, fmt.Errorf("ImportPhoto: ошибка сохранения файла: %w", err)
	}
	photo, err := r.AddPhotoToPlace(ctx, placeID, path, tripPlaceID)
	if err != nil {
		if rmErr := r.store.Remove(path); rmErr != nil {
			log.Printf("ImportPhoto: не удалось удалить файл %s: %v", path, rmErr)
		}
		return nil, err
	}
	return photo, nil
}

// GetPhotoByID возвращает запись о фотографии или nil.
func (r *PhotoRepository) GetPhotoByID(ctx context.Context, id string) (*models.PlacePhoto, error) {
	var row photoRow
	err := r.db.GetContext(ctx, &row, `SELECT `+photoColumns+` FROM place_photos WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Не найдено
		}
		return nil, wrapStorage("GetPhotoByID", fmt.Errorf("ошибка получения фотографии ID %s: %w", id, err))
	}
	photo := row.toModel()
	return &photo, nil
}

// GetPhotosByPlaceID возвращает все фотографии места, новые первыми.
func (r *PhotoRepository) GetPhotosByPlaceID(ctx context.Context, placeID string) ([]models.PlacePhoto, error) {
	return r.listPhotos(ctx, "GetPhotosByPlaceID", `placeId = ?`, placeID)
}

// GetPhotosByTripPlaceID возвращает фотографии посещения, новые первыми.
func (r *PhotoRepository) GetPhotosByTripPlaceID(ctx context.Context, tripPlaceID string) ([]models.PlacePhoto, error) {
	return r.listPhotos(ctx, "GetPhotosByTripPlaceID", `tripPlaceId = ?`, tripPlaceID)
}

func (r *PhotoRepository) listPhotos(ctx context.Context, op, where string, arg string) ([]models.PlacePhoto, error) {
	photos := []models.PlacePhoto{}
	if !r.store.Supported() {
		return photos, nil
	}
	var rows []photoRow
	query := `SELECT ` + photoColumns + ` FROM place_photos WHERE ` + where + ` ORDER BY createdAt DESC, rowid DESC`
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, wrapStorage(op, fmt.Errorf("ошибка получения фотографий %s: %w", arg, err))
	}
	for _, row := range rows {
		photos = append(photos, row.toModel())
	}
	return photos, nil
}

// DeletePhoto удаляет запись о фотографии, затем ее файл (если он есть).
// Ошибка удаления файла только логируется.
func (r *PhotoRepository) DeletePhoto(ctx context.Context, id string) error {
	if !r.store.Supported() {
		return fmt.Errorf("DeletePhoto: %w", photostore.ErrUnsupported)
	}
	photo, err := r.GetPhotoByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return notFound("DeletePhoto", "фотография", id)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM place_photos WHERE id = ?`, id); err != nil {
		return wrapStorage("DeletePhoto", fmt.Errorf("ошибка удаления фотографии ID %s: %w", id, err))
	}
	if err := r.store.Remove(photo.FilePath); err != nil {
		log.Printf("DeletePhoto: не удалось удалить файл %s: %v", photo.FilePath, err)
	}
	log.Printf("Удалена фотография с ID: %s", id)
	return nil
}

// DeletePhotosByPlaceID удаляет все фотографии места по одной.
// Ошибка одной фотографии не останавливает удаление остальных.
func (r *PhotoRepository) DeletePhotosByPlaceID(ctx context.Context, placeID string) error {
	photos, err := r.GetPhotosByPlaceID(ctx, placeID)
	if err != nil {
		return err
	}
	return r.deleteAll(ctx, photos)
}

// DeletePhotosByTripPlaceID удаляет все фотографии посещения по одной.
func (r *PhotoRepository) DeletePhotosByTripPlaceID(ctx context.Context, tripPlaceID string) error {
	photos, err := r.GetPhotosByTripPlaceID(ctx, tripPlaceID)
	if err != nil {
		return err
	}
	return r.deleteAll(ctx, photos)
}

func (r *PhotoRepository) deleteAll(ctx context.Context, photos []models.PlacePhoto) error {
	var errs error
	for _, photo := range photos {
		errs = multierr.Append(errs, r.DeletePhoto(ctx, photo.ID))
	}
	return errs
}

// photoPaths возвращает пути файлов фотографий, подходящих под условие where.
// Вызывается до удаления записей, чтобы убрать файлы после фиксации транзакции.
func photoPaths(ctx context.Context, q sqlx.QueryerContext, where string, args ...interface{}) ([]string, error) {
	var paths []string
	if err := sqlx.SelectContext(ctx, q, &paths, `SELECT filePath FROM place_photos WHERE `+where, args...); err != nil {
		return nil, wrapStorage("photoPaths", fmt.Errorf("ошибка получения путей фотографий: %w", err))
	}
	return paths, nil
}
