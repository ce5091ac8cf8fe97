package data

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"gonext_go/models"
	"gonext_go/validation"

	"github.com/jmoiron/sqlx"
)

// PlaceRepository хранит места журнала.
type PlaceRepository struct {
	db *sqlx.DB
}

func NewPlaceRepository(db *sqlx.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// CreatePlace проверяет и сохраняет новое место.
func (r *PlaceRepository) CreatePlace(ctx context.Context, in models.PlaceInput) (*models.Place, error) {
	place := &models.Place{
		ID:          NewID(),
		Name:        strings.TrimSpace(in.Name),
		Description: normalizeOptional(in.Description),
		VisitLater:  in.VisitLater,
		Liked:       in.Liked,
		DD:          normalizeOptional(in.DD),
		CreatedAt:   Now(),
	}
	if err := validation.ValidatePlace(place.Name, place.Description, place.DD); err != nil {
		return nil, err
	}

	query := `INSERT INTO places (` + placeColumns + `)
	          VALUES (:id, :name, :description, :visitlater, :liked, :dd, :createdAt)`
	if _, err := r.db.NamedExecContext(ctx, query, placeToRow(place)); err != nil {
		return nil, wrapStorage("CreatePlace", fmt.Errorf("ошибка вставки места: %w", err))
	}
	log.Printf("Создано место с ID: %s", place.ID)
	return place, nil
}

// GetPlaceByID возвращает место или nil, если его нет.
func (r *PlaceRepository) GetPlaceByID(ctx context.Context, id string) (*models.Place, error) {
	return getPlace(ctx, r.db, id)
}

func getPlace(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Place, error) {
	var row placeRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Не найдено
		}
		return nil, wrapStorage("GetPlaceByID", fmt.Errorf("ошибка получения места ID %s: %w", id, err))
	}
	place := row.toModel()
	return &place, nil
}

// GetAllPlaces возвращает все места, новые первыми.
func (r *PlaceRepository) GetAllPlaces(ctx context.Context) ([]models.Place, error) {
	return r.GetPlaces(ctx, models.PlaceFilter{})
}

// GetPlaces возвращает места, подходящие под фильтр, новые первыми.
func (r *PlaceRepository) GetPlaces(ctx context.Context, filter models.PlaceFilter) ([]models.Place, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.VisitLater != nil {
		conditions = append(conditions, "visitlater = ?")
		args = append(args, boolToInt(*filter.VisitLater))
	}
	if filter.Liked != nil {
		conditions = append(conditions, "liked = ?")
		args = append(args, boolToInt(*filter.Liked))
	}

	query := `SELECT ` + placeColumns + ` FROM places`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY createdAt DESC, rowid DESC`

	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapStorage("GetPlaces", fmt.Errorf("ошибка получения мест: %w", err))
	}

	// LOWER в SQLite работает только с ASCII, поэтому поиск по названию выполняется здесь.
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	places := make([]models.Place, 0, len(rows))
	for _, row := range rows {
		if search != "" && !strings.Contains(strings.ToLower(row.Name), search) {
			continue
		}
		places = append(places, row.toModel())
	}
	return places, nil
}

// UpdatePlace применяет переданные поля к сохраненному месту.
func (r *PlaceRepository) UpdatePlace(ctx context.Context, id string, upd models.PlaceUpdate) (*models.Place, error) {
	var updated *models.Place
	err := withTx(ctx, r.db, "UpdatePlace", func(tx *sqlx.Tx) error {
		place, err := getPlace(ctx, tx, id)
		if err != nil {
			return err
		}
		if place == nil {
			return notFound("UpdatePlace", "место", id)
		}

		if upd.Name != nil {
			place.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Description.Set {
			place.Description = normalizeOptional(upd.Description.Value)
		}
		if upd.VisitLater != nil {
			place.VisitLater = *upd.VisitLater
		}
		if upd.Liked != nil {
			place.Liked = *upd.Liked
		}
		if upd.DD.Set {
			place.DD = normalizeOptional(upd.DD.Value)
		}
		if err := validation.ValidatePlace(place.Name, place.Description, place.DD); err != nil {
			return err
		}

		query := `UPDATE places SET
		            name = :name, description = :description, visitlater = :visitlater, liked = :liked, dd = :dd
		          WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, placeToRow(place)); err != nil {
			return wrapStorage("UpdatePlace", fmt.Errorf("ошибка обновления места ID %s: %w", id, err))
		}
		updated = place
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Обновлено место с ID: %s", id)
	return updated, nil
}

// DeletePlace удаляет место. Записи маршрутов и фотографий удаляются каскадно.
func (r *PlaceRepository) DeletePlace(ctx context.Context, id string) error {
	return deletePlace(ctx, r.db, id)
}

func deletePlace(ctx context.Context, e sqlx.ExecerContext, id string) error {
	result, err := e.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, id)
	if err != nil {
		return wrapStorage("DeletePlace", fmt.Errorf("ошибка удаления места ID %s: %w", id, err))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("DeletePlace", "место", id)
	}
	log.Printf("Удалено место с ID: %s", id)
	return nil
}

// CountPlaces возвращает количество мест.
func (r *PlaceRepository) CountPlaces(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM places`); err != nil {
		return 0, wrapStorage("CountPlaces", fmt.Errorf("ошибка подсчета мест: %w", err))
	}
	return count, nil
}
