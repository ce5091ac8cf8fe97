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

// TripRepository хранит поездки. Текущей может быть не более одной поездки.
type TripRepository struct {
	db *sqlx.DB
}

func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// CreateTrip сохраняет поездку. Если она текущая, остальные поездки
// перестают быть текущими в той же транзакции.
func (r *TripRepository) CreateTrip(ctx context.Context, in models.TripInput) (*models.Trip, error) {
	trip, err := newTrip(in)
	if err != nil {
		return nil, err
	}
	err = withTx(ctx, r.db, "CreateTrip", func(tx *sqlx.Tx) error {
		return insertTrip(ctx, tx, trip)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Создана поездка с ID: %s", trip.ID)
	return trip, nil
}

// newTrip собирает и проверяет поездку, ничего не записывая.
func newTrip(in models.TripInput) (*models.Trip, error) {
	trip := &models.Trip{
		ID:          NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: normalizeOptional(in.Description),
		StartDate:   normalizeOptional(in.StartDate),
		EndDate:     normalizeOptional(in.EndDate),
		Current:     in.Current,
		CreatedAt:   Now(),
	}
	if err := validation.ValidateTrip(trip.Title, trip.Description, trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}
	return trip, nil
}

func insertTrip(ctx context.Context, tx *sqlx.Tx, trip *models.Trip) error {
	if trip.Current {
		if err := demoteCurrent(ctx, tx, trip.ID); err != nil {
			return err
		}
	}
	query := `INSERT INTO trips (` + tripColumns + `)
	          VALUES (:id, :title, :description, :startDate, :endDate, :current, :createdAt)`
	if _, err := tx.NamedExecContext(ctx, query, tripToRow(trip)); err != nil {
		return wrapStorage("CreateTrip", fmt.Errorf("ошибка вставки поездки: %w", err))
	}
	return nil
}

func demoteCurrent(ctx context.Context, tx *sqlx.Tx, exceptID string) error {
	_, err := tx.ExecContext(ctx, `UPDATE trips SET current = 0 WHERE current = 1 AND id != ?`, exceptID)
	if err != nil {
		return wrapStorage("demoteCurrent", fmt.Errorf("ошибка сброса текущей поездки: %w", err))
	}
	return nil
}

// GetTripByID возвращает поездку или nil, если ее нет.
func (r *TripRepository) GetTripByID(ctx context.Context, id string) (*models.Trip, error) {
	return getTrip(ctx, r.db, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
}

func getTrip(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (*models.Trip, error) {
	var row tripRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Не найдено
		}
		return nil, wrapStorage("GetTrip", fmt.Errorf("ошибка получения поездки: %w", err))
	}
	trip := row.toModel()
	return &trip, nil
}

// GetAllTrips возвращает все поездки, новые первыми.
func (r *TripRepository) GetAllTrips(ctx context.Context) ([]models.Trip, error) {
	var rows []tripRow
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY createdAt DESC, rowid DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, wrapStorage("GetAllTrips", fmt.Errorf("ошибка получения поездок: %w", err))
	}
	trips := make([]models.Trip, 0, len(rows))
	for _, row := range rows {
		trips = append(trips, row.toModel())
	}
	return trips, nil
}

// GetCurrentTrip возвращает текущую поездку или nil.
func (r *TripRepository) GetCurrentTrip(ctx context.Context) (*models.Trip, error) {
	return getTrip(ctx, r.db, `SELECT `+tripColumns+` FROM trips WHERE current = 1 ORDER BY createdAt DESC LIMIT 1`)
}

// UpdateTrip применяет переданные поля к сохраненной поездке.
func (r *TripRepository) UpdateTrip(ctx context.Context, id string, upd models.TripUpdate) (*models.Trip, error) {
	var updated *models.Trip
	err := withTx(ctx, r.db, "UpdateTrip", func(tx *sqlx.Tx) error {
		trip, err := getTrip(ctx, tx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if trip == nil {
			return notFound("UpdateTrip", "поездка", id)
		}

		if upd.Title != nil {
			trip.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Description.Set {
			trip.Description = normalizeOptional(upd.Description.Value)
		}
		if upd.StartDate.Set {
			trip.StartDate = normalizeOptional(upd.StartDate.Value)
		}
		if upd.EndDate.Set {
			trip.EndDate = normalizeOptional(upd.EndDate.Value)
		}
		if upd.Current != nil {
			trip.Current = *upd.Current
		}
		if err := validation.ValidateTrip(trip.Title, trip.Description, trip.StartDate, trip.EndDate); err != nil {
			return err
		}

		if trip.Current {
			if err := demoteCurrent(ctx, tx, trip.ID); err != nil {
				return err
			}
		}
		query := `UPDATE trips SET
		            title = :title, description = :description, startDate = :startDate,
		            endDate = :endDate, current = :current
		          WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, tripToRow(trip)); err != nil {
			return wrapStorage("UpdateTrip", fmt.Errorf("ошибка обновления поездки ID %s: %w", id, err))
		}
		updated = trip
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Обновлена поездка с ID: %s", id)
	return updated, nil
}

// DeleteTrip удаляет поездку вместе с ее маршрутом (каскадно).
func (r *TripRepository) DeleteTrip(ctx context.Context, id string) error {
	return deleteTrip(ctx, r.db, id)
}

func deleteTrip(ctx context.Context, e sqlx.ExecerContext, id string) error {
	result, err := e.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return wrapStorage("DeleteTrip", fmt.Errorf("ошибка удаления поездки ID %s: %w", id, err))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("DeleteTrip", "поездка", id)
	}
	log.Printf("Удалена поездка с ID: %s", id)
	return nil
}

// CountTrips возвращает количество поездок.
func (r *TripRepository) CountTrips(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM trips`); err != nil {
		return 0, wrapStorage("CountTrips", fmt.Errorf("ошибка подсчета поездок: %w", err))
	}
	return count, nil
}
