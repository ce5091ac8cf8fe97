package data

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gonext_go/models"
	"gonext_go/validation"

	"github.com/jmoiron/sqlx"
)

// TripPlaceRepository хранит маршруты поездок: места, их порядок и отметки о посещении.
type TripPlaceRepository struct {
	db *sqlx.DB
}

func NewTripPlaceRepository(db *sqlx.DB) *TripPlaceRepository {
	return &TripPlaceRepository{db: db}
}

// AddPlaceToTrip добавляет место в маршрут с указанным порядком.
// Порядок должен быть положительным и не занятым в этой поездке.
func (r *TripPlaceRepository) AddPlaceToTrip(ctx context.Context, tripID, placeID string, order int) (*models.TripPlace, error) {
	if err := validation.ValidateOrder(order); err != nil {
		return nil, err
	}
	var created *models.TripPlace
	err := withTx(ctx, r.db, "AddPlaceToTrip", func(tx *sqlx.Tx) error {
		var used int
		err := tx.GetContext(ctx, &used, `SELECT COUNT(*) FROM trip_places WHERE tripId = ? AND "order" = ?`, tripID, order)
		if err != nil {
			return wrapStorage("AddPlaceToTrip", fmt.Errorf("ошибка проверки порядка: %w", err))
		}
		if used > 0 {
			return validation.NewError("order", fmt.Sprintf("Порядок %d уже занят в этой поездке", order))
		}
		created, err = insertTripPlace(ctx, tx, tripID, placeID, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Место %s добавлено в поездку %s (порядок %d)", placeID, tripID, order)
	return created, nil
}

// AppendPlaceToTrip добавляет место в конец маршрута.
func (r *TripPlaceRepository) AppendPlaceToTrip(ctx context.Context, tripID, placeID string) (*models.TripPlace, error) {
	var created *models.TripPlace
	err := withTx(ctx, r.db, "AppendPlaceToTrip", func(tx *sqlx.Tx) error {
		order, err := nextOrder(ctx, tx, tripID)
		if err != nil {
			return err
		}
		created, err = insertTripPlace(ctx, tx, tripID, placeID, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Место %s добавлено в конец поездки %s (порядок %d)", placeID, tripID, created.Order)
	return created, nil
}

func nextOrder(ctx context.Context, tx *sqlx.Tx, tripID string) (int, error) {
	var order int
	err := tx.GetContext(ctx, &order, `SELECT COALESCE(MAX("order"), 0) + 1 FROM trip_places WHERE tripId = ?`, tripID)
	if err != nil {
		return 0, wrapStorage("nextOrder", fmt.Errorf("ошибка вычисления порядка: %w", err))
	}
	return order, nil
}

func insertTripPlace(ctx context.Context, tx *sqlx.Tx, tripID, placeID string, order int) (*models.TripPlace, error) {
	tp := &models.TripPlace{
		ID:      NewID(),
		TripID:  tripID,
		PlaceID: placeID,
		Order:   order,
	}
	query := `INSERT INTO trip_places (` + tripPlaceColumns + `)
	          VALUES (:id, :tripId, :placeId, :order, :visited, :visitDate, :notes)`
	if _, err := tx.NamedExecContext(ctx, query, tripPlaceToRow(tp)); err != nil {
		return nil, wrapStorage("insertTripPlace", fmt.Errorf("ошибка вставки места в поездку: %w", err))
	}
	return tp, nil
}

// GetTripPlaces возвращает маршрут поездки по возрастанию порядка вместе с данными мест.
func (r *TripPlaceRepository) GetTripPlaces(ctx context.Context, tripID string) ([]models.TripPlaceWithPlace, error) {
	rows, err := listTripPlaceRows(ctx, r.db, tripID)
	if err != nil {
		return nil, err
	}
	result := make([]models.TripPlaceWithPlace, 0, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	placeIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		placeIDs = append(placeIDs, row.PlaceID)
	}
	query, args, err := sqlx.In(`SELECT `+placeColumns+` FROM places WHERE id IN (?)`, placeIDs)
	if err != nil {
		return nil, fmt.Errorf("GetTripPlaces: ошибка построения запроса для sqlx.In: %w", err)
	}
	var placeRows []placeRow
	if err := r.db.SelectContext(ctx, &placeRows, r.db.Rebind(query), args...); err != nil {
		return nil, wrapStorage("GetTripPlaces", fmt.Errorf("ошибка получения мест поездки %s: %w", tripID, err))
	}
	places := make(map[string]models.Place, len(placeRows))
	for _, row := range placeRows {
		places[row.ID] = row.toModel()
	}

	for _, row := range rows {
		place, ok := places[row.PlaceID]
		if !ok {
			return nil, notFound("GetTripPlaces", "место", row.PlaceID)
		}
		result = append(result, models.TripPlaceWithPlace{TripPlace: row.toModel(), Place: place})
	}
	return result, nil
}

func listTripPlaceRows(ctx context.Context, q sqlx.QueryerContext, tripID string) ([]tripPlaceRow, error) {
	var rows []tripPlaceRow
	query := `SELECT ` + tripPlaceColumns + ` FROM trip_places WHERE tripId = ? ORDER BY "order" ASC, rowid ASC`
	if err := sqlx.SelectContext(ctx, q, &rows, query, tripID); err != nil {
		return nil, wrapStorage("listTripPlaces", fmt.Errorf("ошибка получения маршрута поездки %s: %w", tripID, err))
	}
	return rows, nil
}

// GetTripPlaceByID возвращает место в поездке или nil, если его нет.
func (r *TripPlaceRepository) GetTripPlaceByID(ctx context.Context, id string) (*models.TripPlace, error) {
	return getTripPlace(ctx, r.db, id)
}

func getTripPlace(ctx context.Context, q sqlx.QueryerContext, id string) (*models.TripPlace, error) {
	var row tripPlaceRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT `+tripPlaceColumns+` FROM trip_places WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Не найдено
		}
		return nil, wrapStorage("GetTripPlaceByID", fmt.Errorf("ошибка получения места в поездке ID %s: %w", id, err))
	}
	tp := row.toModel()
	return &tp, nil
}

// UpdateTripPlace применяет переданные поля к месту в поездке.
// Непосещенное место не хранит дату посещения, у посещенного она по умолчанию текущая дата.
func (r *TripPlaceRepository) UpdateTripPlace(ctx context.Context, id string, upd models.TripPlaceUpdate) (*models.TripPlace, error) {
	var updated *models.TripPlace
	err := withTx(ctx, r.db, "UpdateTripPlace", func(tx *sqlx.Tx) error {
		tp, err := getTripPlace(ctx, tx, id)
		if err != nil {
			return err
		}
		if tp == nil {
			return notFound("UpdateTripPlace", "место в поездке", id)
		}

		if upd.Order != nil && *upd.Order != tp.Order {
			if err := validation.ValidateOrder(*upd.Order); err != nil {
				return err
			}
			var used int
			err := tx.GetContext(ctx, &used,
				`SELECT COUNT(*) FROM trip_places WHERE tripId = ? AND "order" = ? AND id != ?`, tp.TripID, *upd.Order, id)
			if err != nil {
				return wrapStorage("UpdateTripPlace", fmt.Errorf("ошибка проверки порядка: %w", err))
			}
			if used > 0 {
				return validation.NewError("order", fmt.Sprintf("Порядок %d уже занят в этой поездке", *upd.Order))
			}
			tp.Order = *upd.Order
		}
		if upd.Visited != nil {
			tp.Visited = *upd.Visited
		}
		if upd.VisitDate.Set {
			tp.VisitDate = normalizeOptional(upd.VisitDate.Value)
		}
		if upd.Notes.Set {
			tp.Notes = normalizeOptional(upd.Notes.Value)
		}

		if !tp.Visited {
			tp.VisitDate = nil
		} else if tp.VisitDate == nil {
			today := Today()
			tp.VisitDate = &today
		}
		if err := validation.ValidateVisitDate(deref(tp.VisitDate)); err != nil {
			return err
		}
		if err := validation.ValidateNotes(tp.Notes); err != nil {
			return err
		}

		query := `UPDATE trip_places SET
		            "order" = :order, visited = :visited, visitDate = :visitDate, notes = :notes
		          WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, tripPlaceToRow(tp)); err != nil {
			return wrapStorage("UpdateTripPlace", fmt.Errorf("ошибка обновления места в поездке ID %s: %w", id, err))
		}
		updated = tp
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Обновлено место в поездке с ID: %s", id)
	return updated, nil
}

// UpdateTripPlacesOrder назначает новые порядковые номера в одной транзакции.
// Повторяющиеся номера в итоговом маршруте не допускаются.
func (r *TripPlaceRepository) UpdateTripPlacesOrder(ctx context.Context, tripID string, items []models.OrderAssignment) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := validation.ValidateOrder(item.Order); err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return validation.NewError("id", fmt.Sprintf("Место %s указано несколько раз", item.ID))
		}
		seen[item.ID] = struct{}{}
	}

	err := withTx(ctx, r.db, "UpdateTripPlacesOrder", func(tx *sqlx.Tx) error {
		for _, item := range items {
			result, err := tx.ExecContext(ctx,
				`UPDATE trip_places SET "order" = ? WHERE id = ? AND tripId = ?`, item.Order, item.ID, tripID)
			if err != nil {
				return wrapStorage("UpdateTripPlacesOrder", fmt.Errorf("ошибка обновления порядка ID %s: %w", item.ID, err))
			}
			if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
				return notFound("UpdateTripPlacesOrder", "место в поездке", item.ID)
			}
		}

		var duplicates int
		err := tx.GetContext(ctx, &duplicates, `SELECT COUNT(*) FROM (
		    SELECT "order" FROM trip_places WHERE tripId = ? GROUP BY "order" HAVING COUNT(*) > 1
		)`, tripID)
		if err != nil {
			return wrapStorage("UpdateTripPlacesOrder", fmt.Errorf("ошибка проверки порядка: %w", err))
		}
		if duplicates > 0 {
			return validation.NewError("order", "Порядковые номера мест в поездке не должны повторяться")
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("Обновлен порядок %d мест в поездке %s", len(items), tripID)
	return nil
}

// MoveTripPlace меняет место с соседним и перенумеровывает маршрут с 1.
// Перемещение за край маршрута ничего не меняет.
func (r *TripPlaceRepository) MoveTripPlace(ctx context.Context, tripID, id string, direction models.MoveDirection) error {
	var step int
	switch direction {
	case models.MoveUp:
		step = -1
	case models.MoveDown:
		step = 1
	default:
		return validation.NewError("direction", fmt.Sprintf("Неизвестное направление: %q", direction))
	}

	rows, err := listTripPlaceRows(ctx, r.db, tripID)
	if err != nil {
		return err
	}
	index := -1
	for i, row := range rows {
		if row.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return notFound("MoveTripPlace", "место в поездке", id)
	}
	target := index + step
	if target < 0 || target >= len(rows) {
		return nil
	}

	rows[index], rows[target] = rows[target], rows[index]
	items := make([]models.OrderAssignment, 0, len(rows))
	for i, row := range rows {
		items = append(items, models.OrderAssignment{ID: row.ID, Order: i + 1})
	}
	return r.UpdateTripPlacesOrder(ctx, tripID, items)
}

// SyncTripPlaces приводит маршрут к списку мест: лишние удаляются,
// новые добавляются в конец в порядке списка.
func (r *TripPlaceRepository) SyncTripPlaces(ctx context.Context, tripID string, placeIDs []string) error {
	return withTx(ctx, r.db, "SyncTripPlaces", func(tx *sqlx.Tx) error {
		return syncTripPlaces(ctx, tx, tripID, placeIDs)
	})
}

func syncTripPlaces(ctx context.Context, tx *sqlx.Tx, tripID string, placeIDs []string) error {
	wanted := make(map[string]struct{}, len(placeIDs))
	for _, id := range placeIDs {
		wanted[id] = struct{}{}
	}

	rows, err := listTripPlaceRows(ctx, tx, tripID)
	if err != nil {
		return err
	}
	var removed, added int
	present := make(map[string]struct{}, len(rows))
	maxOrder := 0
	for _, row := range rows {
		present[row.PlaceID] = struct{}{}
		if row.Order > maxOrder {
			maxOrder = row.Order
		}
		if _, ok := wanted[row.PlaceID]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM trip_places WHERE id = ?`, row.ID); err != nil {
			return wrapStorage("SyncTripPlaces", fmt.Errorf("ошибка удаления места из поездки ID %s: %w", row.ID, err))
		}
		removed++
	}

	for _, placeID := range placeIDs {
		if _, ok := present[placeID]; ok {
			continue
		}
		maxOrder++
		if _, err := insertTripPlace(ctx, tx, tripID, placeID, maxOrder); err != nil {
			return err
		}
		present[placeID] = struct{}{}
		added++
	}
	log.Printf("Синхронизирован маршрут поездки %s: добавлено %d, удалено %d", tripID, added, removed)
	return nil
}

// droppedTripPlaceIDs возвращает ID мест маршрута, которых нет в placeIDs.
func droppedTripPlaceIDs(ctx context.Context, q sqlx.QueryerContext, tripID string, placeIDs []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(placeIDs))
	for _, id := range placeIDs {
		wanted[id] = struct{}{}
	}
	rows, err := listTripPlaceRows(ctx, q, tripID)
	if err != nil {
		return nil, err
	}
	var dropped []string
	for _, row := range rows {
		if _, ok := wanted[row.PlaceID]; !ok {
			dropped = append(dropped, row.ID)
		}
	}
	return dropped, nil
}

// MarkAsVisited отмечает место посещенным. Без visitDate используется текущая дата.
// Заметки перезаписываются, только если переданы.
func (r *TripPlaceRepository) MarkAsVisited(ctx context.Context, id string, visitDate, notes *string) (*models.TripPlace, error) {
	visited := true
	upd := models.TripPlaceUpdate{Visited: &visited}
	if date := normalizeOptional(visitDate); date != nil {
		if err := validation.ValidateVisitDate(*date); err != nil {
			return nil, err
		}
		upd.VisitDate = models.SetString(*date)
	} else {
		upd.VisitDate = models.SetString(Today())
	}
	if notes != nil {
		upd.Notes = models.SetString(*notes)
	}
	return r.UpdateTripPlace(ctx, id, upd)
}

// MarkAsNotVisited снимает отметку о посещении и дату. Заметки сохраняются.
func (r *TripPlaceRepository) MarkAsNotVisited(ctx context.Context, id string) (*models.TripPlace, error) {
	visited := false
	return r.UpdateTripPlace(ctx, id, models.TripPlaceUpdate{Visited: &visited, VisitDate: models.ClearString()})
}

// GetNextPlace возвращает первое непосещенное место маршрута или nil.
func (r *TripPlaceRepository) GetNextPlace(ctx context.Context, tripID string) (*models.TripPlaceWithPlace, error) {
	places, err := r.GetTripPlaces(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for i := range places {
		if !places[i].Visited {
			return &places[i], nil
		}
	}
	return nil, nil
}

// GetTripProgress возвращает количество мест поездки и сколько из них посещено.
func (r *TripPlaceRepository) GetTripProgress(ctx context.Context, tripID string) (models.TripProgress, error) {
	var progress models.TripProgress
	err := r.db.QueryRowxContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(visited), 0) FROM trip_places WHERE tripId = ?`, tripID).
		Scan(&progress.Total, &progress.Visited)
	if err != nil {
		return models.TripProgress{}, wrapStorage("GetTripProgress", fmt.Errorf("ошибка подсчета прогресса поездки %s: %w", tripID, err))
	}
	return progress, nil
}

// RemovePlaceFromTrip удаляет место из маршрута. Само место не удаляется.
func (r *TripPlaceRepository) RemovePlaceFromTrip(ctx context.Context, id string) error {
	return removeTripPlace(ctx, r.db, id)
}

func removeTripPlace(ctx context.Context, e sqlx.ExecerContext, id string) error {
	result, err := e.ExecContext(ctx, `DELETE FROM trip_places WHERE id = ?`, id)
	if err != nil {
		return wrapStorage("RemovePlaceFromTrip", fmt.Errorf("ошибка удаления места из поездки ID %s: %w", id, err))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("RemovePlaceFromTrip", "место в поездке", id)
	}
	log.Printf("Удалено место из поездки, ID: %s", id)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
