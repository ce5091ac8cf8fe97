package data

import (
	"database/sql"

	"gonext_go/models"
)

// Строки таблиц в том виде, в котором их хранит SQLite: булевы значения как 0/1,
// необязательные строки как NULL. Наружу пакета выходят только модели.

const placeColumns = `id, name, description, visitlater, liked, dd, createdAt`

type placeRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	VisitLater  int            `db:"visitlater"`
	Liked       int            `db:"liked"`
	DD          sql.NullString `db:"dd"`
	CreatedAt   string         `db:"createdAt"`
}

func placeToRow(p *models.Place) placeRow {
	return placeRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: toNullString(p.Description),
		VisitLater:  boolToInt(p.VisitLater),
		Liked:       boolToInt(p.Liked),
		DD:          toNullString(p.DD),
		CreatedAt:   p.CreatedAt,
	}
}

func (r placeRow) toModel() models.Place {
	return models.Place{
		ID:          r.ID,
		Name:        r.Name,
		Description: fromNullString(r.Description),
		VisitLater:  r.VisitLater == 1,
		Liked:       r.Liked == 1,
		DD:          fromNullString(r.DD),
		CreatedAt:   r.CreatedAt,
	}
}

const tripColumns = `id, title, description, startDate, endDate, current, createdAt`

type tripRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	StartDate   sql.NullString `db:"startDate"`
	EndDate     sql.NullString `db:"endDate"`
	Current     int            `db:"current"`
	CreatedAt   string         `db:"createdAt"`
}

func tripToRow(t *models.Trip) tripRow {
	return tripRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: toNullString(t.Description),
		StartDate:   toNullString(t.StartDate),
		EndDate:     toNullString(t.EndDate),
		Current:     boolToInt(t.Current),
		CreatedAt:   t.CreatedAt,
	}
}

func (r tripRow) toModel() models.Trip {
	return models.Trip{
		ID:          r.ID,
		Title:       r.Title,
		Description: fromNullString(r.Description),
		StartDate:   fromNullString(r.StartDate),
		EndDate:     fromNullString(r.EndDate),
		Current:     r.Current == 1,
		CreatedAt:   r.CreatedAt,
	}
}

const tripPlaceColumns = `id, tripId, placeId, "order", visited, visitDate, notes`

type tripPlaceRow struct {
	ID        string         `db:"id"`
	TripID    string         `db:"tripId"`
	PlaceID   string         `db:"placeId"`
	Order     int            `db:"order"`
	Visited   int            `db:"visited"`
	VisitDate sql.NullString `db:"visitDate"`
	Notes     sql.NullString `db:"notes"`
}

func tripPlaceToRow(tp *models.TripPlace) tripPlaceRow {
	return tripPlaceRow{
		ID:        tp.ID,
		TripID:    tp.TripID,
		PlaceID:   tp.PlaceID,
		Order:     tp.Order,
		Visited:   boolToInt(tp.Visited),
		VisitDate: toNullString(tp.VisitDate),
		Notes:     toNullString(tp.Notes),
	}
}

func (r tripPlaceRow) toModel() models.TripPlace {
	return models.TripPlace{
		ID:        r.ID,
		TripID:    r.TripID,
		PlaceID:   r.PlaceID,
		Order:     r.Order,
		Visited:   r.Visited == 1,
		VisitDate: fromNullString(r.VisitDate),
		Notes:     fromNullString(r.Notes),
	}
}

const photoColumns = `id, placeId, tripPlaceId, filePath, createdAt`

type photoRow struct {
	ID          string         `db:"id"`
	PlaceID     string         `db:"placeId"`
	TripPlaceID sql.NullString `db:"tripPlaceId"`
	FilePath    string         `db:"filePath"`
	CreatedAt   string         `db:"createdAt"`
}

func photoToRow(p *models.PlacePhoto) photoRow {
	return photoRow{
		ID:          p.ID,
		PlaceID:     p.PlaceID,
		TripPlaceID: toNullString(p.TripPlaceID),
		FilePath:    p.FilePath,
		CreatedAt:   p.CreatedAt,
	}
}

func (r photoRow) toModel() models.PlacePhoto {
	return models.PlacePhoto{
		ID:          r.ID,
		PlaceID:     r.PlaceID,
		TripPlaceID: fromNullString(r.TripPlaceID),
		FilePath:    r.FilePath,
		CreatedAt:   r.CreatedAt,
	}
}
