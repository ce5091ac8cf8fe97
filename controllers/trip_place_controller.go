package controllers

import (
	"net/http"

	"gonext_go/models"

	"github.com/gorilla/mux"
)

// GetTripPlaceHandler возвращает место в поездке вместе с данными места.
// GET /api/trip-places/{id}
func (h *Handler) GetTripPlaceHandler(w http.ResponseWriter, r *http.Request) {
	tp, ok := h.loadTripPlace(w, r)
	if !ok {
		return
	}
	place, err := h.journal.Places.GetPlaceByID(r.Context(), tp.PlaceID)
	if err != nil {
		respondFailure(w, "GetTripPlaceHandler", err)
		return
	}
	if place == nil {
		respondError(w, http.StatusNotFound, "Место не найдено")
		return
	}
	respondJSON(w, http.StatusOK, models.TripPlaceWithPlace{TripPlace: *tp, Place: *place})
}

func (h *Handler) loadTripPlace(w http.ResponseWriter, r *http.Request) (*models.TripPlace, bool) {
	tp, err := h.journal.TripPlaces.GetTripPlaceByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondFailure(w, "loadTripPlace", err)
		return nil, false
	}
	if tp == nil {
		respondError(w, http.StatusNotFound, "Место в поездке не найдено")
		return nil, false
	}
	return tp, true
}

// UpdateTripPlaceHandler частично обновляет место в поездке (порядок, отметка, дата, заметки).
// PATCH /api/trip-places/{id}
func (h *Handler) UpdateTripPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var req models.TripPlaceUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	tp, err := h.journal.TripPlaces.UpdateTripPlace(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondFailure(w, "UpdateTripPlaceHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, tp)
}

// RemoveTripPlaceHandler убирает место из маршрута вместе с фотографиями посещения.
// DELETE /api/trip-places/{id}
func (h *Handler) RemoveTripPlaceHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.RemoveTripPlace(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondFailure(w, "RemoveTripPlaceHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// visitRequest - данные посещения. Оба поля необязательны.
type visitRequest struct {
	VisitDate *string `json:"visitDate"`
	Notes     *string `json:"notes"`
}

// MarkVisitedHandler отмечает место посещенным.
// POST /api/trip-places/{id}/visit
func (h *Handler) MarkVisitedHandler(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	tp, err := h.journal.TripPlaces.MarkAsVisited(r.Context(), mux.Vars(r)["id"], req.VisitDate, req.Notes)
	if err != nil {
		respondFailure(w, "MarkVisitedHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, tp)
}

// MarkNotVisitedHandler снимает отметку о посещении.
// DELETE /api/trip-places/{id}/visit
func (h *Handler) MarkNotVisitedHandler(w http.ResponseWriter, r *http.Request) {
	tp, err := h.journal.TripPlaces.MarkAsNotVisited(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondFailure(w, "MarkNotVisitedHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, tp)
}

// ListVisitPhotosHandler возвращает фотографии посещения.
// GET /api/trip-places/{id}/photos
func (h *Handler) ListVisitPhotosHandler(w http.ResponseWriter, r *http.Request) {
	photos, err := h.journal.Photos.GetPhotosByTripPlaceID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondFailure(w, "ListVisitPhotosHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, h.photoViews(photos))
}

// AddVisitPhotoHandler добавляет фотографию посещения; она же попадает в фотографии места.
// POST /api/trip-places/{id}/photos
func (h *Handler) AddVisitPhotoHandler(w http.ResponseWriter, r *http.Request) {
	tp, ok := h.loadTripPlace(w, r)
	if !ok {
		return
	}
	h.savePhoto(w, r, tp.PlaceID, &tp.ID)
}
