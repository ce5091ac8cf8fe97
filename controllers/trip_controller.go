package controllers

import (
	"bytes"
	"log"
	"net/http"

	"gonext_go/export"
	"gonext_go/models"

	"github.com/gorilla/mux"
)

// ListTripsHandler возвращает поездки с прогрессом: текущая первой.
// GET /api/trips
func (h *Handler) ListTripsHandler(w http.ResponseWriter, r *http.Request) {
	trips, err := h.journal.ListTripsWithProgress(r.Context())
	if err != nil {
		respondFailure(w, "ListTripsHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, trips)
}

// CreateTripHandler создает поездку; placeIds (необязательно) становятся маршрутом.
// POST /api/trips
func (h *Handler) CreateTripHandler(w http.ResponseWriter, r *http.Request) {
	var req models.TripInput
	if !decodeJSON(w, r, &req) {
		return
	}
	trip, err := h.journal.CreateTrip(r.Context(), req)
	if err != nil {
		respondFailure(w, "CreateTripHandler", err)
		return
	}
	respondJSON(w, http.StatusCreated, trip)
}

// GetCurrentTripHandler возвращает текущую поездку или null.
// GET /api/trips/current
func (h *Handler) GetCurrentTripHandler(w http.ResponseWriter, r *http.Request) {
	trip, err := h.journal.Trips.GetCurrentTrip(r.Context())
	if err != nil {
		respondFailure(w, "GetCurrentTripHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

// GetTripHandler возвращает поездку по ID.
// GET /api/trips/{id}
func (h *Handler) GetTripHandler(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

func (h *Handler) loadTrip(w http.ResponseWriter, r *http.Request) (*models.Trip, bool) {
	trip, err := h.journal.Trips.GetTripByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondFailure(w, "loadTrip", err)
		return nil, false
	}
	if trip == nil {
		respondError(w, http.StatusNotFound, "Поездка не найдена")
		return nil, false
	}
	return trip, true
}

// UpdateTripHandler частично обновляет поездку.
// PATCH /api/trips/{id}
func (h *Handler) UpdateTripHandler(w http.ResponseWriter, r *http.Request) {
	var req models.TripUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	trip, err := h.journal.Trips.UpdateTrip(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondFailure(w, "UpdateTripHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

// DeleteTripHandler удаляет поездку и фотографии ее посещений. Места остаются.
// DELETE /api/trips/{id}
func (h *Handler) DeleteTripHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.DeleteTrip(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondFailure(w, "DeleteTripHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTripPlacesHandler возвращает маршрут поездки.
// GET /api/trips/{id}/places
func (h *Handler) ListTripPlacesHandler(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	entries, err := h.journal.TripPlaces.GetTripPlaces(r.Context(), trip.ID)
	if err != nil {
		respondFailure(w, "ListTripPlacesHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// addTripPlaceRequest - место для маршрута. Без order место добавляется в конец.
type addTripPlaceRequest struct {
	PlaceID string `json:"placeId"`
	Order   *int   `json:"order"`
}

// AddTripPlaceHandler добавляет место в маршрут.
// POST /api/trips/{id}/places
func (h *Handler) AddTripPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var req addTripPlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tripID := mux.Vars(r)["id"]

	var (
		tp  *models.TripPlace
		err error
	)
	if req.Order != nil {
		tp, err = h.journal.TripPlaces.AddPlaceToTrip(r.Context(), tripID, req.PlaceID, *req.Order)
	} else {
		tp, err = h.journal.TripPlaces.AppendPlaceToTrip(r.Context(), tripID, req.PlaceID)
	}
	if err != nil {
		respondFailure(w, "AddTripPlaceHandler", err)
		return
	}
	respondJSON(w, http.StatusCreated, tp)
}

// syncTripPlacesRequest - полный список мест маршрута в нужном порядке.
type syncTripPlacesRequest struct {
	PlaceIDs []string `json:"placeIds"`
}

// SyncTripPlacesHandler приводит маршрут к списку мест.
// PUT /api/trips/{id}/places
func (h *Handler) SyncTripPlacesHandler(w http.ResponseWriter, r *http.Request) {
	var req syncTripPlacesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tripID := mux.Vars(r)["id"]
	if err := h.journal.SyncTripPlaces(r.Context(), tripID, req.PlaceIDs); err != nil {
		respondFailure(w, "SyncTripPlacesHandler", err)
		return
	}
	entries, err := h.journal.TripPlaces.GetTripPlaces(r.Context(), tripID)
	if err != nil {
		respondFailure(w, "SyncTripPlacesHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// UpdateTripOrderHandler назначает новые номера мест маршрута.
// PUT /api/trips/{id}/order
func (h *Handler) UpdateTripOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req []models.OrderAssignment
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.journal.TripPlaces.UpdateTripPlacesOrder(r.Context(), mux.Vars(r)["id"], req); err != nil {
		respondFailure(w, "UpdateTripOrderHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// moveRequest - направление перемещения: "up" или "down".
type moveRequest struct {
	Direction models.MoveDirection `json:"direction"`
}

// MoveTripPlaceHandler перемещает место на одну позицию вверх или вниз.
// POST /api/trips/{id}/places/{tripPlaceId}/move
func (h *Handler) MoveTripPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := h.journal.TripPlaces.MoveTripPlace(r.Context(), vars["id"], vars["tripPlaceId"], req.Direction); err != nil {
		respondFailure(w, "MoveTripPlaceHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TripNextPlaceHandler возвращает первое непосещенное место поездки или null.
// GET /api/trips/{id}/next
func (h *Handler) TripNextPlaceHandler(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	next, err := h.journal.TripPlaces.GetNextPlace(r.Context(), trip.ID)
	if err != nil {
		respondFailure(w, "TripNextPlaceHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, next)
}

// ExportItineraryHandler отдает маршрут поездки в XLSX.
// GET /api/trips/{id}/itinerary.xlsx
func (h *Handler) ExportItineraryHandler(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	entries, err := h.journal.TripPlaces.GetTripPlaces(r.Context(), trip.ID)
	if err != nil {
		respondFailure(w, "ExportItineraryHandler", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteItinerary(&buf, *trip, entries); err != nil {
		respondFailure(w, "ExportItineraryHandler", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ItineraryFileName(*trip)+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("ExportItineraryHandler: ошибка отправки файла: %v", err)
	}
}
