package controllers

import (
	"net/http"
	"strconv"

	"gonext_go/export"
	"gonext_go/models"

	"github.com/gorilla/mux"
)

const maxImportSize = 10 * 1024 * 1024 // 10 MB

// ListPlacesHandler возвращает места. Фильтры: ?visitlater=true|false, ?liked=true|false, ?q=подстрока.
// GET /api/places
func (h *Handler) ListPlacesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.PlaceFilter{Search: query.Get("q")}

	var ok bool
	if filter.VisitLater, ok = parseBoolParam(w, query.Get("visitlater"), "visitlater"); !ok {
		return
	}
	if filter.Liked, ok = parseBoolParam(w, query.Get("liked"), "liked"); !ok {
		return
	}

	places, err := h.journal.Places.GetPlaces(r.Context(), filter)
	if err != nil {
		respondFailure(w, "ListPlacesHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, places)
}

func parseBoolParam(w http.ResponseWriter, value, name string) (*bool, bool) {
	if value == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Неверное значение параметра "+name)
		return nil, false
	}
	return &b, true
}

// CreatePlaceHandler создает место.
// POST /api/places
func (h *Handler) CreatePlaceHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceInput
	if !decodeJSON(w, r, &req) {
		return
	}
	place, err := h.journal.Places.CreatePlace(r.Context(), req)
	if err != nil {
		respondFailure(w, "CreatePlaceHandler", err)
		return
	}
	respondJSON(w, http.StatusCreated, place)
}

// GetPlaceHandler возвращает место по ID.
// GET /api/places/{id}
func (h *Handler) GetPlaceHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	place, err := h.journal.Places.GetPlaceByID(r.Context(), id)
	if err != nil {
		respondFailure(w, "GetPlaceHandler", err)
		return
	}
	if place == nil {
		respondError(w, http.StatusNotFound, "Место не найдено")
		return
	}
	respondJSON(w, http.StatusOK, place)
}

// UpdatePlaceHandler частично обновляет место.
// PATCH /api/places/{id}
func (h *Handler) UpdatePlaceHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	place, err := h.journal.Places.UpdatePlace(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondFailure(w, "UpdatePlaceHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, place)
}

// DeletePlaceHandler удаляет место вместе с фотографиями и участием в поездках.
// DELETE /api/places/{id}
func (h *Handler) DeletePlaceHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.DeletePlace(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondFailure(w, "DeletePlaceHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// importResult - итог импорта мест из XLSX.
type importResult struct {
	Created []models.Place    `json:"created"`
	Errors  map[string]string `json:"errors,omitempty"` // номер строки листа -> сообщение
}

// ImportPlacesHandler создает места из загруженного XLSX (поле формы "file").
// Строки с ошибками пропускаются и перечисляются в ответе.
// POST /api/places/import
func (h *Handler) ImportPlacesHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, http.StatusBadRequest, "Не удалось обработать multipart form: "+err.Error())
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Не удалось получить файл из запроса: "+err.Error())
		return
	}
	defer file.Close()

	rows, err := export.ReadPlaces(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := importResult{Created: []models.Place{}, Errors: map[string]string{}}
	for _, row := range rows {
		place, err := h.journal.Places.CreatePlace(r.Context(), row.Input)
		if err != nil {
			result.Errors[strconv.Itoa(row.Row)] = err.Error()
			continue
		}
		result.Created = append(result.Created, *place)
	}
	respondJSON(w, http.StatusOK, result)
}

// ListPlacePhotosHandler возвращает фотографии места.
// GET /api/places/{id}/photos
func (h *Handler) ListPlacePhotosHandler(w http.ResponseWriter, r *http.Request) {
	photos, err := h.journal.Photos.GetPhotosByPlaceID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondFailure(w, "ListPlacePhotosHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, h.photoViews(photos))
}

// AddPlacePhotoHandler добавляет фотографию места.
// POST /api/places/{id}/photos
func (h *Handler) AddPlacePhotoHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	place, err := h.journal.Places.GetPlaceByID(r.Context(), id)
	if err != nil {
		respondFailure(w, "AddPlacePhotoHandler", err)
		return
	}
	if place == nil {
		respondError(w, http.StatusNotFound, "Место не найдено")
		return
	}
	h.savePhoto(w, r, place.ID, nil)
}
