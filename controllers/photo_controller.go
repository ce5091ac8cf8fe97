package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"gonext_go/models"

	"github.com/gorilla/mux"
)

const maxUploadSize = 20 * 1024 * 1024 // 20 MB

// photoView - фотография с URL для отдачи файла через /photos/.
type photoView struct {
	models.PlacePhoto
	URL string `json:"url,omitempty"`
}

func (h *Handler) photoView(photo models.PlacePhoto) photoView {
	view := photoView{PlacePhoto: photo}
	store := h.journal.Photos.Store()
	// Ссылка есть только у файлов внутри каталога хранилища.
	if store.Supported() && filepath.Dir(photo.FilePath) == filepath.Clean(store.Dir()) {
		view.URL = "/photos/" + filepath.Base(photo.FilePath)
	}
	return view
}

func (h *Handler) photoViews(photos []models.PlacePhoto) []photoView {
	views := make([]photoView, 0, len(photos))
	for _, photo := range photos {
		views = append(views, h.photoView(photo))
	}
	return views
}

// addPhotoRequest - запись о фотографии, файл которой уже есть на устройстве.
type addPhotoRequest struct {
	FilePath string `json:"filePath"`
}

// savePhoto принимает фотографию двумя способами: JSON с путем к уже сохраненному файлу
// или multipart-форму с файлом в поле "file", который копируется в хранилище.
func (h *Handler) savePhoto(w http.ResponseWriter, r *http.Request, placeID string, tripPlaceID *string) {
	ctx := r.Context()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req addPhotoRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		photo, err := h.journal.Photos.AddPhotoToPlace(ctx, placeID, req.FilePath, tripPlaceID)
		if err != nil {
			respondFailure(w, "savePhoto", err)
			return
		}
		respondJSON(w, http.StatusCreated, h.photoView(*photo))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Размер файла не должен превышать %dMB.", maxUploadSize/1024/1024))
		} else {
			respondError(w, http.StatusBadRequest, "Не удалось обработать multipart form: "+err.Error())
		}
		return
	}

	file, handler, err := r.FormFile("file") // "file" - это имя поля, которое ожидает клиент
	if err != nil {
		respondError(w, http.StatusBadRequest, "Не удалось получить файл из запроса: "+err.Error())
		return
	}
	defer file.Close()

	photo, err := h.journal.Photos.ImportPhoto(ctx, placeID, tripPlaceID, file, filepath.Ext(handler.Filename))
	if err != nil {
		respondFailure(w, "savePhoto", err)
		return
	}
	log.Printf("Загружена фотография %s (%s, %d байт)", photo.ID, handler.Filename, handler.Size)
	respondJSON(w, http.StatusCreated, h.photoView(*photo))
}

// DeletePhotoHandler удаляет фотографию (файл и запись).
// DELETE /api/photos/{id}
func (h *Handler) DeletePhotoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.Photos.DeletePhoto(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondFailure(w, "DeletePhotoHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
