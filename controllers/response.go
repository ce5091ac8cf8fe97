package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"gonext_go/auth"
	"gonext_go/data"
	"gonext_go/photostore"
	"gonext_go/validation"
)

// errorResponse - тело ответа с ошибкой. Data содержит сообщения по полям при ошибке валидации.
type errorResponse struct {
	Error string            `json:"error"`
	Code  string            `json:"code,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	log.Printf("HTTP Error %d: %s", statusCode, message)
	respondJSON(w, statusCode, errorResponse{Error: message})
}

// respondFailure переводит ошибку репозитория в HTTP-статус.
func respondFailure(w http.ResponseWriter, op string, err error) {
	var validationErr *validation.ValidationError
	var storageErr *data.StorageError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Data: validationErr.Details})
	case errors.Is(err, data.ErrNotFound):
		respondError(w, http.StatusNotFound, "Не найдено: "+err.Error())
	case errors.Is(err, photostore.ErrUnsupported):
		respondError(w, http.StatusNotImplemented, "Фотографии недоступны на этой платформе")
	case errors.Is(err, photostore.ErrInvalidExtension):
		respondError(w, http.StatusBadRequest, "Недопустимый тип файла. Разрешены: jpg, jpeg, png, gif, heic, webp.")
	case errors.Is(err, auth.ErrWrongPIN):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &storageErr) && storageErr.IsConstraint():
		log.Printf("%s: %v", op, err)
		respondJSON(w, http.StatusConflict, errorResponse{Error: "Нарушено ограничение базы данных", Code: storageErr.Code})
	default:
		log.Printf("%s: %v", op, err)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("%s: внутренняя ошибка сервера", op))
	}
}

// decodeJSON читает тело запроса в dst. При ошибке ответ уже отправлен.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return false
	}
	return true
}
