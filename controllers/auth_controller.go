package controllers

import (
	"log"
	"net/http"
	"time"

	"gonext_go/models"
)

// UnlockHandler проверяет PIN-код и выдает токен доступа.
// Пока PIN не задан, токен выдается на любой PIN.
// POST /api/auth/unlock
func (h *Handler) UnlockHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UnlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.pins.Verify(r.Context(), req.PIN); err != nil {
		respondFailure(w, "UnlockHandler", err)
		return
	}

	tokenString, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		log.Printf("Ошибка при генерации токена: %v", err)
		respondError(w, http.StatusInternalServerError, "Не удалось сгенерировать токен доступа.")
		return
	}
	respondJSON(w, http.StatusOK, models.AuthResponse{Token: tokenString, ExpiresAt: expiresAt.UTC().Format(time.RFC3339)})
}

// SetPINHandler задает, меняет или снимает (пустой newPin) PIN-код.
// PUT /api/auth/pin
func (h *Handler) SetPINHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SetPINRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.pins.SetPIN(r.Context(), req.CurrentPIN, req.NewPIN); err != nil {
		respondFailure(w, "SetPINHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
