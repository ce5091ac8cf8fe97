package controllers

import (
	"net/http"

	"gonext_go/data"
)

// HealthCheck возвращает статус "OK", версию схемы и признак блокировки PIN-кодом.
// GET /api/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	locked, err := h.pins.IsSet(r.Context())
	if err != nil {
		respondFailure(w, "HealthCheck", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "OK",
		"schemaVersion": data.SchemaVersion,
		"locked":        locked,
		"photos":        h.journal.Photos.Store().Supported(),
	})
}
