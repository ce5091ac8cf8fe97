package controllers

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"gonext_go/export"
	"gonext_go/geo"
	"gonext_go/validation"
)

const maxBackupSize = 50 * 1024 * 1024 // 50 MB

// NextPlaceHandler возвращает следующее место текущей поездки.
// Если переданы ?lat=&lon=, в ответ добавляется расстояние до места.
// GET /api/next-place
func (h *Handler) NextPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var from *geo.Point
	query := r.URL.Query()
	if lat, lon := query.Get("lat"), query.Get("lon"); lat != "" || lon != "" {
		point, err := parsePoint(lat, lon)
		if err != nil {
			respondFailure(w, "NextPlaceHandler", err)
			return
		}
		from = &point
	}

	overview, err := h.journal.NextPlaceOverview(r.Context(), from)
	if err != nil {
		respondFailure(w, "NextPlaceHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func parsePoint(lat, lon string) (geo.Point, error) {
	dd := lat + "," + lon
	if err := validation.ValidateCoordinates(dd); err != nil {
		return geo.Point{}, err
	}
	return geo.ParseCoordinates(dd)
}

// StatsHandler возвращает количество мест и поездок.
// GET /api/stats
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journal.Stats(r.Context())
	if err != nil {
		respondFailure(w, "StatsHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ClearAllHandler удаляет все данные журнала и файлы фотографий.
// DELETE /api/data
func (h *Handler) ClearAllHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.ClearAll(r.Context()); err != nil {
		respondFailure(w, "ClearAllHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadBackupHandler отдает резервную копию журнала в JSON.
// GET /api/backup
func (h *Handler) DownloadBackupHandler(w http.ResponseWriter, r *http.Request) {
	backup, err := h.journal.Backup(r.Context())
	if err != nil {
		respondFailure(w, "DownloadBackupHandler", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBackup(&buf, backup); err != nil {
		respondFailure(w, "DownloadBackupHandler", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.BackupFileName(time.Now())+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("DownloadBackupHandler: ошибка отправки файла: %v", err)
	}
}

// RestoreBackupHandler заменяет данные журнала резервной копией из тела запроса.
// POST /api/backup
func (h *Handler) RestoreBackupHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupSize)
	defer r.Body.Close()

	backup, err := export.ReadBackup(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.journal.Restore(r.Context(), backup); err != nil {
		respondFailure(w, "RestoreBackupHandler", err)
		return
	}
	stats, err := h.journal.Stats(r.Context())
	if err != nil {
		respondFailure(w, "RestoreBackupHandler", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
