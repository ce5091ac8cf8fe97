package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gonext_go/models"
)

// BackupFileName возвращает имя файла резервной копии на дату t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("gonext-backup-%s.json", t.Format("2006-01-02"))
}

// ItineraryFileName возвращает имя XLSX-файла маршрута поездки.
func ItineraryFileName(trip models.Trip) string {
	return fmt.Sprintf("itinerary-%s.xlsx", trip.ID)
}

// WriteBackup сериализует резервную копию в JSON с отступами.
func WriteBackup(w io.Writer, backup *models.BackupData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("WriteBackup: ошибка сериализации: %w", err)
	}
	return nil
}

// ReadBackup читает резервную копию из JSON.
func ReadBackup(r io.Reader) (*models.BackupData, error) {
	var backup models.BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("ReadBackup: неверный формат резервной копии: %w", err)
	}
	return &backup, nil
}
