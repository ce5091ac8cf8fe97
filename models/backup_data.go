package models

// BackupData представляет полную копию журнала: все таблицы как есть.
// Пути фотографий сохраняются, сами файлы в копию не входят.
type BackupData struct {
	Places        []Place      `json:"places"`
	Trips         []Trip       `json:"trips"`
	TripPlaces    []TripPlace  `json:"tripPlaces"`
	Photos        []PlacePhoto `json:"photos"`
	SchemaVersion int64        `json:"schemaVersion"`
	CreatedAt     string       `json:"createdAt"`
}
