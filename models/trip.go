package models

// Trip представляет поездку: маршрут с датами и упорядоченным списком мест.
type Trip struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"startDate,omitempty"` // ГГГГ-ММ-ДД
	EndDate     *string `json:"endDate,omitempty"`   // ГГГГ-ММ-ДД
	Current     bool    `json:"current"`
	CreatedAt   string  `json:"createdAt"`
}

// TripInput содержит поля для создания поездки.
// PlaceIDs (необязательно) добавляются в маршрут в указанном порядке.
type TripInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	StartDate   *string  `json:"startDate,omitempty"`
	EndDate     *string  `json:"endDate,omitempty"`
	Current     bool     `json:"current"`
	PlaceIDs    []string `json:"placeIds,omitempty"`
}

// TripUpdate описывает частичное обновление поездки.
type TripUpdate struct {
	Title       *string    `json:"title"`
	Description NullString `json:"description"`
	StartDate   NullString `json:"startDate"`
	EndDate     NullString `json:"endDate"`
	Current     *bool      `json:"current"`
}

// TripWithProgress - поездка со статистикой посещения (экран списка поездок).
type TripWithProgress struct {
	Trip
	PlacesCount  int `json:"placesCount"`
	VisitedCount int `json:"visitedCount"`
}
