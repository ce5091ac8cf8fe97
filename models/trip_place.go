package models

// TripPlace - место в маршруте поездки с признаком посещения.
type TripPlace struct {
	ID        string  `json:"id"`
	TripID    string  `json:"tripId"`
	PlaceID   string  `json:"placeId"`
	Order     int     `json:"order"` // порядок в маршруте, начиная с 1
	Visited   bool    `json:"visited"`
	VisitDate *string `json:"visitDate,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// TripPlaceWithPlace - место в поездке вместе с данными самого места.
type TripPlaceWithPlace struct {
	TripPlace
	Place Place `json:"place"`
}

// TripPlaceUpdate описывает частичное обновление места в поездке.
type TripPlaceUpdate struct {
	Order     *int       `json:"order"`
	Visited   *bool      `json:"visited"`
	VisitDate NullString `json:"visitDate"`
	Notes     NullString `json:"notes"`
}

// OrderAssignment - новое значение порядка для места в поездке.
type OrderAssignment struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// MoveDirection - направление перемещения места в маршруте.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// TripProgress - сколько мест в поездке и сколько из них посещено.
type TripProgress struct {
	Total   int `json:"total"`
	Visited int `json:"visited"`
}
