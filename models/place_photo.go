package models

// PlacePhoto - фотография места или конкретного посещения места в поездке.
type PlacePhoto struct {
	ID          string  `json:"id"`
	PlaceID     string  `json:"placeId"`
	TripPlaceID *string `json:"tripPlaceId,omitempty"` // nil - фото места, иначе фото посещения
	FilePath    string  `json:"filePath"`
	CreatedAt   string  `json:"createdAt"`
}
