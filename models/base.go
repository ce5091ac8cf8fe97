package models

import "encoding/json"

// NullString различает три состояния поля в частичном обновлении:
// поле не передано (Set == false), передано null (Value == nil) и передано значение.
type NullString struct {
	Set   bool
	Value *string
}

// SetString возвращает NullString с переданным значением.
func SetString(s string) NullString {
	return NullString{Set: true, Value: &s}
}

// ClearString возвращает NullString, который сбрасывает поле.
func ClearString() NullString {
	return NullString{Set: true}
}

func (ns *NullString) String() string {
	if ns.Value != nil {
		return *ns.Value
	}
	return ""
}

// UnmarshalJSON отмечает поле как переданное, даже если пришел null.
func (ns *NullString) UnmarshalJSON(data []byte) error {
	ns.Set = true
	if string(data) == "null" {
		ns.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ns.Value = &s
	return nil
}

// MarshalJSON сериализует значение или null.
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*ns.Value)
}

// Stats - общая статистика журнала (экран настроек).
type Stats struct {
	PlacesCount int `json:"placesCount"`
	TripsCount  int `json:"tripsCount"`
}

// NextPlaceOverview - данные экрана "следующее место".
type NextPlaceOverview struct {
	Trip       *Trip               `json:"trip"`
	NextPlace  *TripPlaceWithPlace `json:"nextPlace"`
	Progress   TripProgress        `json:"progress"`
	DistanceKm *float64            `json:"distanceKm,omitempty"`
}
