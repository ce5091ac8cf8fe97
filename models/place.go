package models

// Place представляет место, которое пользователь сохранил в журнал (независимо от поездок).
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	VisitLater  bool    `json:"visitlater"`
	Liked       bool    `json:"liked"`
	DD          *string `json:"dd,omitempty"` // GPS-координаты в формате "широта,долгота"
	CreatedAt   string  `json:"createdAt"`    // ISO-8601, UTC
}

// PlaceInput содержит поля для создания нового места.
type PlaceInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	VisitLater  bool    `json:"visitlater"`
	Liked       bool    `json:"liked"`
	DD          *string `json:"dd,omitempty"`
}

// PlaceUpdate описывает частичное обновление места.
// Поля со значением nil (или NullString без Set) не изменяются.
type PlaceUpdate struct {
	Name        *string    `json:"name"`
	Description NullString `json:"description"`
	VisitLater  *bool      `json:"visitlater"`
	Liked       *bool      `json:"liked"`
	DD          NullString `json:"dd"`
}

// PlaceFilter задает фильтры для списка мест. Все условия объединяются через AND.
type PlaceFilter struct {
	VisitLater *bool
	Liked      *bool
	Search     string // подстрока названия, без учета регистра
}
