package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MaxNotesLength = 2000

	dateLayout = "2006-01-02"
)

// ErrValidation - общий признак ошибки валидации для errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError описывает нарушение правил валидации. Details содержит
// сообщения по отдельным полям.
type ValidationError struct {
	Message string            `json:"message"`
	Details map[string]string `json:"data,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewError создает ошибку валидации для одного поля.
func NewError(field, message string) *ValidationError {
	return &ValidationError{Message: message, Details: map[string]string{field: message}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Ошибки регистрации возможны только при пустом теге, поэтому игнорируем их.
	_ = v.RegisterValidation("coords", func(fl validator.FieldLevel) bool {
		return ValidateCoordinates(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return ValidateDate(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("trimmedmax", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= limit
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateRequired проверяет, что поле заполнено (пробелы не считаются).
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewError(fieldName, fmt.Sprintf("Поле \"%s\" обязательно для заполнения", fieldName))
	}
	return nil
}

// ValidateLength проверяет длину строки без начальных и конечных пробелов (в символах).
func ValidateLength(value string, minLength, maxLength int, fieldName string) error {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < minLength {
		return NewError(fieldName, fmt.Sprintf("Поле \"%s\" должно содержать минимум %d символов", fieldName, minLength))
	}
	if length > maxLength {
		return NewError(fieldName, fmt.Sprintf("Поле \"%s\" должно содержать максимум %d символов", fieldName, maxLength))
	}
	return nil
}

// ValidateCoordinates проверяет координаты в формате DD: "широта,долгота".
// Пустая строка допустима, координаты необязательны.
func ValidateCoordinates(coords string) error {
	coords = strings.TrimSpace(coords)
	if coords == "" {
		return nil
	}

	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return NewError("dd", "Неверный формат координат. Используйте формат: широта,долгота (например: 55.7558,37.6173)")
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil || !isFinite(lat) || !isFinite(lon) {
		return NewError("dd", "Координаты должны быть числами")
	}

	if lat < -90 || lat > 90 {
		return NewError("dd", "Широта должна быть в диапазоне от -90 до 90")
	}
	if lon < -180 || lon > 180 {
		return NewError("dd", "Долгота должна быть в диапазоне от -180 до 180")
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateDate проверяет дату в формате ГГГГ-ММ-ДД. Пустая строка допустима.
func ValidateDate(date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return NewError("date", "Неверный формат даты. Используйте формат ГГГГ-ММ-ДД (например: 2024-06-15)")
	}
	return nil
}

// ValidateDateRange проверяет, что дата начала не позже даты окончания.
// Если одна из дат не указана, проверка проходит.
func ValidateDateRange(startDate, endDate string) error {
	startDate, endDate = strings.TrimSpace(startDate), strings.TrimSpace(endDate)
	if startDate == "" || endDate == "" {
		return nil
	}
	if err := ValidateDate(startDate); err != nil {
		return err
	}
	if err := ValidateDate(endDate); err != nil {
		return err
	}

	start, _ := time.Parse(dateLayout, startDate)
	end, _ := time.Parse(dateLayout, endDate)
	if start.After(end) {
		return NewError("endDate", "Дата начала не может быть позже даты окончания")
	}
	return nil
}

// ValidateVisitDate принимает дату (ГГГГ-ММ-ДД) или метку времени RFC 3339.
func ValidateVisitDate(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return nil
	}
	return NewError("visitDate", "Неверная дата посещения. Используйте ГГГГ-ММ-ДД или ISO-8601")
}

// ValidateOrder проверяет порядковый номер места в маршруте.
func ValidateOrder(order int) error {
	if order < 1 {
		return NewError("order", "Порядок должен быть положительным числом")
	}
	return nil
}

// PlaceValidator - правила для места.
type PlaceValidator struct {
	Name        string `json:"name" validate:"notblank,trimmedmax=200"`
	Description string `json:"description" validate:"omitempty,trimmedmax=2000"`
	DD          string `json:"dd" validate:"omitempty,coords"`
}

// TripValidator - правила для поездки.
type TripValidator struct {
	Title       string `json:"title" validate:"notblank,trimmedmax=200"`
	Description string `json:"description" validate:"omitempty,trimmedmax=2000"`
	StartDate   string `json:"startDate" validate:"omitempty,isodate"`
	EndDate     string `json:"endDate" validate:"omitempty,isodate"`
}

// ValidatePlace выполняет комплексную проверку места.
func ValidatePlace(name string, description, dd *string) error {
	v := PlaceValidator{Name: name, Description: deref(description), DD: deref(dd)}
	if err := validate.Struct(v); err != nil {
		return translate(err)
	}
	return nil
}

// ValidateTrip выполняет комплексную проверку поездки, включая диапазон дат.
func ValidateTrip(title string, description, startDate, endDate *string) error {
	v := TripValidator{Title: title, Description: deref(description), StartDate: deref(startDate), EndDate: deref(endDate)}
	if err := validate.Struct(v); err != nil {
		return translate(err)
	}
	return ValidateDateRange(v.StartDate, v.EndDate)
}

// ValidateNotes проверяет заметки о посещении.
func ValidateNotes(notes *string) error {
	if notes == nil {
		return nil
	}
	return ValidateLength(*notes, 0, MaxNotesLength, "Заметки")
}

var fieldNames = map[string]string{
	"Name":        "Название места",
	"Title":       "Название поездки",
	"Description": "Описание",
	"DD":          "Координаты",
	"StartDate":   "Дата начала",
	"EndDate":     "Дата окончания",
}

// translate превращает ошибки validator в ValidationError с понятными сообщениями.
// Первое нарушение становится общим сообщением.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	result := &ValidationError{Details: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		name := fieldNames[fe.StructField()]
		var msg string
		switch fe.Tag() {
		case "notblank":
			msg = fmt.Sprintf("Поле \"%s\" обязательно для заполнения", name)
		case "trimmedmax":
			msg = fmt.Sprintf("Поле \"%s\" должно содержать максимум %s символов", name, fe.Param())
		case "coords":
			msg = ValidateCoordinates(fe.Value().(string)).Error()
		case "isodate":
			msg = ValidateDate(fe.Value().(string)).Error()
		default:
			msg = fmt.Sprintf("Поле \"%s\" заполнено неверно", name)
		}
		result.Details[fe.Field()] = msg
		if result.Message == "" {
			result.Message = msg
		}
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
