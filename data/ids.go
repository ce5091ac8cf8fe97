package data

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	dateLayout      = "2006-01-02"
)

// NewID генерирует идентификатор записи.
func NewID() string {
	return uuid.NewString()
}

// Now возвращает текущее время в ISO-8601 (UTC, миллисекунды).
func Now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// Today возвращает текущую дату (UTC) в формате ГГГГ-ММ-ДД. Это дата посещения по умолчанию.
func Today() string {
	return time.Now().UTC().Format(dateLayout)
}

// normalizeOptional обрезает пробелы; пустое значение считается незаданным.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
