package data

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound возвращается, когда изменяемая или удаляемая запись не существует.
var ErrNotFound = errors.New("запись не найдена")

// ErrStorage - общий признак сбоя хранилища для errors.Is.
var ErrStorage = errors.New("ошибка хранилища")

// Коды ошибок хранилища.
const (
	CodeUniqueConstraint     = "UNIQUE_CONSTRAINT"
	CodeForeignKeyConstraint = "FOREIGN_KEY_CONSTRAINT"
	CodeNotNullConstraint    = "NOT_NULL_CONSTRAINT"
	CodeTableNotFound        = "TABLE_NOT_FOUND"
	CodeDatabaseError        = "DATABASE_ERROR"
)

// StorageError - сбой базы данных с классифицированным кодом.
type StorageError struct {
	Op   string
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsConstraint сообщает, что запись нарушила ограничение схемы.
func (e *StorageError) IsConstraint() bool {
	switch e.Code {
	case CodeUniqueConstraint, CodeForeignKeyConstraint, CodeNotNullConstraint:
		return true
	}
	return false
}

func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Code: classify(err), Err: err}
}

func classify(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return CodeUniqueConstraint
		case sqlite3.ErrConstraintForeignKey:
			return CodeForeignKeyConstraint
		case sqlite3.ErrConstraintNotNull:
			return CodeNotNullConstraint
		}
	}
	if strings.Contains(err.Error(), "no such table") {
		return CodeTableNotFound
	}
	return CodeDatabaseError
}

func notFound(op, what, id string) error {
	return fmt.Errorf("%s: %s %s: %w", op, what, id, ErrNotFound)
}
