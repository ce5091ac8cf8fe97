package data

import (
	"context"
	"embed"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Драйвер SQLite, импортируется для побочных эффектов (регистрации драйвера)
	"github.com/pressly/goose/v3"
)

const (
	// DefaultDBName - имя файла базы данных по умолчанию.
	DefaultDBName = "gonext.db"
	// MemoryPath выбирает базу данных в памяти (тесты, временный запуск).
	MemoryPath = ":memory:"
	// SchemaVersion - версия схемы после применения всех миграций.
	SchemaVersion int64 = 2
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open подключается к базе SQLite по пути path и применяет миграции.
// Пустой путь означает DefaultDBName в текущей директории.
func Open(path string) (*sqlx.DB, error) {
	if path == "" {
		path = DefaultDBName
	}
	log.Printf("Using database file at: %s", path)

	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on") // Включаем поддержку внешних ключей
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// Одно соединение: SQLite пишет последовательно, а база в памяти живет ровно в одном соединении.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("Successfully connected to the database.")
	return db, nil
}

func migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Printf("Database schema applied successfully (version %d).", version)
	return nil
}

// withTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию и возвращается как есть.
func withTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapStorage(op, fmt.Errorf("ошибка начала транзакции: %w", err))
	}
	defer tx.Rollback() // Откат, если Commit не будет вызван

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapStorage(op, fmt.Errorf("ошибка фиксации транзакции: %w", err))
	}
	return nil
}
