package data

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// SettingPINHash - ключ bcrypt-хеша PIN-кода локального API.
const SettingPINHash = "pin_hash"

// SettingsRepository хранит настройки приложения в виде ключ-значение.
type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting возвращает значение настройки. ok == false, если настройка не задана.
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, wrapStorage("GetSetting", fmt.Errorf("ошибка получения настройки %s: %w", key, err))
	}
	return value, true, nil
}

// SetSetting создает или заменяет значение настройки.
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `INSERT INTO settings (key, value, updatedAt) VALUES (?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt`
	if _, err := r.db.ExecContext(ctx, query, key, value, Now()); err != nil {
		return wrapStorage("SetSetting", fmt.Errorf("ошибка сохранения настройки %s: %w", key, err))
	}
	log.Printf("Сохранена настройка %s", key)
	return nil
}

// DeleteSetting удаляет настройку. Отсутствующая настройка не считается ошибкой.
func (r *SettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return wrapStorage("DeleteSetting", fmt.Errorf("ошибка удаления настройки %s: %w", key, err))
	}
	log.Printf("Удалена настройка %s", key)
	return nil
}
