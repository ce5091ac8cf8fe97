package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config - настройки процесса, читаются из окружения (и .env, если он есть).
type Config struct {
	DBPath         string        `env:"GONEXT_DB_PATH" envDefault:"gonext.db"`
	PhotosDir      string        `env:"GONEXT_PHOTOS_DIR" envDefault:"photos"`
	PhotoBackend   string        `env:"GONEXT_PHOTO_BACKEND" envDefault:"disk"`
	HTTPAddr       string        `env:"GONEXT_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	JWTSecret      string        `env:"GONEXT_JWT_SECRET"`
	TokenTTL       time.Duration `env:"GONEXT_TOKEN_TTL" envDefault:"24h"`
	AllowedOrigins []string      `env:"GONEXT_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8081"`
}

// Load читает .env из envFiles (отсутствующие файлы пропускаются), затем окружение.
// Переменные окружения имеют приоритет над .env.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		log.Printf("Loaded environment from %s", file)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: GONEXT_JWT_SECRET is empty, tokens will not survive a restart.")
	}
	return &cfg, nil
}
