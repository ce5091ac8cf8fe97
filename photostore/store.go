package photostore

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnsupported возвращается, когда хранилище фотографий недоступно на платформе.
var ErrUnsupported = errors.New("photos are not supported on this platform")

// ErrInvalidExtension возвращается для файлов с недопустимым расширением.
var ErrInvalidExtension = errors.New("invalid photo file extension")

// ErrOutsideDir возвращается при попытке удалить файл вне каталога хранилища.
var ErrOutsideDir = errors.New("photo file is outside the photos directory")

const (
	BackendDisk     = "disk"
	BackendDisabled = "disabled"
)

// PhotoStore хранит файлы фотографий. Записи о фотографиях ведет data.PhotoRepository.
type PhotoStore interface {
	// Supported сообщает, можно ли работать с фотографиями.
	Supported() bool
	// Import копирует изображение в хранилище и возвращает путь к новому файлу.
	Import(r io.Reader, ext string) (string, error)
	// Remove удаляет файл из каталога хранилища. Отсутствие файла ошибкой не считается,
	// файлы вне каталога не удаляются (ErrOutsideDir).
	Remove(path string) error
	// Dir возвращает каталог с фотографиями (пустой, если хранилище отключено).
	Dir() string
}

// New выбирает реализацию хранилища по настройке backend.
func New(backend, dir string) (PhotoStore, error) {
	switch backend {
	case BackendDisk, "":
		store, err := NewDiskStore(dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendDisabled:
		return DisabledStore{}, nil
	default:
		return nil, fmt.Errorf("photostore: неизвестный тип хранилища %q", backend)
	}
}
