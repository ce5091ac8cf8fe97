package photostore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".heic": true, ".webp": true,
}

// DiskStore хранит фотографии в каталоге на локальном диске.
type DiskStore struct {
	dir string
}

// NewDiskStore создает каталог для фотографий, если его нет. Путь хранится абсолютным.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("NewDiskStore: не указан каталог для фотографий")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("NewDiskStore: неверный путь к каталогу: %w", err)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("NewDiskStore: не удалось создать каталог %s: %w", dir, err)
	}
	log.Printf("Using photos directory at: %s", dir)
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Supported() bool { return true }

func (s *DiskStore) Dir() string { return s.dir }

// Import сохраняет изображение под уникальным именем.
func (s *DiskStore) Import(r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("Import: %w: %q", ErrInvalidExtension, ext)
	}

	filePath := filepath.Join(s.dir, uuid.New().String()+ext)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("Import: ошибка создания файла %s: %w", filePath, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(filePath)
		return "", fmt.Errorf("Import: ошибка записи файла %s: %w", filePath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("Import: ошибка закрытия файла %s: %w", filePath, err)
	}
	return filePath, nil
}

// Remove удаляет файл фотографии из каталога хранилища. Уже удаленный файл
// не считается ошибкой. Файлы, добавленные по внешнему пути, не трогаются.
func (s *DiskStore) Remove(path string) error {
	if !s.contains(path) {
		return fmt.Errorf("Remove: %w: %s", ErrOutsideDir, path)
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("Remove: ошибка удаления файла %s: %w", path, err)
	}
	return nil
}

// contains сообщает, лежит ли path внутри каталога хранилища (сам каталог не в счет).
func (s *DiskStore) contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.dir, abs)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
