package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"gonext_go/validation"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPIN возвращается, если PIN-код не совпал с сохраненным.
var ErrWrongPIN = errors.New("неверный PIN-код")

var pinPattern = regexp.MustCompile(`^[0-9]{4,8}$`)

// SettingsStore - хранилище настроек, в котором лежит хеш PIN-кода.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// PINService управляет PIN-кодом, которым закрыт локальный API.
type PINService struct {
	settings SettingsStore
	key      string
}

func NewPINService(settings SettingsStore, key string) *PINService {
	return &PINService{settings: settings, key: key}
}

// HashPIN генерирует хеш bcrypt для PIN-кода.
func HashPIN(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPINHash сравнивает PIN-код с хешем.
func CheckPINHash(pin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	return err == nil
}

// IsSet сообщает, задан ли PIN-код. Пока он не задан, API открыт.
func (s *PINService) IsSet(ctx context.Context) (bool, error) {
	_, ok, err := s.settings.GetSetting(ctx, s.key)
	return ok, err
}

// Verify проверяет PIN-код. Если PIN не задан, подходит любой.
func (s *PINService) Verify(ctx context.Context, pin string) error {
	hash, ok, err := s.settings.GetSetting(ctx, s.key)
	if err != nil {
		return err
	}
	if ok && !CheckPINHash(pin, hash) {
		return ErrWrongPIN
	}
	return nil
}

// SetPIN задает новый PIN-код после проверки текущего. Пустой newPIN снимает защиту.
func (s *PINService) SetPIN(ctx context.Context, currentPIN, newPIN string) error {
	if err := s.Verify(ctx, currentPIN); err != nil {
		return err
	}
	if newPIN == "" {
		if err := s.settings.DeleteSetting(ctx, s.key); err != nil {
			return err
		}
		log.Println("PIN-код снят")
		return nil
	}
	if !pinPattern.MatchString(newPIN) {
		return validation.NewError("newPin", "PIN-код должен состоять из 4-8 цифр")
	}

	hash, err := HashPIN(newPIN)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	if err := s.settings.SetSetting(ctx, s.key, hash); err != nil {
		return err
	}
	log.Println("PIN-код изменен")
	return nil
}
