package models

// UnlockRequest - запрос на получение токена доступа к локальному API.
type UnlockRequest struct {
	PIN string `json:"pin"`
}

// SetPINRequest - установка или смена PIN-кода. CurrentPIN обязателен, если PIN уже задан.
// Пустой NewPIN снимает блокировку.
type SetPINRequest struct {
	CurrentPIN string `json:"currentPin"`
	NewPIN     string `json:"newPin"`
}

// AuthResponse - ответ с токеном доступа.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
