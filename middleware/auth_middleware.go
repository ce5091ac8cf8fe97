package middleware

import (
	"log"
	"net/http"
	"strings"

	"gonext_go/auth"
)

// JWTMiddleware проверяет наличие и валидность JWT в заголовке Authorization.
// Пока PIN-код не задан, запросы пропускаются без токена.
func JWTMiddleware(pins *auth.PINService, tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locked, err := pins.IsSet(r.Context())
			if err != nil {
				log.Printf("JWTMiddleware: ОШИБКА - не удалось проверить PIN-код: %v", err)
				http.Error(w, "Ошибка проверки доступа", http.StatusInternalServerError)
				return
			}
			if !locked {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("JWTMiddleware: ОШИБКА - отсутствует заголовок Authorization для %s %s", r.Method, r.URL.Path)
				http.Error(w, "Отсутствует заголовок Authorization", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Printf("JWTMiddleware: ОШИБКА - неверный формат заголовка Authorization для %s %s", r.Method, r.URL.Path)
				http.Error(w, "Неверный формат заголовка Authorization (ожидается Bearer {token})", http.StatusUnauthorized)
				return
			}

			if _, err := tokens.ValidateToken(parts[1]); err != nil {
				log.Printf("JWTMiddleware: ОШИБКА - невалидный токен для %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Невалидный токен: "+err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
