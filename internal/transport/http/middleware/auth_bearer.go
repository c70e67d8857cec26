package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

// ctxAuthToken — ключ контекста с "сырым" Bearer-токеном запроса.
const ctxAuthToken ctxKey = iota

// AuthBearer извлекает Bearer-токен из Authorization и кладёт "сырой"
// токен в контекст. Валидацию токена выполняет сервисный слой —
// мидлвар только транспортирует строку.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if auth != "" {
				const prefix = "Bearer "
				if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
					token := strings.TrimSpace(auth[len(prefix):])

					if token != "" {
						ctx := context.WithValue(r.Context(), ctxAuthToken, token)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromContext возвращает Bearer-токен запроса, если он был предъявлен.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxAuthToken).(string)
	return token, ok && token != ""
}
