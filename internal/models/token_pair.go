package models

import "time"

// TokenPair — результат успешной аутентификации.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT типа "refresh"; сервер хранит его
//     строку в записи пользователя для возможности отзыва. Пустой в ответе
//     операции refresh — токен не ротируется при обновлении;
//   - TokenType — всегда "bearer";
//   - ExpiresIn — срок жизни access-токена в секундах;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	TokenType       string
	ExpiresIn       int64
	AccessExpiresAt time.Time
}
