// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: комментарии к переменным ошибок
// пакета service.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-todo-service/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// mapping — таблица доменная ошибка -> (HTTP-статус, FE-код).
// Сообщения ошибок валидации отдаются как есть: они сформулированы
// безопасно и говорят клиенту, какое именно правило нарушено.
var mapping = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{service.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_argument"},
	{service.ErrInvalidID, http.StatusBadRequest, "invalid_argument"},
	{service.ErrEmptyTitle, http.StatusBadRequest, "invalid_argument"},
	{service.ErrPasswordTooShort, http.StatusBadRequest, "weak_password"},
	{service.ErrPasswordTooLong, http.StatusBadRequest, "weak_password"},
	{service.ErrPasswordNoLower, http.StatusBadRequest, "weak_password"},
	{service.ErrPasswordNoUpper, http.StatusBadRequest, "weak_password"},
	{service.ErrPasswordNoDigit, http.StatusBadRequest, "weak_password"},
	{service.ErrPasswordNoSpecial, http.StatusBadRequest, "weak_password"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
}

// ErrBadRequest — локальная ошибка транспорта (битый JSON, пустое тело).
var ErrBadRequest = errors.New("invalid request body")

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный
// ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - известная доменная ошибка - статус и код из таблицы mapping;
//   - прочее - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{
				Code:    "internal",
				Message: "internal error",
			},
		}
	}

	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest, ErrorResponse{
			Error: APIError{
				Code:    "invalid_argument",
				Message: ErrBadRequest.Error(),
			},
		}
	}

	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return m.status, ErrorResponse{
				Error: APIError{
					Code:    m.code,
					Message: m.err.Error(),
				},
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
