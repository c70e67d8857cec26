package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/service"
	"github.com/pribylovaa/go-todo-service/internal/transport/http/httperr"
	"github.com/pribylovaa/go-todo-service/internal/transport/http/middleware"
)

// Handlers агрегирует зависимости REST-хендлеров.
type Handlers struct {
	svc *service.Service
	// retryAfter — окно лимитера; уходит клиенту в Retry-After при 429.
	retryAfter time.Duration
}

func New(svc *service.Service, retryAfter time.Duration) *Handlers {
	return &Handlers{svc: svc, retryAfter: retryAfter}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// currentUser разрешает пользователя по Bearer-токену запроса.
// Отсутствие токена равнозначно невалидному: ErrUnauthenticated.
func (h *Handlers) currentUser(r *http.Request) (*models.User, error) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		return nil, service.ErrUnauthenticated
	}

	return h.svc.CurrentUser(r.Context(), token)
}

// userResponse — представление пользователя в ответах API.
// Хэш пароля и refresh-токен наружу не отдаются.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userToResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// tokenResponse — представление пары токенов. RefreshToken пуст в
// ответе /auth/refresh: токен не ротируется.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func tokenToResponse(p *models.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    p.ExpiresIn,
	}
}

type todoResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func todoToResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// writeBadRequest — локальная ошибка парсинга -> 400/invalid_argument.
func writeBadRequest(w http.ResponseWriter, r *http.Request) {
	httperr.WriteError(w, r, httperr.ErrBadRequest)
}
