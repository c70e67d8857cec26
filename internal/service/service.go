// service содержит бизнес-логику todo-сервиса: регистрацию и
// аутентификацию пользователей, выпуск/проверку токенов, троттлинг
// попыток входа и CRUD задач через интерфейсы пакета storage.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования при потокобезопасном storage.Storage;
//   - лимитер попыток входа — явная зависимость, передается в конструктор;
//   - ошибки возвращаются наружу и маппятся транспортом на HTTP-статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/go-todo-service/internal/config"
	"github.com/pribylovaa/go-todo-service/internal/ratelimit"
	"github.com/pribylovaa/go-todo-service/internal/storage"
)

var (
	// ErrInvalidCredentials — пара email/пароль неверна или пользователь не найден.
	// Для вызывающего эти случаи неразличимы. Транспорт: 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited — слишком много попыток входа; повторить после окна.
	// Транспорт: 429.
	ErrRateLimited = errors.New("too many authentication attempts")

	// ErrInvalidToken — токен некорректен по формату/подписи/типу либо
	// не совпадает с хранимым refresh-токеном. Транспорт: 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnauthenticated — токен валиден, но аккаунт по sub-клейму
	// отсутствует, либо токен не предъявлен. Транспорт: 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrEmailTaken — e-mail уже занят другим пользователем. Транспорт: 409.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail — e-mail некорректного формата. Транспорт: 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidID — строка не является корректным UUID. Отличается от
	// ErrNotFound: битый идентификатор — ошибка запроса, а не отсутствие
	// ресурса. Транспорт: 400.
	ErrInvalidID = errors.New("invalid id")

	// ErrNotFound — ресурс (задача/пользователь) не найден. Транспорт: 404.
	ErrNotFound = errors.New("not found")
)

// bruteForceDelay — фиксированная задержка перед ответом об ошибке
// проверки пароля: сглаживает тайминговую энумерацию пользователей и
// замедляет ручной перебор.
const bruteForceDelay = 500 * time.Millisecond

// Service описывает бизнес-логику todo-сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	limiter *ratelimit.Limiter

	// Инжектируемые часы/задержка для детерминированных тестов.
	now   func() time.Time
	sleep func(time.Duration)
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig, limiter *ratelimit.Limiter) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
		limiter: limiter,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}
