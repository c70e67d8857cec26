package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-todo-service/internal/metrics"
	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/pkg/log"
	"github.com/pribylovaa/go-todo-service/internal/pkg/redact"
	"github.com/pribylovaa/go-todo-service/internal/storage"
)

// RegisterUser регистрирует нового пользователя и возвращает созданную
// запись. Токены при регистрации не выпускаются — клиент логинится отдельно.
func (s *Service) RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	const op = "service.auth.RegisterUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := ValidatePasswordStrength(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		// Гонка двух регистраций: уникальный индекс по email — арбитр.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_registered",
		slog.String("op", op),
		slog.String("email", redact.Email(normEmail)),
	)

	return user, nil
}

// LoginUser выполняет вход по email+пароль.
//
// Порядок шагов фиксированный: лимитер (до любых обращений к учетным
// данным) -> поиск пользователя -> проверка пароля -> выпуск токенов ->
// запись refresh-токена в пользователя. Отсутствующий пользователь и
// неверный пароль неразличимы для вызывающего, в обоих случаях перед
// ответом выдерживается bruteForceDelay.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.LoginUser"

	lg := log.From(ctx)

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !s.limiter.Allow(rateLimitKey(normEmail)) {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultRateLimited).Inc()
		lg.Warn("login_rate_limited",
			slog.String("op", op),
			slog.String("email", redact.Email(normEmail)),
		)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrRateLimited)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.sleep(bruteForceDelay)
			metrics.LoginAttempts.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		metrics.LoginAttempts.WithLabelValues(metrics.ResultError).Inc()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		s.sleep(bruteForceDelay)
		metrics.LoginAttempts.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		lg.Warn("login_password_mismatch",
			slog.String("op", op),
			slog.String("email", redact.Email(normEmail)),
		)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultError).Inc()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.ResultOK).Inc()

	return pair, user, nil
}

// RefreshToken выпускает новый access-токен по refresh-токену.
//
// Криптографическая валидность refresh-токена — необходимое, но не
// достаточное условие: предъявленная строка обязана в точности совпасть
// с хранимой в записи пользователя. Именно эта проверка делает логаут и
// перелогин действенными — она, а не подпись, является источником истины.
// Сам refresh-токен при обновлении не ротируется (см. DESIGN.md).
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.auth.RefreshToken"

	lg := log.From(ctx)

	email, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		metrics.RefreshAttempts.WithLabelValues(metrics.ResultInvalidToken).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.RefreshAttempts.WithLabelValues(metrics.ResultInvalidToken).Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		metrics.RefreshAttempts.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		metrics.RefreshAttempts.WithLabelValues(metrics.ResultInvalidToken).Inc()
		lg.Warn("refresh_token_mismatch",
			slog.String("op", op),
			slog.String("email", redact.Email(email)),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	accessToken, err := s.generateAccessToken(user.Email)
	if err != nil {
		metrics.RefreshAttempts.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.RefreshAttempts.WithLabelValues(metrics.ResultOK).Inc()

	return &models.TokenPair{
		AccessToken:     accessToken,
		TokenType:       "bearer",
		ExpiresIn:       int64(s.cfg.AccessTokenTTL.Seconds()),
		AccessExpiresAt: s.now().UTC().Add(s.cfg.AccessTokenTTL),
	}, nil
}

// Logout сбрасывает текущий refresh-токен пользователя, которому
// принадлежит предъявленный access-токен. Идемпотентен: повторный
// логаут и логаут исчезнувшего пользователя не считаются ошибкой.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	const op = "service.auth.Logout"

	user, err := s.CurrentUser(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_out",
		slog.String("op", op),
		slog.String("email", redact.Email(user.Email)),
	)

	return nil
}

// CurrentUser разрешает пользователя по access-токену. Валидный токен
// исчезнувшего аккаунта — ErrUnauthenticated: валидность подписи не
// доказывает существование аккаунта.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "service.auth.CurrentUser"

	if accessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	email, err := s.validateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// issueTokenPair выпускает пару access+refresh и фиксирует refresh-токен
// в записи пользователя до возврата ответа: последующий refresh обязан
// видеть актуальное значение. Если запись не удалась, выпущенная пара
// не доверяется молча — refresh-токен не совпадет с хранимым значением.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	accessToken, err := s.generateAccessToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.RefreshToken = &refreshToken

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		TokenType:       "bearer",
		ExpiresIn:       int64(s.cfg.AccessTokenTTL.Seconds()),
		AccessExpiresAt: s.now().UTC().Add(s.cfg.AccessTokenTTL),
	}, nil
}

// validateEmail проверяет базовый формат email и нормализует его.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(email), nil
}

// rateLimitKey — идентификатор для лимитера: односторонний хэш email,
// чтобы не держать адреса открытым текстом в памяти процесса.
func rateLimitKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
