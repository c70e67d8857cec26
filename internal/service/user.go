package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/pkg/log"
	"github.com/pribylovaa/go-todo-service/internal/pkg/redact"
	"github.com/pribylovaa/go-todo-service/internal/storage"
)

// UpdateProfile частично обновляет профиль пользователя (имя, фамилия,
// активность). Email и пароль этой операцией не меняются.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.UserPatch) (*models.User, error) {
	const op = "service.user.UpdateProfile"

	user, err := s.storage.UpdateUser(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// DeleteAccount удаляет аккаунт вместе с задачами (каскад на уровне БД).
// Уже выпущенные access-токены перестают работать: CurrentUser не найдет
// аккаунт по sub-клейму.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	const op = "service.user.DeleteAccount"

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("account_deleted",
		slog.String("op", op),
		slog.String("email", redact.Email(user.Email)),
	)

	return nil
}
