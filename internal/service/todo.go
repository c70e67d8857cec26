package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/storage"
)

// ErrEmptyTitle — заголовок задачи пуст или состоит из пробелов. Транспорт: 400.
var ErrEmptyTitle = errors.New("title must not be empty")

// CreateTodo создаёт задачу для пользователя. Заголовок обязателен,
// описание может быть пустым.
func (s *Service) CreateTodo(ctx context.Context, userID uuid.UUID, title, description string) (*models.Todo, error) {
	const op = "service.todo.CreateTodo"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyTitle)
	}

	now := s.now().UTC()
	todo := &models.Todo{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return todo, nil
}

// TodosByUser возвращает задачи пользователя, опционально фильтруя по
// статусу завершенности (nil — без фильтра).
func (s *Service) TodosByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.Todo, error) {
	const op = "service.todo.TodosByUser"

	todos, err := s.storage.TodosByUser(ctx, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return todos, nil
}

// TodoByID возвращает задачу по её строковому идентификатору. Чужие
// задачи неотличимы от несуществующих — в обоих случаях ErrNotFound.
func (s *Service) TodoByID(ctx context.Context, userID uuid.UUID, todoID string) (*models.Todo, error) {
	const op = "service.todo.TodoByID"

	id, err := parseID(todoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	todo, err := s.storage.TodoByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return todo, nil
}

// UpdateTodo частично обновляет задачу: меняются только поля, заданные
// в patch, остальные сохраняют прежние значения.
func (s *Service) UpdateTodo(ctx context.Context, userID uuid.UUID, todoID string, patch models.TodoPatch) (*models.Todo, error) {
	const op = "service.todo.UpdateTodo"

	id, err := parseID(todoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyTitle)
		}
		patch.Title = &trimmed
	}

	todo, err := s.storage.UpdateTodo(ctx, id, userID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return todo, nil
}

// DeleteTodo удаляет задачу пользователя.
func (s *Service) DeleteTodo(ctx context.Context, userID uuid.UUID, todoID string) error {
	const op = "service.todo.DeleteTodo"

	id, err := parseID(todoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteTodo(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// parseID разбирает строковый UUID; некорректная строка — ErrInvalidID,
// а не ErrNotFound: это ошибка запроса, не отсутствие ресурса.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}

	return id, nil
}
