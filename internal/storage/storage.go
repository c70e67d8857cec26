package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-todo-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/задача).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdateUser применяет частичное обновление профиля и возвращает свежую запись.
	UpdateUser(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error)
	// UpdateRefreshToken перезаписывает текущий refresh-токен пользователя (nil — сброс).
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	// DeleteUser удаляет пользователя вместе с его задачами.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// TodoStorage выполняет операции над задачами. Все операции
// ограничены владельцем: чужая задача неотличима от несуществующей.
type TodoStorage interface {
	// SaveTodo создает новую задачу.
	SaveTodo(ctx context.Context, todo *models.Todo) error
	// TodoByID находит задачу по ID в рамках пользователя.
	TodoByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error)
	// TodosByUser возвращает задачи пользователя; completed — необязательный фильтр.
	TodosByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.Todo, error)
	// UpdateTodo применяет частичное обновление и возвращает свежую запись.
	UpdateTodo(ctx context.Context, id, userID uuid.UUID, patch models.TodoPatch) (*models.Todo, error)
	// DeleteTodo удаляет задачу пользователя.
	DeleteTodo(ctx context.Context, id, userID uuid.UUID) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	TodoStorage
	Close()
}
