package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/storage"
)

// SaveTodo создает новую задачу.
func (s *Storage) SaveTodo(ctx context.Context, todo *models.Todo) error {
	const op = "storage.postgres.SaveTodo"

	query := `
		INSERT INTO todos(id, user_id, title, description, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TodoByID находит задачу по ID в рамках пользователя.
func (s *Storage) TodoByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error) {
	const op = "storage.postgres.TodoByID"

	query := `
		SELECT id, user_id, title, description, is_completed, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	var todo models.Todo
	err := s.db.QueryRow(ctx, query, id, userID).Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.IsCompleted,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &todo, nil
}

// TodosByUser возвращает задачи пользователя, свежие первыми.
// completed == nil — без фильтра по статусу.
func (s *Storage) TodosByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.Todo, error) {
	const op = "storage.postgres.TodosByUser"

	query := `
		SELECT id, user_id, title, description, is_completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1 AND ($2::boolean IS NULL OR is_completed = $2)
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.UserID,
			&todo.Title,
			&todo.Description,
			&todo.IsCompleted,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return todos, nil
}

// UpdateTodo применяет частичное обновление: NULL-аргументы оставляют
// прежнее значение (COALESCE), явная сборка без рефлексии.
func (s *Storage) UpdateTodo(ctx context.Context, id, userID uuid.UUID, patch models.TodoPatch) (*models.Todo, error) {
	const op = "storage.postgres.UpdateTodo"

	query := `
		UPDATE todos
		SET title        = COALESCE($3, title),
		    description  = COALESCE($4, description),
		    is_completed = COALESCE($5, is_completed),
		    updated_at   = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, is_completed, created_at, updated_at
	`

	var todo models.Todo
	err := s.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, patch.IsCompleted).Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.IsCompleted,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &todo, nil
}

// DeleteTodo удаляет задачу пользователя.
func (s *Storage) DeleteTodo(ctx context.Context, id, userID uuid.UUID) error {
	const op = "storage.postgres.DeleteTodo"

	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`

	cmdTag, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
