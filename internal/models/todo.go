package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo — задача пользователя.
type Todo struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch — частичное обновление задачи (только не-nil поля).
type TodoPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}
