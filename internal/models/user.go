package models

import (
	"time"

	"github.com/google/uuid"
)

// User — модель пользователя в системе.
//
// RefreshToken — "живой" refresh-токен пользователя (nullable):
// ровно одно значение валидно в каждый момент времени; логин
// перезаписывает его, логаут обнуляет.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch — частичное обновление профиля. Обновляются только
// не-nil поля; смена email/пароля сюда сознательно не входит.
type UserPatch struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
}
