package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Ошибки политики сложности пароля. Каждое правило — отдельная
// ошибка: вызывающий (и тесты) видят, какое именно правило нарушено.
var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong   = errors.New("password must not exceed 128 characters")
	ErrPasswordNoLower   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoUpper   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoDigit   = errors.New("password must contain at least one digit")
	ErrPasswordNoSpecial = errors.New("password must contain at least one special character")
)

// passwordSpecials — фиксированный набор допустимых спецсимволов.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// bcryptMaxLen — жесткий лимит bcrypt на длину входа в байтах.
const bcryptMaxLen = 72

// hashPassword хэширует пароль с помощью bcrypt.
//
// Вход длиннее 72 байт молча усекается до 72: это осознанное поведение,
// а не баг — bcrypt не учитывает байты дальше лимита, и без усечения
// GenerateFromPassword вернул бы ошибку. Следствие: пароли, различающиеся
// только после 72-го байта, дают одинаковый хэш.
func hashPassword(password string) (string, error) {
	const op = "service.password.hashPassword"

	raw := []byte(password)
	if len(raw) > bcryptMaxLen {
		raw = raw[:bcryptMaxLen]
	}

	bytes, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем. Никогда не паникует и не
// возвращает ошибку: битый хэш в БД равнозначен несовпадению.
func checkPassword(hash, password string) bool {
	raw := []byte(password)
	if len(raw) > bcryptMaxLen {
		raw = raw[:bcryptMaxLen]
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), raw) == nil
}

// ValidatePasswordStrength проверяет пароль по правилам политики.
// Правила применяются по порядку, возвращается первое нарушенное:
// длина [8,128], строчная, заглавная, цифра, спецсимвол из фиксированного
// набора. Вызывается только при регистрации, не при входе.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	if len(password) > 128 {
		return ErrPasswordTooLong
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasLower:
		return ErrPasswordNoLower
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}

	return nil
}
