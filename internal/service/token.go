package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshTokenType — значение клейма "type" у refresh-токенов.
// Access-токены выпускаются без этого клейма.
const refreshTokenType = "refresh"

// authClaims — клеймы подписываемых токенов: subject — email
// пользователя, refresh-токены дополнительно несут type="refresh".
type authClaims struct {
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// generateAccessToken выпускает access-токен с клеймами {sub, exp, iat, iss}.
func (s *Service) generateAccessToken(email string) (string, error) {
	const op = "service.token.generateAccessToken"

	token, err := s.signToken(email, s.cfg.AccessTokenTTL, "")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// generateRefreshToken выпускает refresh-токен: те же клеймы плюс type="refresh".
func (s *Service) generateRefreshToken(email string) (string, error) {
	const op = "service.token.generateRefreshToken"

	token, err := s.signToken(email, s.cfg.RefreshTokenTTL, refreshTokenType)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func (s *Service) signToken(email string, ttl time.Duration, tokenType string) (string, error) {
	now := s.now().UTC()

	claims := authClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// validateAccessToken валидирует access-токен и возвращает subject (email).
//
// Отклоняет: чужой алгоритм подписи (защита от algorithm confusion),
// битую подпись, истекший срок (отдельная ошибка ErrTokenExpired),
// пустой sub и refresh-токены — они для этой операции не годятся.
func (s *Service) validateAccessToken(tokenStr string) (string, error) {
	const op = "service.token.validateAccessToken"

	claims, err := s.parseToken(tokenStr)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType == refreshTokenType {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims.Subject, nil
}

// validateRefreshToken валидирует refresh-токен и возвращает subject (email).
// Корректно подписанный access-токен здесь отклоняется: нет type="refresh".
func (s *Service) validateRefreshToken(tokenStr string) (string, error) {
	const op = "service.token.validateRefreshToken"

	claims, err := s.parseToken(tokenStr)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType != refreshTokenType {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims.Subject, nil
}

func (s *Service) parseToken(tokenStr string) (*authClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &authClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
		jwt.WithLeeway(5*time.Second),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
