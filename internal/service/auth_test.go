package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-todo-service/internal/config"
	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/ratelimit"
	"github.com/pribylovaa/go-todo-service/internal/storage"
	"github.com/pribylovaa/go-todo-service/mocks"
)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "unit-secret",
		AccessTokenTTL:  30 * time.Second,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "todo-service",
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := New(st, testCfg(), ratelimit.New(5, 300*time.Second))
	// Задержку перебора в юнит-тестах не выдерживаем, только фиксируем.
	svc.sleep = func(time.Duration) {}
	return svc, st, ctrl
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestRegisterUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	email := "User@Example.com"
	norm := "user@example.com"
	pw := "Abcdef1!"

	st.EXPECT().UserByEmail(gomock.Any(), norm).Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			require.Equal(t, norm, u.Email)
			require.NotEqual(t, uuid.Nil, u.ID)
			require.True(t, u.IsActive)
			require.True(t, checkPassword(u.PasswordHash, pw))
			require.Nil(t, u.RefreshToken)
			return nil
		})

	user, err := svc.RegisterUser(ctx, email, pw, "Ada", "Lovelace")
	require.NoError(t, err)
	require.Equal(t, norm, user.Email)
	require.Equal(t, "Ada", user.FirstName)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.RegisterUser(context.Background(), "not-an-email", "Abcdef1!", "", "")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRegisterUser_WeakPassword_PerRule(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@e.com", "Ab1!", "", "")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.RegisterUser(ctx, "u@e.com", "abcdef1!", "", "")
	require.ErrorIs(t, err, ErrPasswordNoUpper)

	_, err = svc.RegisterUser(ctx, "u@e.com", "Abcdefg1", "", "")
	require.ErrorIs(t, err, ErrPasswordNoSpecial)
}

func TestRegisterUser_EmailAlreadyExists_OnLookup(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Если UserByEmail вернул пользователя (err == nil) - считается занятым email.
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: uuid.New(), Email: "user@example.com"}, nil)

	_, err := svc.RegisterUser(context.Background(), "user@example.com", "Abcdef1!", "", "")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterUser_SaveUserAlreadyExists_MapsToEmailTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).
		Return(storage.ErrAlreadyExists)

	_, err := svc.RegisterUser(context.Background(), "user@example.com", "Abcdef1!", "", "")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterUser_StorageLookupError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(nil, errors.New("db down"))

	_, err := svc.RegisterUser(context.Background(), "user@example.com", "Abcdef1!", "", "")
	require.Error(t, err)
}

func TestLoginUser_OK_PersistsRefreshToken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	email := "user@example.com"
	pw := "Abcdef1!"
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: mustHashPW(t, pw),
	}

	var persisted *string
	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)
	st.EXPECT().UpdateRefreshToken(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, token *string) error {
			persisted = token
			return nil
		})

	tp, got, err := svc.LoginUser(ctx, email, pw)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, tp.AccessToken)
	require.NotEmpty(t, tp.RefreshToken)
	require.Equal(t, "bearer", tp.TokenType)

	// Refresh-токен записан в хранилище до возврата ответа и совпадает
	// с выданным клиенту.
	require.NotNil(t, persisted)
	require.Equal(t, tp.RefreshToken, *persisted)

	require.WithinDuration(t, time.Now().Add(svc.cfg.AccessTokenTTL), tp.AccessExpiresAt, 2*time.Second)
}

func TestLoginUser_InvalidEmailFormat(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, _, err := svc.LoginUser(context.Background(), "bad", "Abcdef1!")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_UserNotFound_DelaysAndReturnsInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	var slept time.Duration
	svc.sleep = func(d time.Duration) { slept = d }

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(nil, storage.ErrNotFound)

	_, _, err := svc.LoginUser(context.Background(), "user@example.com", "Abcdef1!")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Отсутствующий пользователь получает ту же задержку, что и неверный
	// пароль: иначе по времени ответа можно перечислять аккаунты.
	require.Equal(t, bruteForceDelay, slept)
}

func TestLoginUser_WrongPassword_DelaysAndReturnsInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	var slept time.Duration
	svc.sleep = func(d time.Duration) { slept = d }

	user := &models.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: mustHashPW(t, "Abcdef1!")}
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").Return(user, nil)

	_, _, err := svc.LoginUser(context.Background(), "user@example.com", "WRONG1!a")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, bruteForceDelay, slept)
}

func TestLoginUser_RateLimited_AfterLimitExceeded(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	email := "user@example.com"

	// Пять попыток проходят до лимитера, шестая отсекается до обращения
	// к хранилищу (на неё нет EXPECT).
	st.EXPECT().UserByEmail(gomock.Any(), email).
		Return(nil, storage.ErrNotFound).Times(5)

	for i := 0; i < 5; i++ {
		_, _, err := svc.LoginUser(ctx, email, "Abcdef1!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := svc.LoginUser(ctx, email, "Abcdef1!")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestLoginUser_RateLimitKey_IgnoresCase(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	// Регистр и пробелы нормализуются до лимитера: иначе лимит обходится
	// вариациями написания одного адреса.
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(nil, storage.ErrNotFound).Times(5)

	variants := []string{
		"user@example.com",
		"USER@example.com",
		"User@Example.Com",
		" user@example.com ",
		"user@EXAMPLE.com",
	}
	for _, v := range variants {
		_, _, err := svc.LoginUser(ctx, v, "Abcdef1!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := svc.LoginUser(ctx, "user@example.com", "Abcdef1!")
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestRefreshToken_OK_NoRotation(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	email := "user@example.com"
	user := &models.User{ID: uuid.New(), Email: email, PasswordHash: "hash"}

	refresh, err := svc.generateRefreshToken(email)
	require.NoError(t, err)
	user.RefreshToken = &refresh

	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)

	tp, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, tp.AccessToken)
	// Refresh-токен не ротируется: в ответе его нет, хранимое значение
	// не перезаписывается (на UpdateRefreshToken нет EXPECT).
	require.Empty(t, tp.RefreshToken)
}

func TestRefreshToken_StoredMismatch_Rejected(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	email := "user@example.com"

	// Оба токена подписаны нами и криптографически валидны, но хранится
	// другой: предъявленный отклоняется.
	presented, err := svc.generateRefreshToken(email)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(10 * time.Second) }
	stored, err := svc.generateRefreshToken(email)
	require.NoError(t, err)
	require.NotEqual(t, presented, stored)

	user := &models.User{ID: uuid.New(), Email: email, RefreshToken: &stored}
	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)

	_, err = svc.RefreshToken(ctx, presented)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken_AfterLogout_Rejected(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	email := "user@example.com"

	refresh, err := svc.generateRefreshToken(email)
	require.NoError(t, err)

	// После логаута хранимый refresh-токен сброшен в NULL.
	user := &models.User{ID: uuid.New(), Email: email, RefreshToken: nil}
	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)

	_, err = svc.RefreshToken(ctx, refresh)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	access, err := svc.generateAccessToken("user@example.com")
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), access)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken_UserGone_Rejected(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	refresh, err := svc.generateRefreshToken("gone@example.com")
	require.NoError(t, err)

	st.EXPECT().UserByEmail(gomock.Any(), "gone@example.com").
		Return(nil, storage.ErrNotFound)

	_, err = svc.RefreshToken(context.Background(), refresh)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_ClearsStoredRefreshToken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	email := "user@example.com"
	user := &models.User{ID: uuid.New(), Email: email}

	access, err := svc.generateAccessToken(email)
	require.NoError(t, err)

	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)
	st.EXPECT().UpdateRefreshToken(gomock.Any(), user.ID, gomock.Nil()).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), access))
}

func TestLogout_Idempotent_WhenUserGoneDuringUpdate(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	email := "user@example.com"
	user := &models.User{ID: uuid.New(), Email: email}

	access, err := svc.generateAccessToken(email)
	require.NoError(t, err)

	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)
	st.EXPECT().UpdateRefreshToken(gomock.Any(), user.ID, gomock.Nil()).
		Return(storage.ErrNotFound)

	require.NoError(t, svc.Logout(context.Background(), access))
}

func TestCurrentUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	email := "user@example.com"
	user := &models.User{ID: uuid.New(), Email: email}

	access, err := svc.generateAccessToken(email)
	require.NoError(t, err)

	st.EXPECT().UserByEmail(gomock.Any(), email).Return(user, nil)

	got, err := svc.CurrentUser(context.Background(), access)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestCurrentUser_EmptyToken(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.CurrentUser(context.Background(), "")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCurrentUser_AccountGone(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	access, err := svc.generateAccessToken("gone@example.com")
	require.NoError(t, err)

	st.EXPECT().UserByEmail(gomock.Any(), "gone@example.com").
		Return(nil, storage.ErrNotFound)

	_, err = svc.CurrentUser(context.Background(), access)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthenticated)
}
