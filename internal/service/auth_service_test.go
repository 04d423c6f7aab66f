package service

import (
	"prompt_party_backend/internal/config"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fixture, *AuthService) {
	t.Helper()
	f := newFixture(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-for-unit-tests-only"
	cfg.JWT.ExpireTime = time.Hour
	auth := NewAuthService(repository.NewUserRepository(f.db), f.gamification, cfg)
	return f, auth
}

func TestRegisterInitializesProgress(t *testing.T) {
	f, auth := newAuthFixture(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret-password", Role: model.Member}
	require.NoError(t, auth.Register(user))
	require.NotZero(t, user.ID)
	// 密码以哈希存储
	require.NotEqual(t, "secret-password", user.Password)

	progress, err := f.gamification.GetUserProgress(user.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Equal(t, 0, progress.Points)
	require.Equal(t, model.LevelBeginner, progress.Level)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, auth := newAuthFixture(t)

	require.NoError(t, auth.Register(&model.User{Name: "Ada", Email: "ada@example.com", Password: "pw1234567", Role: model.Member}))

	err := auth.Register(&model.User{Name: "Eve", Email: "ada@example.com", Password: "pw1234567", Role: model.Member})
	require.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	_, auth := newAuthFixture(t)

	require.NoError(t, auth.Register(&model.User{Name: "Ada", Email: "ada@example.com", Password: "secret-password", Role: model.Member}))

	token, err := auth.Login("ada@example.com", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)

	_, err = auth.Login("ada@example.com", "wrong")
	require.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = auth.Login("nobody@example.com", "secret-password")
	require.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginDisabledUser(t *testing.T) {
	f, auth := newAuthFixture(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret-password", Role: model.Member}
	require.NoError(t, auth.Register(user))
	require.NoError(t, f.db.Model(user).Update("disabled", true).Error)

	_, err := auth.Login("ada@example.com", "secret-password")
	require.ErrorIs(t, err, util.ErrPermissionDenied)
}
