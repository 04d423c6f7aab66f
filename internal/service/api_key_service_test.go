package service

import (
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAPIKeyService(t *testing.T) *APIKeyService {
	t.Helper()
	db := newTestDB(t)
	return NewAPIKeyService(repository.NewAPIKeyRepository(db))
}

func TestAPIKeyLifecycle(t *testing.T) {
	s := newAPIKeyService(t)

	created, err := s.Create(1, "ci-bot")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(created.PlainKey, "pp_"))
	require.Equal(t, created.PlainKey[:10], created.Key.Prefix)
	// 明文不落库
	require.NotEqual(t, created.PlainKey, created.Key.KeyHash)

	keys, err := s.List(1)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "ci-bot", keys[0].Name)

	key, err := s.Authenticate(created.PlainKey)
	require.NoError(t, err)
	require.Equal(t, uint(1), key.UserID)

	require.NoError(t, s.Revoke(1, created.Key.ID))

	_, err = s.Authenticate(created.PlainKey)
	require.ErrorIs(t, err, util.ErrAPIKeyRevoked)

	err = s.Revoke(1, created.Key.ID)
	require.ErrorIs(t, err, util.ErrAPIKeyRevoked)
}

func TestAPIKeyAuthenticateUnknown(t *testing.T) {
	s := newAPIKeyService(t)

	_, err := s.Authenticate("pp_not_a_real_key")
	require.ErrorIs(t, err, util.ErrAPIKeyNotFound)
}

func TestAPIKeyRevokeForeignKey(t *testing.T) {
	s := newAPIKeyService(t)

	created, err := s.Create(1, "mine")
	require.NoError(t, err)

	// 其他用户无法吊销
	err = s.Revoke(2, created.Key.ID)
	require.ErrorIs(t, err, util.ErrAPIKeyNotFound)
}
