package service

import (
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/require"
)

func newCollectionFixture(t *testing.T) (*fixture, *CollectionService, *PromptService) {
	t.Helper()
	f := newFixture(t)
	promptRepo := repository.NewPromptRepository(f.db)
	collectionRepo := repository.NewCollectionRepository(f.db)
	prompts := NewPromptService(promptRepo, f.gamification)
	collections := NewCollectionService(collectionRepo, promptRepo)
	return f, collections, prompts
}

func TestCollectionAddAndRemovePrompt(t *testing.T) {
	_, collections, prompts := newCollectionFixture(t)

	p, err := prompts.Create(2, PromptRequest{Title: "P", Content: "c"})
	require.NoError(t, err)
	_, _, err = prompts.Publish(2, p.ID, false)
	require.NoError(t, err)

	col, err := collections.Create(1, CollectionRequest{Name: "Favorites"})
	require.NoError(t, err)

	require.NoError(t, collections.AddPrompt(1, col.ID, p.ID))

	// 重复添加报错
	err = collections.AddPrompt(1, col.ID, p.ID)
	require.ErrorIs(t, err, util.ErrAlreadyInCollection)

	_, entries, err := collections.Get(col.ID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, p.ID, entries[0].PromptID)

	require.NoError(t, collections.RemovePrompt(1, col.ID, p.ID))

	_, entries, err = collections.Get(col.ID, 1)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCollectionCannotAddForeignDraft(t *testing.T) {
	_, collections, prompts := newCollectionFixture(t)

	draft, err := prompts.Create(2, PromptRequest{Title: "Draft", Content: "c"})
	require.NoError(t, err)

	col, err := collections.Create(1, CollectionRequest{Name: "Favorites"})
	require.NoError(t, err)

	err = collections.AddPrompt(1, col.ID, draft.ID)
	require.ErrorIs(t, err, util.ErrPromptNotPublic)

	// 自己的草稿可以收藏
	ownCol, err := collections.Create(2, CollectionRequest{Name: "Mine"})
	require.NoError(t, err)
	require.NoError(t, collections.AddPrompt(2, ownCol.ID, draft.ID))
}

func TestCollectionVisibility(t *testing.T) {
	_, collections, _ := newCollectionFixture(t)

	private, err := collections.Create(1, CollectionRequest{Name: "Private"})
	require.NoError(t, err)

	public, err := collections.Create(1, CollectionRequest{Name: "Public", IsPublic: true})
	require.NoError(t, err)

	_, _, err = collections.Get(private.ID, 2)
	require.ErrorIs(t, err, util.ErrCollectionNotFound)

	_, _, err = collections.Get(private.ID, 1)
	require.NoError(t, err)

	_, _, err = collections.Get(public.ID, 2)
	require.NoError(t, err)
}

func TestCollectionDeleteCascades(t *testing.T) {
	f, collections, prompts := newCollectionFixture(t)

	p, err := prompts.Create(1, PromptRequest{Title: "P", Content: "c"})
	require.NoError(t, err)
	_, _, err = prompts.Publish(1, p.ID, false)
	require.NoError(t, err)

	col, err := collections.Create(1, CollectionRequest{Name: "Favorites"})
	require.NoError(t, err)
	require.NoError(t, collections.AddPrompt(1, col.ID, p.ID))

	// 非所有者无法删除
	err = collections.Delete(2, col.ID)
	require.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, collections.Delete(1, col.ID))

	_, _, err = collections.Get(col.ID, 1)
	require.ErrorIs(t, err, util.ErrCollectionNotFound)

	entries, err := repository.NewCollectionRepository(f.db).FindPrompts(col.ID)
	require.NoError(t, err)
	require.Empty(t, entries)
}
