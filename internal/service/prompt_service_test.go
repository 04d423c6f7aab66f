package service

import (
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/require"
)

func newPromptFixture(t *testing.T) (*fixture, *PromptService) {
	t.Helper()
	f := newFixture(t)
	promptRepo := repository.NewPromptRepository(f.db)
	return f, NewPromptService(promptRepo, f.gamification)
}

func TestPromptCreateStartsAsDraft(t *testing.T) {
	_, prompts := newPromptFixture(t)

	prompt, err := prompts.Create(1, PromptRequest{Title: "Summarizer", Content: "Summarize: {{text}}"})
	require.NoError(t, err)
	require.Equal(t, model.VisibilityDraft, prompt.Visibility)
	require.Nil(t, prompt.SharedAt)
}

func TestPromptVisibilityRules(t *testing.T) {
	_, prompts := newPromptFixture(t)

	draft, err := prompts.Create(1, PromptRequest{Title: "Draft", Content: "c"})
	require.NoError(t, err)

	// 作者可读自己的草稿
	got, err := prompts.Get(draft.ID, 1)
	require.NoError(t, err)
	require.Equal(t, draft.ID, got.ID)

	// 其他人读草稿如同不存在
	_, err = prompts.Get(draft.ID, 2)
	require.ErrorIs(t, err, util.ErrPromptNotFound)

	// 发布后任何人可读
	_, _, err = prompts.Publish(1, draft.ID, false)
	require.NoError(t, err)

	_, err = prompts.Get(draft.ID, 2)
	require.NoError(t, err)
}

func TestPromptUnlistedPublish(t *testing.T) {
	f, prompts := newPromptFixture(t)

	draft, err := prompts.Create(1, PromptRequest{Title: "Secret", Content: "c"})
	require.NoError(t, err)

	published, share, err := prompts.Publish(1, draft.ID, true)
	require.NoError(t, err)
	require.Equal(t, model.VisibilityUnlisted, published.Visibility)
	require.NotNil(t, published.SharedAt)
	require.Equal(t, 1, share.PromptsShared)

	// 知道链接即可读和二创
	got, err := prompts.Get(draft.ID, 2)
	require.NoError(t, err)
	require.Equal(t, draft.ID, got.ID)

	remix, err := prompts.Remix(2, draft.ID)
	require.NoError(t, err)
	require.Equal(t, uint(2), remix.AuthorID)

	// 不进入公开列表
	list, total, err := prompts.List(repository.PromptFilter{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, list)

	// 发布过的提示词不能再次发布
	_, _, err = prompts.Publish(1, draft.ID, false)
	require.ErrorIs(t, err, util.ErrAlreadyPublished)

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 1, progress.PromptsShared)
}

func TestPromptPublishRewardsOnce(t *testing.T) {
	f, prompts := newPromptFixture(t)

	draft, err := prompts.Create(1, PromptRequest{Title: "P", Content: "c"})
	require.NoError(t, err)

	published, share, err := prompts.Publish(1, draft.ID, false)
	require.NoError(t, err)
	require.Equal(t, model.VisibilityPublic, published.Visibility)
	require.NotNil(t, published.SharedAt)
	require.Equal(t, 1, share.PromptsShared)
	require.Equal(t, DefaultPromptPoints, share.PointsAwarded)

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, DefaultPromptPoints, progress.Points)
	require.Equal(t, 1, progress.PromptsShared)

	// 重复发布不再奖励
	_, _, err = prompts.Publish(1, draft.ID, false)
	require.ErrorIs(t, err, util.ErrAlreadyPublished)

	progress, err = f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, DefaultPromptPoints, progress.Points)
}

func TestPromptPublishRequiresOwnership(t *testing.T) {
	_, prompts := newPromptFixture(t)

	draft, err := prompts.Create(1, PromptRequest{Title: "P", Content: "c"})
	require.NoError(t, err)

	_, _, err = prompts.Publish(2, draft.ID, false)
	require.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestPromptRemix(t *testing.T) {
	_, prompts := newPromptFixture(t)

	source, err := prompts.Create(1, PromptRequest{Title: "Original", Content: "base"})
	require.NoError(t, err)

	// 非公开来源他人不可二创
	_, err = prompts.Remix(2, source.ID)
	require.ErrorIs(t, err, util.ErrPromptNotPublic)

	_, _, err = prompts.Publish(1, source.ID, false)
	require.NoError(t, err)

	remix, err := prompts.Remix(2, source.ID)
	require.NoError(t, err)
	require.Equal(t, "Original (remix)", remix.Title)
	require.Equal(t, uint(2), remix.AuthorID)
	require.Equal(t, model.VisibilityDraft, remix.Visibility)
	require.NotNil(t, remix.RemixOfID)
	require.Equal(t, source.ID, *remix.RemixOfID)
}

func TestPromptRating(t *testing.T) {
	_, prompts := newPromptFixture(t)

	p, err := prompts.Create(1, PromptRequest{Title: "P", Content: "c"})
	require.NoError(t, err)
	_, _, err = prompts.Publish(1, p.ID, false)
	require.NoError(t, err)

	require.ErrorIs(t, prompts.Rate(2, p.ID, 0), util.ErrInvalidRating)
	require.ErrorIs(t, prompts.Rate(2, p.ID, 6), util.ErrInvalidRating)

	require.NoError(t, prompts.Rate(2, p.ID, 4))
	require.NoError(t, prompts.Rate(3, p.ID, 2))

	got, err := prompts.Get(p.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 2, got.RatingCount)
	require.InDelta(t, 3.0, got.AverageRating(), 0.001)

	// 重复评分覆盖旧值
	require.NoError(t, prompts.Rate(2, p.ID, 5))

	got, err = prompts.Get(p.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 2, got.RatingCount)
	require.InDelta(t, 3.5, got.AverageRating(), 0.001)
}

func TestPromptTrackUsage(t *testing.T) {
	f, prompts := newPromptFixture(t)

	p, err := prompts.Create(1, PromptRequest{Title: "P", Content: "c"})
	require.NoError(t, err)
	_, _, err = prompts.Publish(1, p.ID, false)
	require.NoError(t, err)

	userID := uint(7)
	require.NoError(t, prompts.TrackUsage(p.ID, &userID, "web"))
	require.NoError(t, prompts.TrackUsage(p.ID, nil, "api"))

	got, err := prompts.Get(p.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 2, got.UsageCount)

	var events int64
	require.NoError(t, f.db.Model(&model.PromptUsage{}).Where("prompt_id = ?", p.ID).Count(&events).Error)
	require.Equal(t, int64(2), events)

	require.ErrorIs(t, prompts.TrackUsage(9999, nil, "web"), util.ErrPromptNotFound)
}

func TestPromptListPublicOnly(t *testing.T) {
	_, prompts := newPromptFixture(t)

	_, err := prompts.Create(1, PromptRequest{Title: "Draft", Content: "c"})
	require.NoError(t, err)

	p, err := prompts.Create(1, PromptRequest{Title: "Public", Content: "c", Category: "writing"})
	require.NoError(t, err)
	_, _, err = prompts.Publish(1, p.ID, false)
	require.NoError(t, err)

	list, total, err := prompts.List(repository.PromptFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.Equal(t, "Public", list[0].Title)

	list, total, err = prompts.List(repository.PromptFilter{Category: "coding"})
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
	require.Empty(t, list)
}
