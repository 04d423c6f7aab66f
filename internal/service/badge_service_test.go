package service

import (
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckAndAwardBadgesWithoutProgress(t *testing.T) {
	f := newFixture(t)

	badges, err := f.badges.CheckAndAwardBadges(1)
	require.NoError(t, err)
	require.Empty(t, badges)
}

func TestCheckAndAwardBadgesThresholds(t *testing.T) {
	f := newFixture(t)

	progress, err := f.progressRepo.FindOrCreate(1)
	require.NoError(t, err)
	progress.LessonsCompleted = 5
	require.NoError(t, f.db.Save(progress).Error)

	badges, err := f.badges.CheckAndAwardBadges(1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"first_lesson", "lessons_5"}, badgeIDs(badges))

	// 幂等：再次调用无新解锁
	badges, err = f.badges.CheckAndAwardBadges(1)
	require.NoError(t, err)
	require.Empty(t, badges)
}

func TestCheckAndAwardBadgesBelowThreshold(t *testing.T) {
	f := newFixture(t)

	progress, err := f.progressRepo.FindOrCreate(1)
	require.NoError(t, err)
	progress.LessonsCompleted = 4
	require.NoError(t, f.db.Save(progress).Error)

	badges, err := f.badges.CheckAndAwardBadges(1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"first_lesson"}, badgeIDs(badges))
}

func TestSpecialBadgesNeverAutoAwarded(t *testing.T) {
	f := newFixture(t)

	progress, err := f.progressRepo.FindOrCreate(1)
	require.NoError(t, err)
	progress.StreakDays = 30
	require.NoError(t, f.db.Save(progress).Error)

	badges, err := f.badges.CheckAndAwardBadges(1)
	require.NoError(t, err)
	for _, b := range badges {
		require.NotEqual(t, model.ConditionSpecial, b.ConditionType)
	}

	earned, err := f.badgeRepo.HasEarned(1, "streak_30")
	require.NoError(t, err)
	require.False(t, earned)
}

func TestAwardSpecialBadgeIdempotent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.badges.AwardSpecialBadge(1, "early_adopter"))

	err := f.badges.AwardSpecialBadge(1, "early_adopter")
	require.ErrorIs(t, err, util.ErrBadgeAlreadyEarned)
	require.EqualError(t, err, "Badge already earned")
}

func TestGetUserBadgesOrderedByEarnedAt(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.badges.AwardSpecialBadge(1, "early_adopter"))
	require.NoError(t, f.badges.AwardSpecialBadge(1, "streak_3"))

	earned, err := f.badges.GetUserBadges(1)
	require.NoError(t, err)
	require.Len(t, earned, 2)
	// 徽章目录信息随行返回
	for _, ub := range earned {
		require.NotEmpty(t, ub.Badge.Name)
	}
}

func TestGetCatalog(t *testing.T) {
	f := newFixture(t)

	catalog, err := f.badges.GetCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, catalog)
}
