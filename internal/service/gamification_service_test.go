package service

import (
	"prompt_party_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func badgeIDs(badges []model.Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestInitializeUserProgress(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.gamification.InitializeUserProgress(1))

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Equal(t, 0, progress.Points)
	require.Equal(t, model.LevelBeginner, progress.Level)
	require.Equal(t, 0, progress.StreakDays)
	require.NotNil(t, progress.LastActivityDate)

	// 重复初始化不覆盖已有进度
	_, err = f.gamification.AwardPoints(1, 10, "test")
	require.NoError(t, err)
	require.NoError(t, f.gamification.InitializeUserProgress(1))

	progress, err = f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 10, progress.Points)
}

func TestAwardPointsAccumulatesAndRecomputesLevel(t *testing.T) {
	f := newFixture(t)

	result, err := f.gamification.AwardPoints(1, 60, "first")
	require.NoError(t, err)
	require.Equal(t, 60, result.PointsAwarded)
	require.Equal(t, 60, result.TotalPoints)

	result, err = f.gamification.AwardPoints(1, 60, "second")
	require.NoError(t, err)
	require.Equal(t, 120, result.TotalPoints)

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, model.LevelIntermediate, progress.Level)

	result, err = f.gamification.AwardPoints(1, 400, "third")
	require.NoError(t, err)
	require.Equal(t, 520, result.TotalPoints)

	progress, err = f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, model.LevelExpert, progress.Level)
}

func TestCompleteLessonAwardsPointsAndBadge(t *testing.T) {
	f := newFixture(t)

	result, err := f.gamification.CompleteLesson(1, "lesson-1", 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.LessonsCompleted)
	require.Equal(t, DefaultLessonPoints, result.PointsAwarded)
	require.Contains(t, badgeIDs(result.BadgesUnlocked), "first_lesson")

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, DefaultLessonPoints, progress.Points)
	require.Equal(t, 1, progress.LessonsCompleted)
}

func TestCompleteLessonCustomPoints(t *testing.T) {
	f := newFixture(t)

	result, err := f.gamification.CompleteLesson(1, "lesson-1", 75)
	require.NoError(t, err)
	require.Equal(t, 75, result.PointsAwarded)

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 75, progress.Points)
}

func TestLessonBadgeProgression(t *testing.T) {
	f := newFixture(t)

	var unlocked []string
	for i := 0; i < 5; i++ {
		result, err := f.gamification.CompleteLesson(1, "lesson", 0)
		require.NoError(t, err)
		unlocked = append(unlocked, badgeIDs(result.BadgesUnlocked)...)
	}

	require.Contains(t, unlocked, "first_lesson")
	require.Contains(t, unlocked, "lessons_5")

	// 每个徽章只解锁一次
	count := 0
	for _, id := range unlocked {
		if id == "lessons_5" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestSharePromptAwardsPointsAndBadge(t *testing.T) {
	f := newFixture(t)

	result, err := f.gamification.SharePrompt(1, "prompt-1", 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.PromptsShared)
	require.Equal(t, DefaultPromptPoints, result.PointsAwarded)
	require.Contains(t, badgeIDs(result.BadgesUnlocked), "first_share")
}

func TestHelpPersonAwardsPointsAndBadge(t *testing.T) {
	f := newFixture(t)

	result, err := f.gamification.HelpPerson(1, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.PeopleHelped)
	require.Equal(t, DefaultHelpPoints, result.PointsAwarded)
	require.Contains(t, badgeIDs(result.BadgesUnlocked), "first_help")
}

func TestUpdateStreakWithoutProgress(t *testing.T) {
	f := newFixture(t)

	result, err := f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 0, result.Streak)
}

func TestUpdateStreakDayTransitions(t *testing.T) {
	f := newFixture(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.gamification.now = func() time.Time { return base }

	require.NoError(t, f.gamification.InitializeUserProgress(1))

	// 同一天不变
	result, err := f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 0, result.Streak)

	// 第二天 +1
	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 1) }
	result, err = f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)

	// 再次连续 +1
	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 2) }
	result, err = f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 2, result.Streak)

	// 断档重置为 1
	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 5) }
	result, err = f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)

	// 时钟回拨按同一天处理
	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 4) }
	result, err = f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)
}

func TestUpdateStreakAcrossDSTSpringForward(t *testing.T) {
	f := newFixture(t)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 凌晨 2 点进入夏令时，该日历日只有 23 小时
	base := time.Date(2026, 3, 8, 12, 0, 0, 0, loc)
	f.gamification.now = func() time.Time { return base }
	require.NoError(t, f.gamification.InitializeUserProgress(1))

	// 相邻日历日照常 +1
	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 1) }
	result, err := f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)
}

func TestUpdateStreakGapAcrossDSTResets(t *testing.T) {
	f := newFixture(t)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	base := time.Date(2026, 3, 6, 12, 0, 0, 0, loc)
	f.gamification.now = func() time.Time { return base }
	require.NoError(t, f.gamification.InitializeUserProgress(1))

	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 1) }
	result, err := f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)

	// 03-07 到 03-09 隔了一天，虽然两个本地午夜之间只有 47 小时
	f.gamification.now = func() time.Time { return base.AddDate(0, 0, 3) }
	result, err = f.gamification.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)
}

func TestUpdateStreakMilestoneBadges(t *testing.T) {
	f := newFixture(t)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	f.gamification.now = func() time.Time { return base }
	require.NoError(t, f.gamification.InitializeUserProgress(1))

	for day := 1; day <= 3; day++ {
		offset := day
		f.gamification.now = func() time.Time { return base.AddDate(0, 0, offset) }
		_, err := f.gamification.UpdateStreak(1)
		require.NoError(t, err)
	}

	earned, err := f.badgeRepo.HasEarned(1, "streak_3")
	require.NoError(t, err)
	require.True(t, earned)

	earned, err = f.badgeRepo.HasEarned(1, "streak_7")
	require.NoError(t, err)
	require.False(t, earned)
}

func TestGetUserProgressAbsent(t *testing.T) {
	f := newFixture(t)

	progress, err := f.gamification.GetUserProgress(42)
	require.NoError(t, err)
	require.Nil(t, progress)
}
