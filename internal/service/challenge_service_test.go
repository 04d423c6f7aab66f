package service

import (
	"prompt_party_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func createChallenge(t *testing.T, f *fixture, challenge *model.Challenge) *model.Challenge {
	t.Helper()
	require.NoError(t, f.challenges.CreateChallenge(challenge))
	return challenge
}

func TestChallengeCompletionDisbursesRewardOnce(t *testing.T) {
	f := newFixture(t)

	badgeID := "prompts_5"
	challenge := createChallenge(t, f, &model.Challenge{
		Title:         "Weekly Creator",
		GoalType:      model.GoalPrompts,
		GoalValue:     5,
		RewardPoints:  100,
		RewardBadgeID: &badgeID,
		EndDate:       time.Now().AddDate(0, 0, 7),
		IsActive:      true,
	})

	require.NoError(t, f.gamification.InitializeUserProgress(1))

	// 4 次推进：未完成，不发奖励
	for i := 0; i < 4; i++ {
		require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalPrompts, 1))
	}

	ucp, err := f.challengeRepo.FindUserProgress(1, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, 4, ucp.CurrentProgress)
	require.False(t, ucp.Completed)
	require.Nil(t, ucp.CompletedAt)

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 0, progress.Points)
	require.Equal(t, 0, progress.ChallengesCompleted)

	// 第 5 次跨过阈值：发放积分、计数与奖励徽章
	require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalPrompts, 1))

	ucp, err = f.challengeRepo.FindUserProgress(1, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, 5, ucp.CurrentProgress)
	require.True(t, ucp.Completed)
	require.NotNil(t, ucp.CompletedAt)

	progress, err = f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 100, progress.Points)
	require.Equal(t, 1, progress.ChallengesCompleted)

	earned, err := f.badgeRepo.HasEarned(1, badgeID)
	require.NoError(t, err)
	require.True(t, earned)

	// 完成后的推进不再改动进度，也不重复发奖
	require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalPrompts, 1))

	ucp, err = f.challengeRepo.FindUserProgress(1, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, 5, ucp.CurrentProgress)

	progress, err = f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 100, progress.Points)
	require.Equal(t, 1, progress.ChallengesCompleted)
}

func TestChallengeFirstIncrementCompletes(t *testing.T) {
	f := newFixture(t)

	challenge := createChallenge(t, f, &model.Challenge{
		Title:        "One Shot",
		GoalType:     model.GoalLessons,
		GoalValue:    1,
		RewardPoints: 50,
		EndDate:      time.Now().AddDate(0, 0, 1),
		IsActive:     true,
	})

	require.NoError(t, f.gamification.InitializeUserProgress(1))
	require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalLessons, 1))

	ucp, err := f.challengeRepo.FindUserProgress(1, challenge.ID)
	require.NoError(t, err)
	require.True(t, ucp.Completed)
	require.NotNil(t, ucp.CompletedAt)

	progress, err := f.gamification.GetUserProgress(1)
	require.NoError(t, err)
	require.Equal(t, 50, progress.Points)
	require.Equal(t, 1, progress.ChallengesCompleted)
}

func TestExpiredChallengeNotAdvanced(t *testing.T) {
	f := newFixture(t)

	challenge := createChallenge(t, f, &model.Challenge{
		Title:     "Last Week",
		GoalType:  model.GoalPrompts,
		GoalValue: 3,
		EndDate:   time.Now().AddDate(0, 0, -1),
		IsActive:  true,
	})

	require.NoError(t, f.gamification.InitializeUserProgress(1))
	require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalPrompts, 1))

	_, err := f.challengeRepo.FindUserProgress(1, challenge.ID)
	require.Error(t, err)
}

func TestGoalTypeMismatchNotAdvanced(t *testing.T) {
	f := newFixture(t)

	challenge := createChallenge(t, f, &model.Challenge{
		Title:     "Lesson Sprint",
		GoalType:  model.GoalLessons,
		GoalValue: 3,
		EndDate:   time.Now().AddDate(0, 0, 7),
		IsActive:  true,
	})

	require.NoError(t, f.gamification.InitializeUserProgress(1))
	require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalPrompts, 1))

	_, err := f.challengeRepo.FindUserProgress(1, challenge.ID)
	require.Error(t, err)
}

func TestGetUserActiveChallenges(t *testing.T) {
	f := newFixture(t)

	createChallenge(t, f, &model.Challenge{
		Title:     "Active",
		GoalType:  model.GoalPrompts,
		GoalValue: 5,
		EndDate:   time.Now().AddDate(0, 0, 7),
		IsActive:  true,
	})

	require.NoError(t, f.gamification.InitializeUserProgress(1))
	require.NoError(t, f.challenges.UpdateChallengeProgress(1, model.GoalPrompts, 2))

	active, err := f.challenges.GetUserActiveChallenges(1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, 2, active[0].CurrentProgress)
	require.Equal(t, "Active", active[0].Challenge.Title)
}

func TestDeactivateExpired(t *testing.T) {
	f := newFixture(t)

	createChallenge(t, f, &model.Challenge{
		Title:     "Over",
		GoalType:  model.GoalPrompts,
		GoalValue: 5,
		EndDate:   time.Now().AddDate(0, 0, -2),
		IsActive:  true,
	})
	createChallenge(t, f, &model.Challenge{
		Title:     "Ongoing",
		GoalType:  model.GoalPrompts,
		GoalValue: 5,
		EndDate:   time.Now().AddDate(0, 0, 2),
		IsActive:  true,
	})

	n, err := f.challenges.DeactivateExpired()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// 二次执行无事可做
	n, err = f.challenges.DeactivateExpired()
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}
