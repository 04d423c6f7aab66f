package service

import (
	"errors"
	"fmt"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"prompt_party_backend/pkg/logger"
	"prompt_party_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 各类活动的默认积分值
const (
	DefaultLessonPoints = 50
	DefaultPromptPoints = 30
	DefaultHelpPoints   = 20
)

// 连续活跃里程碑对应的 special 徽章
var streakBadges = []struct {
	Days    int
	BadgeID string
}{
	{3, "streak_3"},
	{7, "streak_7"},
	{30, "streak_30"},
}

// GamificationService 进度账本：积分、等级、连续活跃天数和各项活动计数。
// 徽章解锁和挑战推进等副作用失败只记录日志，不阻断触发它们的用户操作。
type GamificationService struct {
	ProgressRepo     *repository.ProgressRepository
	BadgeService     *BadgeService
	ChallengeService *ChallengeService
	DB               *gorm.DB

	now func() time.Time
}

func NewGamificationService(
	progressRepo *repository.ProgressRepository,
	badgeService *BadgeService,
	challengeService *ChallengeService,
	db *gorm.DB,
) *GamificationService {
	return &GamificationService{
		ProgressRepo:     progressRepo,
		BadgeService:     badgeService,
		ChallengeService: challengeService,
		DB:               db,
		now:              time.Now,
	}
}

type AwardPointsResult struct {
	PointsAwarded int `json:"pointsAwarded"`
	TotalPoints   int `json:"totalPoints"`
}

type LessonResult struct {
	LessonsCompleted int           `json:"lessonsCompleted"`
	PointsAwarded    int           `json:"pointsAwarded"`
	BadgesUnlocked   []model.Badge `json:"badgesUnlocked"`
}

type ShareResult struct {
	PromptsShared  int           `json:"promptsShared"`
	PointsAwarded  int           `json:"pointsAwarded"`
	BadgesUnlocked []model.Badge `json:"badgesUnlocked"`
}

type HelpResult struct {
	PeopleHelped   int           `json:"peopleHelped"`
	PointsAwarded  int           `json:"pointsAwarded"`
	BadgesUnlocked []model.Badge `json:"badgesUnlocked"`
}

type StreakResult struct {
	Streak int `json:"streak"`
}

// InitializeUserProgress 注册时建立进度行，已存在则无操作。
func (s *GamificationService) InitializeUserProgress(userID uint) error {
	_, err := s.ProgressRepo.FindByUserID(userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	today := s.today()
	return s.ProgressRepo.Create(&model.UserProgress{
		UserID:           userID,
		Level:            model.LevelBeginner,
		LastActivityDate: &today,
	})
}

// AwardPoints 给用户累加积分并重算等级，返回新总分。进度行不存在时懒创建。
func (s *GamificationService) AwardPoints(userID uint, points int, reason string) (*AwardPointsResult, error) {
	if _, err := s.ProgressRepo.FindOrCreate(userID); err != nil {
		return nil, err
	}

	total, err := s.ProgressRepo.AddPoints(s.DB, userID, points)
	if err != nil {
		logger.Log.Error("award points failed",
			zap.Uint("userID", userID),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	return &AwardPointsResult{PointsAwarded: points, TotalPoints: total}, nil
}

// CompleteLesson 完成课程：计数 +1，奖励积分，检查徽章，推进 lessons 类挑战。
func (s *GamificationService) CompleteLesson(userID uint, lessonID string, points int) (*LessonResult, error) {
	if points <= 0 {
		points = DefaultLessonPoints
	}

	newCount, err := s.recordActivity(userID, "lessons_completed")
	if err != nil {
		return nil, err
	}

	s.awardActivityPoints(userID, points, "lesson", fmt.Sprintf("Completed lesson: %s", lessonID))
	badges := s.checkBadges(userID)
	s.advanceChallenges(userID, model.GoalLessons)

	return &LessonResult{
		LessonsCompleted: newCount,
		PointsAwarded:    points,
		BadgesUnlocked:   badges,
	}, nil
}

// SharePrompt 分享提示词：计数 +1，奖励积分，检查徽章，推进 prompts 类挑战。
func (s *GamificationService) SharePrompt(userID uint, promptID string, points int) (*ShareResult, error) {
	if points <= 0 {
		points = DefaultPromptPoints
	}

	newCount, err := s.recordActivity(userID, "prompts_shared")
	if err != nil {
		return nil, err
	}

	s.awardActivityPoints(userID, points, "prompt", fmt.Sprintf("Shared prompt: %s", promptID))
	badges := s.checkBadges(userID)
	s.advanceChallenges(userID, model.GoalPrompts)

	return &ShareResult{
		PromptsShared:  newCount,
		PointsAwarded:  points,
		BadgesUnlocked: badges,
	}, nil
}

// HelpPerson 帮助他人：计数 +1，奖励积分，检查徽章。没有对应的挑战类型。
func (s *GamificationService) HelpPerson(userID uint, points int) (*HelpResult, error) {
	if points <= 0 {
		points = DefaultHelpPoints
	}

	newCount, err := s.recordActivity(userID, "people_helped")
	if err != nil {
		return nil, err
	}

	s.awardActivityPoints(userID, points, "help", "Helped someone")
	badges := s.checkBadges(userID)

	return &HelpResult{
		PeopleHelped:   newCount,
		PointsAwarded:  points,
		BadgesUnlocked: badges,
	}, nil
}

// UpdateStreak 按日粒度维护连续活跃天数：
// 同一天不变，隔一天 +1，断档重置为 1。时钟回拨按同一天处理。
// 达到里程碑时发放 streak 徽章，重复发放由幂等检查拦截。
func (s *GamificationService) UpdateStreak(userID uint) (*StreakResult, error) {
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StreakResult{}, nil
		}
		return nil, err
	}

	today := s.today()
	newStreak := progress.StreakDays

	if progress.LastActivityDate == nil {
		newStreak = 1
	} else {
		diffDays := daysBetween(*progress.LastActivityDate, today)

		if diffDays == 1 {
			newStreak++
		} else if diffDays > 1 {
			newStreak = 1
		}
		// diffDays <= 0：同一天（或时钟回拨），保持不变
	}

	if err := s.ProgressRepo.UpdateStreak(userID, newStreak, today); err != nil {
		return nil, err
	}

	for _, milestone := range streakBadges {
		if newStreak < milestone.Days {
			continue
		}
		err := s.BadgeService.AwardSpecialBadge(userID, milestone.BadgeID)
		if err != nil && !errors.Is(err, util.ErrBadgeAlreadyEarned) {
			logger.Log.Error("streak badge award failed",
				zap.Uint("userID", userID),
				zap.String("badgeID", milestone.BadgeID),
				zap.Error(err))
		}
	}

	return &StreakResult{Streak: newStreak}, nil
}

// GetUserProgress 读取进度，行不存在时返回 nil。
func (s *GamificationService) GetUserProgress(userID uint) (*model.UserProgress, error) {
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return progress, nil
}

// recordActivity 懒创建进度行并原子递增指定计数，返回递增后的值。
func (s *GamificationService) recordActivity(userID uint, column string) (int, error) {
	if _, err := s.ProgressRepo.FindOrCreate(userID); err != nil {
		return 0, err
	}

	if err := s.ProgressRepo.IncrementCounter(s.DB, userID, column, 1); err != nil {
		return 0, err
	}

	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return 0, err
	}

	switch column {
	case "lessons_completed":
		return progress.LessonsCompleted, nil
	case "prompts_shared":
		return progress.PromptsShared, nil
	case "people_helped":
		return progress.PeopleHelped, nil
	}
	return 0, nil
}

func (s *GamificationService) awardActivityPoints(userID uint, points int, kind, reason string) {
	if _, err := s.AwardPoints(userID, points, reason); err != nil {
		// 积分发放失败不回滚已递增的计数，与触发操作解耦
		return
	}
	monitoring.PointsAwarded.WithLabelValues(kind).Add(float64(points))
}

func (s *GamificationService) checkBadges(userID uint) []model.Badge {
	badges, err := s.BadgeService.CheckAndAwardBadges(userID)
	if err != nil {
		logger.Log.Error("badge check failed", zap.Uint("userID", userID), zap.Error(err))
		return nil
	}
	return badges
}

func (s *GamificationService) advanceChallenges(userID uint, goalType model.ChallengeGoalType) {
	if err := s.ChallengeService.UpdateChallengeProgress(userID, goalType, 1); err != nil {
		logger.Log.Error("challenge update failed", zap.Uint("userID", userID), zap.Error(err))
	}
}

func (s *GamificationService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// daysBetween 以 b 所在时区的日历日为准计算 a 到 b 的天数差。
// 日期分量先换算成 UTC 再相减：夏令时切换日只有 23/25 小时，
// 直接用本地午夜时长整除会把相邻日历日算成同一天。
func daysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
