package service

import (
	"errors"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"prompt_party_backend/pkg/logger"
	"prompt_party_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChallengeService 挑战追踪：推进用户在所有匹配的限时挑战上的进度，
// 跨过目标阈值时在同一次调用内发放奖励。
type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	ProgressRepo  *repository.ProgressRepository
	BadgeService  *BadgeService
	DB            *gorm.DB

	now func() time.Time
}

func NewChallengeService(
	challengeRepo *repository.ChallengeRepository,
	progressRepo *repository.ProgressRepository,
	badgeService *BadgeService,
	db *gorm.DB,
) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		ProgressRepo:  progressRepo,
		BadgeService:  badgeService,
		DB:            db,
		now:           time.Now,
	}
}

// UpdateChallengeProgress 推进目标类型匹配的全部激活未过期挑战。
// completed 只会从 false 变为 true；已完成的行不再修改。
// 单个挑战的失败只记录日志，不影响其余挑战。
func (s *ChallengeService) UpdateChallengeProgress(userID uint, goalType model.ChallengeGoalType, increment int) error {
	challenges, err := s.ChallengeRepo.FindActiveByGoalType(goalType, s.now())
	if err != nil {
		return err
	}

	for _, challenge := range challenges {
		if err := s.advance(userID, challenge, increment); err != nil {
			logger.Log.Error("challenge progress update failed",
				zap.Uint("userID", userID),
				zap.Uint("challengeID", challenge.ID),
				zap.Error(err))
		}
	}

	return nil
}

func (s *ChallengeService) advance(userID uint, challenge model.Challenge, increment int) error {
	existing, err := s.ChallengeRepo.FindUserProgress(userID, challenge.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing == nil {
		completed := increment >= challenge.GoalValue
		progress := &model.UserChallengeProgress{
			UserID:          userID,
			ChallengeID:     challenge.ID,
			CurrentProgress: increment,
			Completed:       completed,
		}
		if completed {
			now := s.now()
			progress.CompletedAt = &now
		}
		if err := s.DB.Create(progress).Error; err != nil {
			return err
		}
		if completed {
			s.disburse(userID, challenge)
		}
		return nil
	}

	// 完成状态单调：已完成的行原样保留
	if existing.Completed {
		return nil
	}

	// 进度不截断到 goal_value，完成那次的增量允许越过阈值
	newProgress := existing.CurrentProgress + increment
	justCompleted := newProgress >= challenge.GoalValue

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_progress": newProgress,
			"completed":        justCompleted,
		}
		if justCompleted {
			updates["completed_at"] = s.now()
		}
		// completed = false 条件保证奖励在并发下最多发放一次
		result := tx.Model(&model.UserChallengeProgress{}).
			Where("id = ? AND completed = ?", existing.ID, false).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			justCompleted = false
			return nil
		}

		if justCompleted {
			if challenge.RewardPoints > 0 {
				if _, err := s.ProgressRepo.AddPoints(tx, userID, challenge.RewardPoints); err != nil {
					return err
				}
			}
			return s.ProgressRepo.IncrementCounter(tx, userID, "challenges_completed", 1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if justCompleted {
		monitoring.PointsAwarded.WithLabelValues("challenge").Add(float64(challenge.RewardPoints))
		if challenge.RewardBadgeID != nil {
			s.awardRewardBadge(userID, *challenge.RewardBadgeID)
		}
	}

	return nil
}

// disburse 发放首个增量即完成的挑战奖励（新建进度行的路径）。
func (s *ChallengeService) disburse(userID uint, challenge model.Challenge) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if challenge.RewardPoints > 0 {
			if _, err := s.ProgressRepo.AddPoints(tx, userID, challenge.RewardPoints); err != nil {
				return err
			}
		}
		return s.ProgressRepo.IncrementCounter(tx, userID, "challenges_completed", 1)
	})
	if err != nil {
		logger.Log.Error("challenge reward disbursement failed",
			zap.Uint("userID", userID),
			zap.Uint("challengeID", challenge.ID),
			zap.Error(err))
		return
	}

	monitoring.PointsAwarded.WithLabelValues("challenge").Add(float64(challenge.RewardPoints))
	if challenge.RewardBadgeID != nil {
		s.awardRewardBadge(userID, *challenge.RewardBadgeID)
	}
}

func (s *ChallengeService) awardRewardBadge(userID uint, badgeID string) {
	err := s.BadgeService.AwardSpecialBadge(userID, badgeID)
	if err != nil && !errors.Is(err, util.ErrBadgeAlreadyEarned) {
		logger.Log.Error("challenge reward badge failed",
			zap.Uint("userID", userID),
			zap.String("badgeID", badgeID),
			zap.Error(err))
	}
}

func (s *ChallengeService) GetUserActiveChallenges(userID uint) ([]model.UserChallengeProgress, error) {
	return s.ChallengeRepo.FindActiveByUser(userID)
}

func (s *ChallengeService) GetCatalog() ([]model.Challenge, error) {
	return s.ChallengeRepo.FindAll()
}

func (s *ChallengeService) CreateChallenge(challenge *model.Challenge) error {
	return s.ChallengeRepo.Create(challenge)
}

func (s *ChallengeService) UpdateChallenge(challenge *model.Challenge) error {
	return s.ChallengeRepo.Update(challenge)
}

// DeactivateExpired 下线已过截止日期的挑战，由后台定时任务调用。
func (s *ChallengeService) DeactivateExpired() (int64, error) {
	return s.ChallengeRepo.DeactivateExpired(s.now())
}
