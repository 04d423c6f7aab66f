package service

import (
	"errors"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"prompt_party_backend/pkg/logger"
	"prompt_party_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BadgeService 徽章引擎：对照进度计数自动解锁目录徽章，或手动发放 special 徽章。
type BadgeService struct {
	BadgeRepo    *repository.BadgeRepository
	ProgressRepo *repository.ProgressRepository
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, progressRepo *repository.ProgressRepository) *BadgeService {
	return &BadgeService{
		BadgeRepo:    badgeRepo,
		ProgressRepo: progressRepo,
	}
}

// CheckAndAwardBadges 扫描全部目录徽章，为满足条件且尚未获得的徽章建立记录，
// 返回本次新解锁的徽章。重复调用是幂等的。special 徽章不参与自动解锁。
func (s *BadgeService) CheckAndAwardBadges(userID uint) ([]model.Badge, error) {
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	allBadges, err := s.BadgeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	earned, err := s.BadgeRepo.EarnedIDSet(userID)
	if err != nil {
		return nil, err
	}

	var newlyAwarded []model.Badge
	for _, badge := range allBadges {
		if earned[badge.ID] {
			continue
		}

		var shouldAward bool
		switch badge.ConditionType {
		case model.ConditionLessonsCompleted:
			shouldAward = progress.LessonsCompleted >= badge.ConditionValue
		case model.ConditionPromptsShared:
			shouldAward = progress.PromptsShared >= badge.ConditionValue
		case model.ConditionPeopleHelped:
			shouldAward = progress.PeopleHelped >= badge.ConditionValue
		default:
			// special 徽章只能手动发放
			shouldAward = false
		}

		if !shouldAward {
			continue
		}

		// 唯一索引兜底并发重复插入；插入失败的徽章不计入本次解锁
		if err := s.BadgeRepo.Award(userID, badge.ID); err != nil {
			logger.Log.Warn("badge award failed",
				zap.Uint("userID", userID),
				zap.String("badgeID", badge.ID),
				zap.Error(err))
			continue
		}

		monitoring.BadgesUnlocked.WithLabelValues(badge.ID).Inc()
		newlyAwarded = append(newlyAwarded, badge)
	}

	return newlyAwarded, nil
}

// AwardSpecialBadge 手动发放徽章（连续签到里程碑、挑战奖励等）。
// 已获得时返回 ErrBadgeAlreadyEarned。
func (s *BadgeService) AwardSpecialBadge(userID uint, badgeID string) error {
	earned, err := s.BadgeRepo.HasEarned(userID, badgeID)
	if err != nil {
		return err
	}
	if earned {
		return util.ErrBadgeAlreadyEarned
	}

	if err := s.BadgeRepo.Award(userID, badgeID); err != nil {
		return err
	}

	monitoring.BadgesUnlocked.WithLabelValues(badgeID).Inc()
	return nil
}

func (s *BadgeService) GetUserBadges(userID uint) ([]model.UserBadge, error) {
	return s.BadgeRepo.FindEarnedByUser(userID)
}

func (s *BadgeService) GetCatalog() ([]model.Badge, error) {
	return s.BadgeRepo.FindAll()
}
