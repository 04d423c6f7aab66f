package repository

import (
	"prompt_party_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindAll() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Order("end_date ASC").Find(&challenges).Error
	return challenges, err
}

// FindActiveByGoalType 激活且未过期、目标类型匹配的挑战。
func (r *ChallengeRepository) FindActiveByGoalType(goalType model.ChallengeGoalType, now time.Time) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("is_active = ? AND goal_type = ? AND end_date >= ?", true, goalType, now).
		Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) FindUserProgress(userID, challengeID uint) (*model.UserChallengeProgress, error) {
	var progress model.UserChallengeProgress
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindActiveByUser 用户尚未完成的挑战进度，带挑战详情。
func (r *ChallengeRepository) FindActiveByUser(userID uint) ([]model.UserChallengeProgress, error) {
	var progress []model.UserChallengeProgress
	err := r.DB.Preload("Challenge").
		Where("user_id = ? AND completed = ?", userID, false).
		Find(&progress).Error
	return progress, err
}

// DeactivateExpired 下线截止日期已过的挑战，返回影响行数。
func (r *ChallengeRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.DB.Model(&model.Challenge{}).
		Where("is_active = ? AND end_date < ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
