package repository

import (
	"prompt_party_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindByID(id string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("id = ?", id).First(&badge).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *BadgeRepository) FindEarnedByUser(userID uint) ([]model.UserBadge, error) {
	var earned []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

// EarnedIDSet 用户已获得的徽章ID集合。
func (r *BadgeRepository) EarnedIDSet(userID uint) (map[string]bool, error) {
	var ids []string
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *BadgeRepository) HasEarned(userID uint, badgeID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	return count > 0, err
}

func (r *BadgeRepository) Award(userID uint, badgeID string) error {
	return r.DB.Create(&model.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}).Error
}
