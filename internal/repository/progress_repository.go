package repository

import (
	"errors"
	"prompt_party_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(progress *model.UserProgress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) FindByUserID(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindOrCreate 读取用户进度，不存在时懒创建。
func (r *ProgressRepository) FindOrCreate(userID uint) (*model.UserProgress, error) {
	progress, err := r.FindByUserID(userID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	today := startOfDay(time.Now())
	progress = &model.UserProgress{
		UserID:           userID,
		Level:            model.LevelBeginner,
		LastActivityDate: &today,
	}
	if err := r.Create(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// AddPoints 原子累加积分并重算等级，返回新总分。
func (r *ProgressRepository) AddPoints(db *gorm.DB, userID uint, points int) (int, error) {
	err := db.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Update("points", gorm.Expr("points + ?", points)).
		Error
	if err != nil {
		return 0, err
	}

	var progress model.UserProgress
	if err := db.Where("user_id = ?", userID).First(&progress).Error; err != nil {
		return 0, err
	}

	if level := model.LevelForPoints(progress.Points); level != progress.Level {
		err = db.Model(&model.UserProgress{}).
			Where("user_id = ?", userID).
			Update("level", level).
			Error
		if err != nil {
			return 0, err
		}
	}

	return progress.Points, nil
}

// IncrementCounter 原子 +n 指定计数列。column 必须是 user_progress 的计数字段名。
func (r *ProgressRepository) IncrementCounter(db *gorm.DB, userID uint, column string, n int) error {
	return db.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", n)).
		Error
}

func (r *ProgressRepository) UpdateStreak(userID uint, streakDays int, activityDate time.Time) error {
	return r.DB.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"streak_days":        streakDays,
			"last_activity_date": activityDate,
		}).
		Error
}

func (r *ProgressRepository) FindTopByPoints(limit int) ([]model.UserProgress, error) {
	var top []model.UserProgress
	err := r.DB.Order("points DESC").Limit(limit).Find(&top).Error
	return top, err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
