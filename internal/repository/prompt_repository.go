package repository

import (
	"prompt_party_backend/internal/model"

	"gorm.io/gorm"
)

type PromptRepository struct {
	DB *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{DB: db}
}

func (r *PromptRepository) Create(prompt *model.Prompt) error {
	return r.DB.Create(prompt).Error
}

func (r *PromptRepository) Update(prompt *model.Prompt) error {
	return r.DB.Save(prompt).Error
}

func (r *PromptRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Prompt{}, id).Error
}

func (r *PromptRepository) FindByID(id uint) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.DB.Preload("Author").First(&prompt, id).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

type PromptFilter struct {
	Category string
	AuthorID uint
	Search   string
	Page     int
	Limit    int
}

// FindPublic 公开提示词列表，按分享时间倒序。
func (r *PromptRepository) FindPublic(filter PromptFilter) ([]model.Prompt, int64, error) {
	query := r.DB.Model(&model.Prompt{}).Where("visibility = ?", model.VisibilityPublic)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var prompts []model.Prompt
	err := query.Preload("Author").
		Order("shared_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&prompts).Error
	return prompts, total, err
}

func (r *PromptRepository) FindByAuthor(authorID uint) ([]model.Prompt, error) {
	var prompts []model.Prompt
	err := r.DB.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&prompts).Error
	return prompts, err
}

// IncrementUsage 原子累加使用次数并记录使用事件。
func (r *PromptRepository) IncrementUsage(promptID uint, userID *uint, source string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Prompt{}).
			Where("id = ?", promptID).
			Update("usage_count", gorm.Expr("usage_count + 1")).
			Error
		if err != nil {
			return err
		}
		return tx.Create(&model.PromptUsage{
			PromptID: promptID,
			UserID:   userID,
			Source:   source,
		}).Error
	})
}

// UpsertRating 写入或覆盖评分，并同步提示词上的聚合列。
func (r *PromptRepository) UpsertRating(promptID, userID uint, score int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.PromptRating
		err := tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).
			First(&existing).Error

		if err == nil {
			delta := score - existing.Score
			existing.Score = score
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			return tx.Model(&model.Prompt{}).
				Where("id = ?", promptID).
				Update("rating_total", gorm.Expr("rating_total + ?", delta)).
				Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		rating := model.PromptRating{PromptID: promptID, UserID: userID, Score: score}
		if err := tx.Create(&rating).Error; err != nil {
			return err
		}
		return tx.Model(&model.Prompt{}).
			Where("id = ?", promptID).
			Updates(map[string]interface{}{
				"rating_total": gorm.Expr("rating_total + ?", score),
				"rating_count": gorm.Expr("rating_count + 1"),
			}).
			Error
	})
}
