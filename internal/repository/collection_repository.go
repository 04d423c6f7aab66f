package repository

import (
	"prompt_party_backend/internal/model"

	"gorm.io/gorm"
)

type CollectionRepository struct {
	DB *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{DB: db}
}

func (r *CollectionRepository) Create(collection *model.Collection) error {
	return r.DB.Create(collection).Error
}

func (r *CollectionRepository) Update(collection *model.Collection) error {
	return r.DB.Save(collection).Error
}

func (r *CollectionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&model.CollectionPrompt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Collection{}, id).Error
	})
}

func (r *CollectionRepository) FindByID(id uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.DB.First(&collection, id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *CollectionRepository) FindByUserID(userID uint) ([]model.Collection, error) {
	var collections []model.Collection
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

func (r *CollectionRepository) FindPrompts(collectionID uint) ([]model.CollectionPrompt, error) {
	var entries []model.CollectionPrompt
	err := r.DB.Preload("Prompt").Preload("Prompt.Author").
		Where("collection_id = ?", collectionID).
		Find(&entries).Error
	return entries, err
}

func (r *CollectionRepository) ContainsPrompt(collectionID, promptID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CollectionPrompt{}).
		Where("collection_id = ? AND prompt_id = ?", collectionID, promptID).
		Count(&count).Error
	return count > 0, err
}

func (r *CollectionRepository) AddPrompt(collectionID, promptID uint) error {
	return r.DB.Create(&model.CollectionPrompt{
		CollectionID: collectionID,
		PromptID:     promptID,
	}).Error
}

func (r *CollectionRepository) RemovePrompt(collectionID, promptID uint) error {
	return r.DB.Where("collection_id = ? AND prompt_id = ?", collectionID, promptID).
		Delete(&model.CollectionPrompt{}).Error
}
