package repository

import (
	"prompt_party_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type APIKeyRepository struct {
	DB *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{DB: db}
}

func (r *APIKeyRepository) Create(key *model.APIKey) error {
	return r.DB.Create(key).Error
}

func (r *APIKeyRepository) FindByUserID(userID uint) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&keys).Error
	return keys, err
}

func (r *APIKeyRepository) FindByHash(hash string) (*model.APIKey, error) {
	var key model.APIKey
	err := r.DB.Where("key_hash = ?", hash).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepository) FindByIDAndUserID(id, userID uint) (*model.APIKey, error) {
	var key model.APIKey
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepository) Revoke(id uint) error {
	return r.DB.Model(&model.APIKey{}).
		Where("id = ?", id).
		Update("revoked_at", time.Now()).
		Error
}

func (r *APIKeyRepository) TouchLastUsed(id uint) error {
	return r.DB.Model(&model.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now()).
		Error
}
