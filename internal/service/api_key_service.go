package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"

	"gorm.io/gorm"
)

const apiKeyPrefix = "pp_"

// APIKeyService 签发和校验 v1 API 密钥。数据库只存 SHA-256 哈希，
// 明文仅在创建响应里出现一次。
type APIKeyService struct {
	APIKeyRepo *repository.APIKeyRepository
}

func NewAPIKeyService(apiKeyRepo *repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{APIKeyRepo: apiKeyRepo}
}

type CreatedAPIKey struct {
	Key      *model.APIKey `json:"key"`
	PlainKey string        `json:"plainKey"`
}

func (s *APIKeyService) Create(userID uint, name string) (*CreatedAPIKey, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	plain := apiKeyPrefix + hex.EncodeToString(raw)

	key := &model.APIKey{
		UserID:  userID,
		Name:    name,
		Prefix:  plain[:10],
		KeyHash: hashKey(plain),
	}

	if err := s.APIKeyRepo.Create(key); err != nil {
		return nil, err
	}

	return &CreatedAPIKey{Key: key, PlainKey: plain}, nil
}

func (s *APIKeyService) List(userID uint) ([]model.APIKey, error) {
	return s.APIKeyRepo.FindByUserID(userID)
}

func (s *APIKeyService) Revoke(userID, keyID uint) error {
	key, err := s.APIKeyRepo.FindByIDAndUserID(keyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAPIKeyNotFound
		}
		return err
	}
	if key.RevokedAt != nil {
		return util.ErrAPIKeyRevoked
	}
	return s.APIKeyRepo.Revoke(key.ID)
}

// Authenticate 校验明文密钥，成功时返回持有者并异步刷新最近使用时间。
func (s *APIKeyService) Authenticate(plain string) (*model.APIKey, error) {
	key, err := s.APIKeyRepo.FindByHash(hashKey(plain))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAPIKeyNotFound
		}
		return nil, err
	}
	if key.RevokedAt != nil {
		return nil, util.ErrAPIKeyRevoked
	}

	go s.APIKeyRepo.TouchLastUsed(key.ID)

	return key, nil
}

func hashKey(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
