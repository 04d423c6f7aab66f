package model

import (
	"time"
)

// APIKey 用户签发的 API 密钥。只保存 SHA-256 哈希，明文仅在创建时返回一次。
// swagger:model APIKey
type APIKey struct {
	BaseModel
	UserID     uint       `gorm:"not null;index" json:"userId"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	Prefix     string     `gorm:"size:12;not null" json:"prefix"`
	KeyHash    string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
	RevokedAt  *time.Time `json:"revokedAt"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
