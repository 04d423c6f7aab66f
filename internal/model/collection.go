package model

// Collection 用户的提示词收藏夹。
// swagger:model Collection
type Collection struct {
	BaseModel
	UserID      uint   `gorm:"not null;index" json:"userId"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	IsPublic    bool   `gorm:"default:false" json:"isPublic"`
}

func (Collection) TableName() string {
	return "collections"
}

// CollectionPrompt 收藏夹与提示词的关联，(collection_id, prompt_id) 唯一。
type CollectionPrompt struct {
	BaseModel
	CollectionID uint   `gorm:"not null;uniqueIndex:idx_collection_prompt" json:"collectionId"`
	PromptID     uint   `gorm:"not null;uniqueIndex:idx_collection_prompt" json:"promptId"`
	Prompt       Prompt `gorm:"foreignKey:PromptID" json:"prompt"`
}

func (CollectionPrompt) TableName() string {
	return "collection_prompts"
}
