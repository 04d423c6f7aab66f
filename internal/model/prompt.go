package model

import (
	"time"
)

type PromptVisibility string

const (
	VisibilityDraft    PromptVisibility = "draft"
	VisibilityPublic   PromptVisibility = "public"
	VisibilityUnlisted PromptVisibility = "unlisted"
)

// Prompt 用户分享的提示词。RemixOfID 指向被二创的原提示词。
// swagger:model Prompt
type Prompt struct {
	BaseModel
	AuthorID    uint             `gorm:"not null;index" json:"authorId"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	Description string           `gorm:"size:500" json:"description"`
	Category    string           `gorm:"size:50;index" json:"category"`
	Tags        string           `gorm:"size:255" json:"tags"`
	Visibility  PromptVisibility `gorm:"size:20;default:'draft';index" json:"visibility"`
	RemixOfID   *uint            `gorm:"index" json:"remixOfId"`
	SharedAt    *time.Time       `json:"sharedAt"`
	UsageCount  int              `gorm:"default:0" json:"usageCount"`
	RatingTotal int              `gorm:"default:0" json:"-"`
	RatingCount int              `gorm:"default:0" json:"ratingCount"`
	Author      User             `gorm:"foreignKey:AuthorID" json:"author"`
}

func (Prompt) TableName() string {
	return "prompts"
}

// AverageRating 平均评分，无评分时为 0。
func (p *Prompt) AverageRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingTotal) / float64(p.RatingCount)
}

// PromptRating 每个 (用户, 提示词) 一条评分，1-5 分，可覆盖。
type PromptRating struct {
	BaseModel
	PromptID uint `gorm:"not null;uniqueIndex:idx_prompt_rater" json:"promptId"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_prompt_rater" json:"userId"`
	Score    int  `gorm:"not null" json:"score"`
}

func (PromptRating) TableName() string {
	return "prompt_ratings"
}

// PromptUsage 提示词使用事件，用于营销分析。
type PromptUsage struct {
	BaseModel
	PromptID uint   `gorm:"not null;index" json:"promptId"`
	UserID   *uint  `gorm:"index" json:"userId"`
	Source   string `gorm:"size:50" json:"source"`
}

func (PromptUsage) TableName() string {
	return "prompt_usages"
}
