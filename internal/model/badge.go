package model

import (
	"time"
)

type BadgeConditionType string

const (
	ConditionLessonsCompleted BadgeConditionType = "lessons_completed"
	ConditionPromptsShared    BadgeConditionType = "prompts_shared"
	ConditionPeopleHelped     BadgeConditionType = "people_helped"
	ConditionSpecial          BadgeConditionType = "special"
)

// Badge 徽章目录，运行时只读。special 类型的徽章不会自动解锁。
// swagger:model Badge
type Badge struct {
	ID             string             `gorm:"primaryKey;size:50" json:"id"`
	Name           string             `gorm:"size:100;not null" json:"name"`
	Description    string             `gorm:"size:255" json:"description"`
	Icon           string             `gorm:"size:50" json:"icon"`
	Category       string             `gorm:"size:50" json:"category"`
	ConditionType  BadgeConditionType `gorm:"size:30;not null" json:"conditionType"`
	ConditionValue int                `gorm:"default:0" json:"conditionValue"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户已获得的徽章，只增不删。(user_id, badge_id) 唯一。
// swagger:model UserBadge
type UserBadge struct {
	BaseModel
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"userId"`
	BadgeID  string    `gorm:"size:50;not null;uniqueIndex:idx_user_badge" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
	Badge    Badge     `gorm:"foreignKey:BadgeID" json:"badge"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
