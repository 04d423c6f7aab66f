package model

import (
	"time"
)

type ChallengeGoalType string

const (
	GoalLessons ChallengeGoalType = "lessons"
	GoalPrompts ChallengeGoalType = "prompts"
)

// Challenge 挑战目录：限时目标，完成后发放积分奖励和可选徽章。
// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title         string            `gorm:"size:100;not null" json:"title"`
	Description   string            `gorm:"size:500" json:"description"`
	Type          string            `gorm:"size:30" json:"type"`
	GoalType      ChallengeGoalType `gorm:"size:30;not null;index" json:"goalType"`
	GoalValue     int               `gorm:"not null" json:"goalValue"`
	RewardPoints  int               `gorm:"default:0" json:"rewardPoints"`
	RewardBadgeID *string           `gorm:"size:50" json:"rewardBadgeId"`
	EndDate       time.Time         `gorm:"not null" json:"endDate"`
	IsActive      bool              `gorm:"default:true;index" json:"isActive"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// UserChallengeProgress 每个 (用户, 挑战) 一行。completed 只能从 false 变为 true，
// 之后 current_progress 和 completed_at 不再变化。
// swagger:model UserChallengeProgress
type UserChallengeProgress struct {
	BaseModel
	UserID          uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"userId"`
	ChallengeID     uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challengeId"`
	CurrentProgress int        `gorm:"default:0" json:"currentProgress"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completedAt"`
	Challenge       Challenge  `gorm:"foreignKey:ChallengeID" json:"challenge"`
}

func (UserChallengeProgress) TableName() string {
	return "user_challenge_progress"
}
