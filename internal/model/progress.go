package model

import (
	"time"
)

type ProgressLevel string

const (
	LevelBeginner     ProgressLevel = "beginner"
	LevelIntermediate ProgressLevel = "intermediate"
	LevelExpert       ProgressLevel = "expert"
	LevelMaster       ProgressLevel = "master"
	LevelLegend       ProgressLevel = "legend"
)

// Point totals at which each level starts. The level column is derived from
// points and recomputed on every award.
var levelThresholds = []struct {
	Min   int
	Level ProgressLevel
}{
	{5000, LevelLegend},
	{1500, LevelMaster},
	{500, LevelExpert},
	{100, LevelIntermediate},
	{0, LevelBeginner},
}

func LevelForPoints(points int) ProgressLevel {
	for _, t := range levelThresholds {
		if points >= t.Min {
			return t.Level
		}
	}
	return LevelBeginner
}

// UserProgress 每个用户一行，记录积分、等级、连续活跃天数和各项活动计数。
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID              uint          `gorm:"uniqueIndex;not null" json:"userId"`
	Points              int           `gorm:"default:0" json:"points"`
	Level               ProgressLevel `gorm:"size:20;default:'beginner'" json:"level"`
	StreakDays          int           `gorm:"default:0" json:"streakDays"`
	LessonsCompleted    int           `gorm:"default:0" json:"lessonsCompleted"`
	PromptsShared       int           `gorm:"default:0" json:"promptsShared"`
	PeopleHelped        int           `gorm:"default:0" json:"peopleHelped"`
	ChallengesCompleted int           `gorm:"default:0" json:"challengesCompleted"`
	LastActivityDate    *time.Time    `json:"lastActivityDate"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
