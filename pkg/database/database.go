package database

import (
	"fmt"
	"log"
	"prompt_party_backend/internal/config"
	"prompt_party_backend/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	SeedBadges(db)
	SeedChallenges(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserProgress{},
		&model.Badge{},
		&model.UserBadge{},
		&model.Challenge{},
		&model.UserChallengeProgress{},
		&model.Prompt{},
		&model.PromptRating{},
		&model.PromptUsage{},
		&model.Collection{},
		&model.CollectionPrompt{},
		&model.APIKey{},
	)
}

// SeedBadges 初始化默认徽章目录。连续签到和挑战奖励依赖 special 徽章存在。
func SeedBadges(db *gorm.DB) {
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count > 0 {
		return
	}

	defaultBadges := []model.Badge{
		{ID: "first_lesson", Name: "First Steps", Icon: "🎓", Category: "learning", ConditionType: model.ConditionLessonsCompleted, ConditionValue: 1},
		{ID: "lessons_5", Name: "Quick Learner", Icon: "📚", Category: "learning", ConditionType: model.ConditionLessonsCompleted, ConditionValue: 5},
		{ID: "lessons_10", Name: "Dedicated Student", Icon: "🧠", Category: "learning", ConditionType: model.ConditionLessonsCompleted, ConditionValue: 10},
		{ID: "lessons_25", Name: "Prompt Scholar", Icon: "🏛️", Category: "learning", ConditionType: model.ConditionLessonsCompleted, ConditionValue: 25},
		{ID: "first_share", Name: "First Share", Icon: "✨", Category: "sharing", ConditionType: model.ConditionPromptsShared, ConditionValue: 1},
		{ID: "prompts_5", Name: "Prompt Artisan", Icon: "🎨", Category: "sharing", ConditionType: model.ConditionPromptsShared, ConditionValue: 5},
		{ID: "prompts_10", Name: "Prompt Machine", Icon: "⚡", Category: "sharing", ConditionType: model.ConditionPromptsShared, ConditionValue: 10},
		{ID: "first_help", Name: "Helping Hand", Icon: "🤝", Category: "community", ConditionType: model.ConditionPeopleHelped, ConditionValue: 1},
		{ID: "helped_10", Name: "Community Pillar", Icon: "🏆", Category: "community", ConditionType: model.ConditionPeopleHelped, ConditionValue: 10},
		{ID: "streak_3", Name: "On a Roll", Icon: "🔥", Category: "streak", ConditionType: model.ConditionSpecial},
		{ID: "streak_7", Name: "Week Warrior", Icon: "⚔️", Category: "streak", ConditionType: model.ConditionSpecial},
		{ID: "streak_30", Name: "Unstoppable", Icon: "🚀", Category: "streak", ConditionType: model.ConditionSpecial},
		{ID: "early_adopter", Name: "Early Adopter", Icon: "🌱", Category: "special", ConditionType: model.ConditionSpecial},
	}

	for _, b := range defaultBadges {
		db.Create(&b)
	}
}

// SeedChallenges 插入一个示例周挑战，仅在目录为空时执行。
func SeedChallenges(db *gorm.DB) {
	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	if count > 0 {
		return
	}

	badgeID := "prompts_5"
	db.Create(&model.Challenge{
		Title:         "Weekly Creator",
		Description:   "Share 5 prompts this week",
		Type:          "weekly",
		GoalType:      model.GoalPrompts,
		GoalValue:     5,
		RewardPoints:  100,
		RewardBadgeID: &badgeID,
		EndDate:       time.Now().AddDate(0, 0, 7),
		IsActive:      true,
	})
}
