package service

import (
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/pkg/database"
	"prompt_party_backend/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接各自独立，锁定单连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db            *gorm.DB
	progressRepo  *repository.ProgressRepository
	badgeRepo     *repository.BadgeRepository
	challengeRepo *repository.ChallengeRepository
	badges        *BadgeService
	challenges    *ChallengeService
	gamification  *GamificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	database.SeedBadges(db)

	progressRepo := repository.NewProgressRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)

	badges := NewBadgeService(badgeRepo, progressRepo)
	challenges := NewChallengeService(challengeRepo, progressRepo, badges, db)
	gamification := NewGamificationService(progressRepo, badges, challenges, db)

	return &fixture{
		db:            db,
		progressRepo:  progressRepo,
		badgeRepo:     badgeRepo,
		challengeRepo: challengeRepo,
		badges:        badges,
		challenges:    challenges,
		gamification:  gamification,
	}
}
