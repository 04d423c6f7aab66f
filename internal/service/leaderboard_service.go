package service

import (
	"context"
	"encoding/json"
	"fmt"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheTTL = 60 * time.Second

// LeaderboardService 积分排行榜，Redis 短TTL缓存，缓存失效回源数据库。
type LeaderboardService struct {
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	Redis        *redis.Client
}

func NewLeaderboardService(progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Redis:        rdb,
	}
}

type LeaderboardEntry struct {
	Rank   int                 `json:"rank"`
	UserID uint                `json:"userId"`
	Name   string              `json:"name"`
	Avatar string              `json:"avatar,omitempty"`
	Points int                 `json:"points"`
	Level  model.ProgressLevel `json:"level"`
	Badges int                 `json:"badges"`
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.build(limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		data, err := json.Marshal(entries)
		if err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}

func (s *LeaderboardService) build(limit int) ([]LeaderboardEntry, error) {
	top, err := s.ProgressRepo.FindTopByPoints(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(top))
	for i, progress := range top {
		user, err := s.UserRepo.FindByID(progress.UserID)
		if err != nil {
			continue
		}

		var badgeCount int64
		s.ProgressRepo.DB.Model(&model.UserBadge{}).
			Where("user_id = ?", progress.UserID).
			Count(&badgeCount)

		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: progress.UserID,
			Name:   user.Name,
			Avatar: user.Avatar,
			Points: progress.Points,
			Level:  progress.Level,
			Badges: int(badgeCount),
		})
	}

	return entries, nil
}
