package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo     *repository.UserRepository
	Gamification *GamificationService
	BadgeService *BadgeService
	Storage      *StorageService
	DB           *gorm.DB
}

func NewUserService(
	userRepo *repository.UserRepository,
	gamification *GamificationService,
	badgeService *BadgeService,
	storage *StorageService,
	db *gorm.DB,
) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		Gamification: gamification,
		BadgeService: badgeService,
		Storage:      storage,
		DB:           db,
	}
}

type UserProfile struct {
	User     *model.User         `json:"user"`
	Progress *model.UserProgress `json:"progress"`
	Badges   []model.UserBadge   `json:"badges"`
}

// GetProfile 用户资料页：基本信息 + 进度 + 已获得徽章。
func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.Gamification.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.BadgeService.GetUserBadges(userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		User:     user,
		Progress: progress,
		Badges:   badges,
	}, nil
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Bio = req.Bio

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar 上传头像到配置的存储后端，返回访问URL。
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("avatars/%d/%s%s", userID, model.GenerateUUID(), filepath.Ext(filename))

	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}

	return url, nil
}
