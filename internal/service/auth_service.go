package service

import (
	"errors"
	"prompt_party_backend/internal/config"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"prompt_party_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo     *repository.UserRepository
	Gamification *GamificationService
	Cfg          *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, gamification *GamificationService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:     userRepo,
		Gamification: gamification,
		Cfg:          cfg,
	}
}

// Register 创建用户并初始化进度行。进度初始化失败只记录日志，注册照常成功。
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	if err := s.Gamification.InitializeUserProgress(user.ID); err != nil {
		logger.Log.Error("initialize user progress failed",
			zap.Uint("userID", user.ID),
			zap.Error(err))
	}

	return nil
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	if user.Disabled {
		return "", util.ErrPermissionDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("update last login failed", zap.Uint("userID", user.ID), zap.Error(err))
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
