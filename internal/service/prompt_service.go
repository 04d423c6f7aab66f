package service

import (
	"errors"
	"fmt"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"
	"prompt_party_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PromptService 提示词的创建、发布、二创和营销统计。
// 首次发布触发游戏化账本的 SharePrompt。
type PromptService struct {
	PromptRepo   *repository.PromptRepository
	Gamification *GamificationService
}

func NewPromptService(promptRepo *repository.PromptRepository, gamification *GamificationService) *PromptService {
	return &PromptService{
		PromptRepo:   promptRepo,
		Gamification: gamification,
	}
}

type PromptRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
}

func (s *PromptService) Create(authorID uint, req PromptRequest) (*model.Prompt, error) {
	prompt := &model.Prompt{
		AuthorID:    authorID,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Visibility:  model.VisibilityDraft,
	}

	if err := s.PromptRepo.Create(prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *PromptService) Update(userID, promptID uint, req PromptRequest) (*model.Prompt, error) {
	prompt, err := s.findOwned(userID, promptID)
	if err != nil {
		return nil, err
	}

	prompt.Title = req.Title
	prompt.Content = req.Content
	prompt.Description = req.Description
	prompt.Category = req.Category
	prompt.Tags = req.Tags

	if err := s.PromptRepo.Update(prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *PromptService) Delete(userID, promptID uint) error {
	if _, err := s.findOwned(userID, promptID); err != nil {
		return err
	}
	return s.PromptRepo.Delete(promptID)
}

// Get 已发布提示词（public 或 unlisted）任何人可读，草稿仅作者可读。
func (s *PromptService) Get(promptID uint, viewerID uint) (*model.Prompt, error) {
	prompt, err := s.PromptRepo.FindByID(promptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPromptNotFound
		}
		return nil, err
	}

	if prompt.Visibility == model.VisibilityDraft && prompt.AuthorID != viewerID {
		return nil, util.ErrPromptNotFound
	}
	return prompt, nil
}

func (s *PromptService) List(filter repository.PromptFilter) ([]model.Prompt, int64, error) {
	return s.PromptRepo.FindPublic(filter)
}

func (s *PromptService) ListByAuthor(authorID uint) ([]model.Prompt, error) {
	return s.PromptRepo.FindByAuthor(authorID)
}

// Publish 发布草稿：公开，或 unlisted（不进入公开列表，知道链接即可访问）。
// 只有首次发布奖励积分，重复发布返回错误。
func (s *PromptService) Publish(userID, promptID uint, unlisted bool) (*model.Prompt, *ShareResult, error) {
	prompt, err := s.findOwned(userID, promptID)
	if err != nil {
		return nil, nil, err
	}

	if prompt.Visibility != model.VisibilityDraft {
		return nil, nil, util.ErrAlreadyPublished
	}

	now := time.Now()
	prompt.Visibility = model.VisibilityPublic
	if unlisted {
		prompt.Visibility = model.VisibilityUnlisted
	}
	prompt.SharedAt = &now
	if err := s.PromptRepo.Update(prompt); err != nil {
		return nil, nil, err
	}

	// 游戏化副作用失败不回滚发布
	share, err := s.Gamification.SharePrompt(userID, fmt.Sprintf("%d", promptID), DefaultPromptPoints)
	if err != nil {
		logger.Log.Error("share prompt reward failed",
			zap.Uint("userID", userID),
			zap.Uint("promptID", promptID),
			zap.Error(err))
		share = &ShareResult{}
	}

	return prompt, share, nil
}

// Remix 以已发布提示词为底稿创建新草稿，记录来源。
func (s *PromptService) Remix(userID, promptID uint) (*model.Prompt, error) {
	source, err := s.PromptRepo.FindByID(promptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPromptNotFound
		}
		return nil, err
	}

	if source.Visibility == model.VisibilityDraft && source.AuthorID != userID {
		return nil, util.ErrPromptNotPublic
	}

	remix := &model.Prompt{
		AuthorID:    userID,
		Title:       source.Title + " (remix)",
		Content:     source.Content,
		Description: source.Description,
		Category:    source.Category,
		Tags:        source.Tags,
		Visibility:  model.VisibilityDraft,
		RemixOfID:   &source.ID,
	}

	if err := s.PromptRepo.Create(remix); err != nil {
		return nil, err
	}
	return remix, nil
}

// Rate 1-5 分评分，同一用户重复评分覆盖旧值。
func (s *PromptService) Rate(userID, promptID uint, score int) error {
	if score < 1 || score > 5 {
		return util.ErrInvalidRating
	}

	if _, err := s.Get(promptID, userID); err != nil {
		return err
	}

	return s.PromptRepo.UpsertRating(promptID, userID, score)
}

// TrackUsage 记录一次提示词使用，userID 可为空（匿名/API访问）。
func (s *PromptService) TrackUsage(promptID uint, userID *uint, source string) error {
	if _, err := s.PromptRepo.FindByID(promptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPromptNotFound
		}
		return err
	}
	return s.PromptRepo.IncrementUsage(promptID, userID, source)
}

func (s *PromptService) findOwned(userID, promptID uint) (*model.Prompt, error) {
	prompt, err := s.PromptRepo.FindByID(promptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPromptNotFound
		}
		return nil, err
	}
	if prompt.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return prompt, nil
}
