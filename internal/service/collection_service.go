package service

import (
	"errors"
	"prompt_party_backend/internal/model"
	"prompt_party_backend/internal/repository"
	"prompt_party_backend/internal/util"

	"gorm.io/gorm"
)

type CollectionService struct {
	CollectionRepo *repository.CollectionRepository
	PromptRepo     *repository.PromptRepository
}

func NewCollectionService(collectionRepo *repository.CollectionRepository, promptRepo *repository.PromptRepository) *CollectionService {
	return &CollectionService{
		CollectionRepo: collectionRepo,
		PromptRepo:     promptRepo,
	}
}

type CollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

func (s *CollectionService) Create(userID uint, req CollectionRequest) (*model.Collection, error) {
	collection := &model.Collection{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}

	if err := s.CollectionRepo.Create(collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CollectionService) ListByUser(userID uint) ([]model.Collection, error) {
	return s.CollectionRepo.FindByUserID(userID)
}

// Get 公开收藏夹任何人可读，私有仅所有者可读。
func (s *CollectionService) Get(collectionID, viewerID uint) (*model.Collection, []model.CollectionPrompt, error) {
	collection, err := s.findVisible(collectionID, viewerID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.CollectionRepo.FindPrompts(collectionID)
	if err != nil {
		return nil, nil, err
	}
	return collection, entries, nil
}

func (s *CollectionService) Delete(userID, collectionID uint) error {
	if _, err := s.findOwned(collectionID, userID); err != nil {
		return err
	}
	return s.CollectionRepo.Delete(collectionID)
}

func (s *CollectionService) AddPrompt(userID, collectionID, promptID uint) error {
	if _, err := s.findOwned(collectionID, userID); err != nil {
		return err
	}

	prompt, err := s.PromptRepo.FindByID(promptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPromptNotFound
		}
		return err
	}
	if prompt.Visibility == model.VisibilityDraft && prompt.AuthorID != userID {
		return util.ErrPromptNotPublic
	}

	exists, err := s.CollectionRepo.ContainsPrompt(collectionID, promptID)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrAlreadyInCollection
	}

	return s.CollectionRepo.AddPrompt(collectionID, promptID)
}

func (s *CollectionService) RemovePrompt(userID, collectionID, promptID uint) error {
	if _, err := s.findOwned(collectionID, userID); err != nil {
		return err
	}
	return s.CollectionRepo.RemovePrompt(collectionID, promptID)
}

func (s *CollectionService) findOwned(collectionID, userID uint) (*model.Collection, error) {
	collection, err := s.CollectionRepo.FindByID(collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCollectionNotFound
		}
		return nil, err
	}
	if collection.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return collection, nil
}

func (s *CollectionService) findVisible(collectionID, viewerID uint) (*model.Collection, error) {
	collection, err := s.CollectionRepo.FindByID(collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCollectionNotFound
		}
		return nil, err
	}
	if !collection.IsPublic && collection.UserID != viewerID {
		return nil, util.ErrCollectionNotFound
	}
	return collection, nil
}
