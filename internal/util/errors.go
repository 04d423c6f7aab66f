package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrBadgeAlreadyEarned  = errors.New("Badge already earned")
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrPromptNotFound      = errors.New("prompt not found")
	ErrPromptNotPublic     = errors.New("prompt is not public")
	ErrAlreadyPublished    = errors.New("prompt already published")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrAlreadyInCollection = errors.New("prompt already in collection")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrAPIKeyNotFound      = errors.New("api key not found")
	ErrAPIKeyRevoked       = errors.New("api key revoked")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)
