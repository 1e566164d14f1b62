package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/validation"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrWrongPassword         = errors.New("current password is incorrect")
	ErrUserNotFound          = errors.New("user not found")
	ErrAvatarNotFound        = errors.New("avatar not found")
	ErrTokenRevoked          = errors.New("token has been revoked")

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotRecipeAuthor    = errors.New("only the author can change this recipe")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")

	ErrAlreadyFavorited = errors.New("recipe is already in favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
	ErrAlreadyInCart    = errors.New("recipe is already in the shopping cart")
	ErrNotInCart        = errors.New("recipe is not in the shopping cart")
	ErrNotSubscribed    = errors.New("not subscribed to this user")
)

// imageError turns an upload decoding failure into a validation error on field.
func imageError(field string, err error) error {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return &validation.Error{Kind: validation.LimitExceeded, Field: field, Message: err.Error()}
	case errors.Is(err, storage.ErrInvalidImage), errors.Is(err, storage.ErrUnsupportedImage):
		return &validation.Error{Kind: validation.InvalidFormat, Field: field, Message: err.Error()}
	}
	return fmt.Errorf("failed to decode %s: %w", field, err)
}

// discardImage deletes a blob that is no longer referenced. Failures only
// leave an orphaned file, so they are logged and dropped.
func discardImage(ctx context.Context, images storage.ImageStorage, key string) {
	if key == "" {
		return
	}
	if err := images.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete unreferenced image", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
