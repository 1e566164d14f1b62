package service

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// recipeMark is a per-user on/off flag on a recipe, such as a favorite or a
// shopping cart entry. Adding a present mark and removing an absent one both
// fail.
type recipeMark struct {
	name       string
	recipeRepo repository.RecipeRepository
	exists     func(userID, recipeID uint) (bool, error)
	create     func(userID, recipeID uint) error
	remove     func(userID, recipeID uint) (bool, error)
	errPresent error
	errAbsent  error
}

func (m *recipeMark) add(userID, recipeID uint) (*model.Recipe, error) {
	logger.Info("Adding recipe mark", map[string]interface{}{
		"mark":      m.name,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	recipe, err := m.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	present, err := m.exists(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if present {
		logger.Warn("Recipe mark already present", map[string]interface{}{
			"mark":      m.name,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, m.errPresent
	}

	if err := m.create(userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, m.errPresent
		}
		return nil, err
	}
	return recipe, nil
}

func (m *recipeMark) delete(userID, recipeID uint) error {
	if _, err := m.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	deleted, err := m.remove(userID, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		logger.Warn("Recipe mark not present", map[string]interface{}{
			"mark":      m.name,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return m.errAbsent
	}

	logger.Info("Recipe mark removed", map[string]interface{}{
		"mark":      m.name,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}
