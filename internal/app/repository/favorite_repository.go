package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(item *model.Favorite) error
	Exists(userID, recipeID uint) (bool, error)
	Delete(userID, recipeID uint) (bool, error)
	RecipeIDs(userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(item *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id":   item.UserID,
		"recipe_id": item.RecipeID,
	})

	if err := r.db.Omit("User", "Recipe").Create(item).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":   item.UserID,
			"recipe_id": item.RecipeID,
		})
		return err
	}

	logger.Debug("Favorite created in database", map[string]interface{}{
		"favorite_id": item.ID,
	})
	return nil
}

func (r *favoriteRepository) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check favorite", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, err
	}
	return count > 0, nil
}

// Delete removes the pair and reports whether it existed.
func (r *favoriteRepository) Delete(userID, recipeID uint) (bool, error) {
	logger.Debug("Deleting favorite from database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.Favorite{})
	if result.Error != nil {
		logger.Error("Failed to delete favorite from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RecipeIDs reports which of recipeIDs the user has favorited.
func (r *favoriteRepository) RecipeIDs(userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return pluckRecipeIDs(r.db.Model(&model.Favorite{}), userID, recipeIDs)
}

func pluckRecipeIDs(query *gorm.DB, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := query.Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Pluck("recipe_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load marked recipe IDs", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
