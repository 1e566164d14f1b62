package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShoppingCartRepository interface {
	Create(item *model.ShoppingCartItem) error
	Exists(userID, recipeID uint) (bool, error)
	Delete(userID, recipeID uint) (bool, error)
	RecipeIDs(userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type shoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{db: db}
}

func (r *shoppingCartRepository) Create(item *model.ShoppingCartItem) error {
	logger.Debug("Creating shopping cart item in database", map[string]interface{}{
		"user_id":   item.UserID,
		"recipe_id": item.RecipeID,
	})

	if err := r.db.Omit("User", "Recipe").Create(item).Error; err != nil {
		logger.Error("Failed to create shopping cart item in database", err, map[string]interface{}{
			"user_id":   item.UserID,
			"recipe_id": item.RecipeID,
		})
		return err
	}

	logger.Debug("Shopping cart item created in database", map[string]interface{}{
		"cart_item_id": item.ID,
	})
	return nil
}

func (r *shoppingCartRepository) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check shopping cart item", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, err
	}
	return count > 0, nil
}

// Delete removes the pair and reports whether it existed.
func (r *shoppingCartRepository) Delete(userID, recipeID uint) (bool, error) {
	logger.Debug("Deleting shopping cart item from database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.ShoppingCartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete shopping cart item from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RecipeIDs reports which of recipeIDs are in the user's cart.
func (r *shoppingCartRepository) RecipeIDs(userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return pluckRecipeIDs(r.db.Model(&model.ShoppingCartItem{}), userID, recipeIDs)
}
