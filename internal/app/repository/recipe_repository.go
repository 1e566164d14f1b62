package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/shoppinglist"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows a recipe listing. Nil pointers and empty slices mean
// "no filter".
type RecipeFilter struct {
	AuthorID    *uint
	TagSlugs    []string // any of
	FavoritedBy *uint
	InCartOf    *uint
	Offset      int
	Limit       int
}

type RecipeRepository interface {
	Create(recipe *model.Recipe, ingredients []model.RecipeIngredient, tags []model.Tag) error
	Update(recipe *model.Recipe, ingredients []model.RecipeIngredient, tags []model.Tag) error
	Delete(id uint) error
	FindByID(id uint) (*model.Recipe, error)
	FindWithFilter(filter RecipeFilter) ([]model.Recipe, int64, error)
	FindByAuthors(authorIDs []uint) ([]model.Recipe, error)
	CountByAuthors(authorIDs []uint) (map[uint]int64, error)
	ShoppingLines(userID uint) ([]shoppinglist.Line, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create writes the header, its ingredient lines and its tag set in one
// transaction. recipe.ID is set on success.
func (r *recipeRepository) Create(recipe *model.Recipe, ingredients []model.RecipeIngredient, tags []model.Tag) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id":         recipe.AuthorID,
		"ingredients_count": len(ingredients),
		"tags_count":        len(tags),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe, ingredients, tags)
	})
	if err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// Update rewrites the header and replaces the ingredient lines and tag set
// wholesale in one transaction.
func (r *recipeRepository) Update(recipe *model.Recipe, ingredients []model.RecipeIngredient, tags []model.Tag) error {
	logger.Debug("Updating recipe in database", map[string]interface{}{
		"recipe_id":         recipe.ID,
		"ingredients_count": len(ingredients),
		"tags_count":        len(tags),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(recipe).
			Omit(clause.Associations).
			Select("name", "text", "image", "image_key", "cooking_time", "updated_at").
			Updates(recipe)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceComposition(tx, recipe, ingredients, tags)
	})
	if err != nil {
		logger.Error("Failed to update recipe in database", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}

	logger.Debug("Recipe updated in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// replaceComposition clears the recipe's ingredient lines and inserts the
// new list, then sets the tag set to exactly tags.
func replaceComposition(tx *gorm.DB, recipe *model.Recipe, ingredients []model.RecipeIngredient, tags []model.Tag) error {
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}

	lines := make([]model.RecipeIngredient, len(ingredients))
	for i, item := range ingredients {
		lines[i] = model.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		}
	}
	if len(lines) > 0 {
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return err
		}
	}

	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}
	recipe.Ingredients = lines
	return nil
}

// Delete removes the recipe together with every row that references it.
func (r *recipeRepository) Delete(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&model.Favorite{},
			&model.ShoppingCartItem{},
			&model.RecipeIngredient{},
			&model.RecipeTag{},
		}
		for _, dep := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&model.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete recipe from database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	logger.Debug("Finding recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	if err := r.withDetails(r.db).First(&recipe, id).Error; err != nil {
		logger.Warn("Recipe not found in database", map[string]interface{}{
			"recipe_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &recipe, nil
}

// FindWithFilter returns one page of recipes, newest first, and the total
// number matching the filter.
func (r *recipeRepository) FindWithFilter(filter RecipeFilter) ([]model.Recipe, int64, error) {
	logger.Debug("Finding recipes with filter", map[string]interface{}{
		"author_id":    filter.AuthorID,
		"tags":         filter.TagSlugs,
		"favorited_by": filter.FavoritedBy,
		"in_cart_of":   filter.InCartOf,
		"offset":       filter.Offset,
		"limit":        filter.Limit,
	})

	filtered := func() *gorm.DB {
		query := r.db.Model(&model.Recipe{})
		if filter.AuthorID != nil {
			query = query.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tagged := r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			query = query.Where("recipes.id IN (?)", tagged)
		}
		if filter.FavoritedBy != nil {
			favorited := r.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy)
			query = query.Where("recipes.id IN (?)", favorited)
		}
		if filter.InCartOf != nil {
			inCart := r.db.Model(&model.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", *filter.InCartOf)
			query = query.Where("recipes.id IN (?)", inCart)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		logger.Error("Failed to count recipes", err)
		return nil, 0, err
	}

	var recipes []model.Recipe
	query := r.withDetails(filtered()).Order("recipes.created_at DESC").Order("recipes.id DESC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes with filter", err)
		return nil, 0, err
	}

	logger.Debug("Recipes found with filter", map[string]interface{}{
		"count": len(recipes),
		"total": total,
	})
	return recipes, total, nil
}

// FindByAuthors returns the recipes of the given authors, newest first.
func (r *recipeRepository) FindByAuthors(authorIDs []uint) ([]model.Recipe, error) {
	if len(authorIDs) == 0 {
		return []model.Recipe{}, nil
	}

	var recipes []model.Recipe
	err := r.db.Where("author_id IN ?", authorIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to find recipes by authors", err, map[string]interface{}{
			"author_ids": authorIDs,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count recipes by authors", err, map[string]interface{}{
			"author_ids": authorIDs,
		})
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ShoppingLines lists every ingredient line of every recipe in the user's
// cart, in cart order and then recipe order.
func (r *recipeRepository) ShoppingLines(userID uint) ([]shoppinglist.Line, error) {
	logger.Debug("Loading shopping cart ingredient lines", map[string]interface{}{
		"user_id": userID,
	})

	var lines []shoppinglist.Line
	err := r.db.Table("shopping_cart_items").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_items.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Order("shopping_cart_items.created_at ASC").
		Order("shopping_cart_items.id ASC").
		Order("recipe_ingredients.id ASC").
		Scan(&lines).Error
	if err != nil {
		logger.Error("Failed to load shopping cart ingredient lines", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping cart ingredient lines loaded", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}
