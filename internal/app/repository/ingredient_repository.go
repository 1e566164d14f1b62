package repository

import (
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository interface {
	Search(name string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// Search lists ingredients whose name contains name, case-insensitively.
// Names starting with name come first. An empty name lists everything.
func (r *ingredientRepository) Search(name string) ([]model.Ingredient, error) {
	logger.Debug("Searching ingredients in database", map[string]interface{}{
		"name": name,
	})

	query := r.db.Model(&model.Ingredient{})
	name = strings.TrimSpace(name)
	if name == "" {
		query = query.Order("name ASC").Order("id ASC")
	} else {
		escaped := escapeLike(strings.ToLower(name))
		query = query.
			Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escaped+"%").
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "CASE WHEN LOWER(name) LIKE ? ESCAPE '\\' THEN 0 ELSE 1 END, name ASC, id ASC",
				Vars:               []interface{}{escaped + "%"},
				WithoutParentheses: true,
			}})
	}

	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		logger.Error("Failed to search ingredients", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Debug("Ingredients found in database", map[string]interface{}{
		"name":  name,
		"count": len(ingredients),
	})
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		logger.Warn("Ingredient not found in database", map[string]interface{}{
			"ingredient_id": id,
			"error":         err.Error(),
		})
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs returns the existing ingredients among ids; missing ids are skipped.
func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}

	var ingredients []model.Ingredient
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by IDs", err, map[string]interface{}{
			"ingredient_ids": ids,
		})
		return nil, err
	}
	return ingredients, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
