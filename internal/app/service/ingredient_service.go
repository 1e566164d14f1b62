package service

import (
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type IngredientService interface {
	// Search lists ingredients whose name contains name, prefix matches
	// first. An empty name lists the whole catalog.
	Search(name string) ([]model.Ingredient, error)
	GetIngredient(id uint) (*model.Ingredient, error)
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) Search(name string) ([]model.Ingredient, error) {
	name = strings.TrimSpace(name)
	logger.Debug("Searching ingredients", map[string]interface{}{
		"name": name,
	})
	return s.ingredientRepo.Search(name)
}

func (s *ingredientService) GetIngredient(id uint) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}
