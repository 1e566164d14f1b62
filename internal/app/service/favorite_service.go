package service

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
)

type FavoriteService interface {
	AddFavorite(userID, recipeID uint) (*model.Recipe, error)
	RemoveFavorite(userID, recipeID uint) error
}

type favoriteService struct {
	mark recipeMark
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, recipeRepo repository.RecipeRepository) FavoriteService {
	return &favoriteService{mark: recipeMark{
		name:       "favorite",
		recipeRepo: recipeRepo,
		exists:     favoriteRepo.Exists,
		create: func(userID, recipeID uint) error {
			return favoriteRepo.Create(&model.Favorite{UserID: userID, RecipeID: recipeID})
		},
		remove:     favoriteRepo.Delete,
		errPresent: ErrAlreadyFavorited,
		errAbsent:  ErrNotFavorited,
	}}
}

func (s *favoriteService) AddFavorite(userID, recipeID uint) (*model.Recipe, error) {
	return s.mark.add(userID, recipeID)
}

func (s *favoriteService) RemoveFavorite(userID, recipeID uint) error {
	return s.mark.delete(userID, recipeID)
}
