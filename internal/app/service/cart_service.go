package service

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/shoppinglist"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

type ShoppingCartService interface {
	AddToCart(userID, recipeID uint) (*model.Recipe, error)
	RemoveFromCart(userID, recipeID uint) error
	// ShoppingList sums the ingredients of every recipe in the cart.
	ShoppingList(userID uint) ([]shoppinglist.Item, error)
}

type shoppingCartService struct {
	mark       recipeMark
	recipeRepo repository.RecipeRepository
}

func NewShoppingCartService(cartRepo repository.ShoppingCartRepository, recipeRepo repository.RecipeRepository) ShoppingCartService {
	return &shoppingCartService{
		recipeRepo: recipeRepo,
		mark: recipeMark{
			name:       "shopping_cart",
			recipeRepo: recipeRepo,
			exists:     cartRepo.Exists,
			create: func(userID, recipeID uint) error {
				return cartRepo.Create(&model.ShoppingCartItem{UserID: userID, RecipeID: recipeID})
			},
			remove:     cartRepo.Delete,
			errPresent: ErrAlreadyInCart,
			errAbsent:  ErrNotInCart,
		},
	}
}

func (s *shoppingCartService) AddToCart(userID, recipeID uint) (*model.Recipe, error) {
	return s.mark.add(userID, recipeID)
}

func (s *shoppingCartService) RemoveFromCart(userID, recipeID uint) error {
	return s.mark.delete(userID, recipeID)
}

func (s *shoppingCartService) ShoppingList(userID uint) ([]shoppinglist.Item, error) {
	lines, err := s.recipeRepo.ShoppingLines(userID)
	if err != nil {
		return nil, err
	}

	items := shoppinglist.Aggregate(lines)
	logger.Info("Shopping list built", map[string]interface{}{
		"user_id": userID,
		"lines":   len(lines),
		"items":   len(items),
	})
	return items, nil
}
