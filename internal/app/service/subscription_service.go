package service

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/validation"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// AuthorFeed is a followed author with a preview of their newest recipes.
type AuthorFeed struct {
	Author       model.User
	Recipes      []model.Recipe
	RecipesCount int64
}

type SubscriptionService interface {
	Subscribe(userID, authorID uint, recipesLimit int) (*AuthorFeed, error)
	Unsubscribe(userID, authorID uint) error
	List(userID uint, offset, limit, recipesLimit int) ([]AuthorFeed, int64, error)
}

type subscriptionService struct {
	subRepo     repository.SubscriptionRepository
	userRepo    repository.UserRepository
	recipeRepo  repository.RecipeRepository
	maxPageSize int
}

func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
	maxPageSize int,
) SubscriptionService {
	return &subscriptionService{
		subRepo:     subRepo,
		userRepo:    userRepo,
		recipeRepo:  recipeRepo,
		maxPageSize: maxPageSize,
	}
}

func (s *subscriptionService) Subscribe(userID, authorID uint, recipesLimit int) (*AuthorFeed, error) {
	logger.Info("Subscribing to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.subRepo.Exists(userID, authorID)
	if err != nil {
		return nil, err
	}
	if err := validation.Subscription(userID, authorID, exists, recipesLimit, s.maxPageSize); err != nil {
		logger.Warn("Subscription rejected", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
			"error":     err.Error(),
		})
		return nil, err
	}

	sub := &model.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.subRepo.Create(sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &validation.Error{
				Kind:    validation.AlreadyExists,
				Field:   "author",
				Message: "already subscribed to this user",
			}
		}
		return nil, err
	}

	feeds, err := s.feeds([]model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}

	logger.Info("Subscribed to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return &feeds[0], nil
}

func (s *subscriptionService) Unsubscribe(userID, authorID uint) error {
	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	deleted, err := s.subRepo.Delete(userID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		logger.Warn("Unsubscribe failed: not subscribed", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return ErrNotSubscribed
	}

	logger.Info("Unsubscribed from author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return nil
}

func (s *subscriptionService) List(userID uint, offset, limit, recipesLimit int) ([]AuthorFeed, int64, error) {
	if err := validation.RecipesLimit(recipesLimit, s.maxPageSize); err != nil {
		return nil, 0, err
	}

	authors, total, err := s.subRepo.FindAuthors(userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	feeds, err := s.feeds(authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return feeds, total, nil
}

// feeds attaches at most recipesLimit newest recipes and the total recipe
// count to each author.
func (s *subscriptionService) feeds(authors []model.User, recipesLimit int) ([]AuthorFeed, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	counts, err := s.recipeRepo.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepo.FindByAuthors(ids)
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[uint][]model.Recipe, len(authors))
	for _, r := range recipes {
		if len(byAuthor[r.AuthorID]) < recipesLimit {
			byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], r)
		}
	}

	feeds := make([]AuthorFeed, len(authors))
	for i, a := range authors {
		preview := byAuthor[a.ID]
		if preview == nil {
			preview = []model.Recipe{}
		}
		feeds[i] = AuthorFeed{
			Author:       a,
			Recipes:      preview,
			RecipesCount: counts[a.ID],
		}
	}
	return feeds, nil
}
