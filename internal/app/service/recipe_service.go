package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/dto"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/shortlink"
	"github.com/ikkim/foodgram-backend/internal/app/validation"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeView is a recipe as seen by one viewer.
type RecipeView struct {
	Recipe model.Recipe
	Viewer dto.RecipeViewer
}

// RecipeQuery is a listing request. IsFavorited and IsInShoppingCart only
// narrow the list for a signed-in viewer.
type RecipeQuery struct {
	AuthorID         *uint
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Offset           int
	Limit            int
}

type RecipeService interface {
	List(viewerID *uint, query RecipeQuery) ([]RecipeView, int64, error)
	Get(viewerID *uint, id uint) (*RecipeView, error)
	Create(ctx context.Context, authorID uint, req dto.RecipeWriteRequest) (*RecipeView, error)
	Update(ctx context.Context, userID, recipeID uint, req dto.RecipeWriteRequest) (*RecipeView, error)
	Delete(ctx context.Context, userID, recipeID uint) error
	ShortLinkToken(id uint) (string, error)
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	favoriteRepo   repository.FavoriteRepository
	cartRepo       repository.ShoppingCartRepository
	subRepo        repository.SubscriptionRepository
	images         storage.ImageStorage
	cfg            config.RecipeConfig
	maxImageSize   int64
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	favoriteRepo repository.FavoriteRepository,
	cartRepo repository.ShoppingCartRepository,
	subRepo repository.SubscriptionRepository,
	images storage.ImageStorage,
	cfg config.RecipeConfig,
	maxImageSize int64,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		favoriteRepo:   favoriteRepo,
		cartRepo:       cartRepo,
		subRepo:        subRepo,
		images:         images,
		cfg:            cfg,
		maxImageSize:   maxImageSize,
	}
}

func (s *recipeService) List(viewerID *uint, query RecipeQuery) ([]RecipeView, int64, error) {
	filter := repository.RecipeFilter{
		AuthorID: query.AuthorID,
		TagSlugs: query.TagSlugs,
		Offset:   query.Offset,
		Limit:    query.Limit,
	}
	if viewerID != nil {
		if query.IsFavorited {
			filter.FavoritedBy = viewerID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipeRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.views(viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *recipeService) Get(viewerID *uint, id uint) (*RecipeView, error) {
	recipe, err := s.find(id)
	if err != nil {
		return nil, err
	}

	views, err := s.views(viewerID, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *recipeService) find(id uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		logger.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return recipe, nil
}

// views resolves the favorite, cart and subscription flags of viewerID for
// every recipe with one query per flag.
func (s *recipeService) views(viewerID *uint, recipes []model.Recipe) ([]RecipeView, error) {
	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		views[i].Recipe = recipes[i]
	}
	if viewerID == nil || len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited, err := s.favoriteRepo.RecipeIDs(*viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cartRepo.RecipeIDs(*viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.subRepo.AuthorIDs(*viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for i, r := range recipes {
		views[i].Viewer = dto.RecipeViewer{
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorSubscribed: followed[r.AuthorID],
		}
	}
	return views, nil
}

// composition is a validated set of tags and ingredient lines.
type composition struct {
	tags        []model.Tag
	ingredients []model.RecipeIngredient
}

// validate runs every domain rule on req before anything is written.
// requireImage is false on update, where an empty image keeps the old one.
func (s *recipeService) validate(req dto.RecipeWriteRequest, requireImage bool) (*composition, error) {
	items := req.IngredientAmounts()
	ingredientIDs := make([]uint, len(items))
	for i, item := range items {
		ingredientIDs[i] = item.ID
	}
	catalog, err := s.ingredientRepo.FindByIDs(ingredientIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]struct{}, len(catalog))
	for _, ing := range catalog {
		known[ing.ID] = struct{}{}
	}
	if err := validation.Ingredients(items, known, s.cfg.AmountMin); err != nil {
		return nil, err
	}

	if err := validation.Tags(req.Tags); err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.FindByIDs(req.Tags)
	if err != nil {
		return nil, err
	}
	knownTags := make(map[uint]struct{}, len(tags))
	for _, t := range tags {
		knownTags[t.ID] = struct{}{}
	}
	if err := validation.TagReferences(req.Tags, knownTags); err != nil {
		return nil, err
	}

	if requireImage {
		if err := validation.Image(req.Image); err != nil {
			return nil, err
		}
	}
	if err := validation.CookingTime(req.CookingTime, s.cfg.CookingTimeMin); err != nil {
		return nil, err
	}

	lines := make([]model.RecipeIngredient, len(items))
	for i, item := range items {
		lines[i] = model.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount}
	}
	return &composition{tags: tags, ingredients: lines}, nil
}

// upload decodes and stores the recipe image. It returns nil for an empty
// payload.
func (s *recipeService) upload(ctx context.Context, dataURI string) (*storage.StoredObject, error) {
	if dataURI == "" {
		return nil, nil
	}
	img, err := storage.DecodeDataURI(dataURI, s.maxImageSize)
	if err != nil {
		return nil, imageError("image", err)
	}
	return s.images.Save(ctx, storage.FolderRecipes, img)
}

func (s *recipeService) Create(ctx context.Context, authorID uint, req dto.RecipeWriteRequest) (*RecipeView, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": authorID,
		"name":      req.Name,
	})

	comp, err := s.validate(req, true)
	if err != nil {
		logger.Warn("Recipe rejected", map[string]interface{}{
			"author_id": authorID,
			"error":     err.Error(),
		})
		return nil, err
	}

	obj, err := s.upload(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       obj.URL,
		ImageKey:    obj.Key,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepo.Create(recipe, comp.ingredients, comp.tags); err != nil {
		discardImage(ctx, s.images, obj.Key)
		return nil, err
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.Get(&authorID, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, userID, recipeID uint, req dto.RecipeWriteRequest) (*RecipeView, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})

	recipe, err := s.authored(userID, recipeID)
	if err != nil {
		return nil, err
	}

	comp, err := s.validate(req, false)
	if err != nil {
		logger.Warn("Recipe update rejected", map[string]interface{}{
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		return nil, err
	}

	obj, err := s.upload(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	if obj != nil {
		oldKey = recipe.ImageKey
		recipe.Image = obj.URL
		recipe.ImageKey = obj.Key
	}
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	if err := s.recipeRepo.Update(recipe, comp.ingredients, comp.tags); err != nil {
		if obj != nil {
			discardImage(ctx, s.images, obj.Key)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	discardImage(ctx, s.images, oldKey)

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.Get(&userID, recipeID)
}

func (s *recipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.authored(userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	discardImage(ctx, s.images, recipe.ImageKey)

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})
	return nil
}

// authored loads the recipe and checks that userID wrote it.
func (s *recipeService) authored(userID, recipeID uint) (*model.Recipe, error) {
	recipe, err := s.find(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		logger.Warn("Recipe change denied: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"author_id": recipe.AuthorID,
		})
		return nil, ErrNotRecipeAuthor
	}
	return recipe, nil
}

func (s *recipeService) ShortLinkToken(id uint) (string, error) {
	recipe, err := s.find(id)
	if err != nil {
		return "", err
	}
	return shortlink.Token(recipe.ID, recipe.CreatedAt, s.cfg.ShortLinkLength), nil
}
